package normalize

import (
	"fmt"
	"strings"

	"gopointsync_api/internal/apierr"
)

// Phone приводит сырой телефон пункта выдачи к формату +C (AAA) XXX-XX-XX.
// Ведущая восьмёрка заменяется на +7. После чистки должно остаться ровно
// 11 значащих цифр, иначе точка непригодна для публикации.
func Phone(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', '-', ' ':
			return -1
		}
		return r
	}, raw)

	if cleaned == "" {
		return "", apierr.NewParseError("invalid phone: %s", raw)
	}

	if !strings.HasPrefix(cleaned, "+") {
		if cleaned[0] == '8' {
			cleaned = "7" + cleaned[1:]
		}
		cleaned = "+" + cleaned
	}

	if len(cleaned) != 12 {
		return "", apierr.NewParseError("invalid phone: %s", raw)
	}
	for _, r := range cleaned[1:] {
		if r < '0' || r > '9' {
			return "", apierr.NewParseError("invalid phone: %s", raw)
		}
	}

	return fmt.Sprintf("%s (%s) %s-%s-%s",
		cleaned[:2], cleaned[2:5], cleaned[5:8], cleaned[8:10], cleaned[10:12]), nil
}
