package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Таблица подстановок: Boxberry сокращает типы регионов, справочник
// маркетплейса хранит их полностью.
var areaSubstitutions = map[string]string{
	"обл.":   "область",
	"обл":    "область",
	"АО":     "автономный округ",
	"а.обл.": "автономная область",
	"кр.":    "край",
}

// Токены-сокращения "республики" в любом месте имени.
var republicTokens = map[string]struct{}{
	"Респ.":   {},
	"Респ":    {},
	"(Респ.)": {},
	"(Респ)":  {},
}

var titleCaser = cases.Title(language.Russian)

// RegionName выравнивает свободный текст области между двумя сервисами:
// раскрывает сокращения и выносит "Республика" в префикс.
func RegionName(raw string) string {
	fields := strings.Fields(strings.TrimSpace(raw))

	var (
		out      []string
		republic bool
	)
	for _, f := range fields {
		if f == "Республика" {
			republic = true
			continue
		}
		if _, ok := republicTokens[f]; ok {
			republic = true
			continue
		}
		if sub, ok := areaSubstitutions[f]; ok {
			out = append(out, sub)
			continue
		}
		out = append(out, f)
	}

	name := strings.Join(out, " ")
	if republic {
		name = "Республика " + titleCaser.String(name)
	}
	return name
}
