package costimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var columns = []string{"city_name", "region", "cost"}

// Override -- одна строка перекрытия тарифа. Заполнено ровно одно из
// полей City или Region.
type Override struct {
	City   string
	Region string
	Cost   int
}

// Processor отвечает за чтение и валидацию CSV с перекрытиями тарифов.
// Выгрузки приходят в Windows-1251 с разделителем ';'.
type Processor struct {
	comma rune
}

func NewProcessor() *Processor {
	return &Processor{comma: ';'}
}

// ProcessCSV читает CSV данные из reader, декодируя из Windows-1251, и
// возвращает срез перекрытий. Первая строка может быть заголовком
// (city_name;region;cost), тогда она пропускается.
func (p *Processor) ProcessCSV(reader io.Reader) ([]Override, error) {
	decoder := transform.NewReader(reader, charmap.Windows1251.NewDecoder())
	csvReader := csv.NewReader(decoder)
	csvReader.Comma = p.comma
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv read error: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("csv data is empty")
	}

	data := allRows
	if isHeader(allRows[0]) {
		data = allRows[1:]
	}

	overrides := make([]Override, 0, len(data))
	for i, row := range data {
		override, err := convertRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d conversion error: %w", i+1, err)
		}
		overrides = append(overrides, override)
	}
	return overrides, nil
}

func isHeader(row []string) bool {
	for _, col := range columns {
		if indexOf(row, col) >= 0 {
			return true
		}
	}
	return false
}

func indexOf(slice []string, str string) int {
	for i, s := range slice {
		if strings.TrimSpace(s) == str {
			return i
		}
	}
	return -1
}

func convertRow(row []string) (Override, error) {
	if len(row) != len(columns) {
		return Override{}, fmt.Errorf(
			"количество значений (%d) не совпадает с количеством колонок (%d)",
			len(row),
			len(columns),
		)
	}

	city := strings.TrimSpace(row[0])
	region := strings.TrimSpace(row[1])
	if (city == "") == (region == "") {
		return Override{}, fmt.Errorf("должно быть заполнено ровно одно из полей city_name и region")
	}

	cost, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return Override{}, fmt.Errorf("ошибка конвертации для колонки %q, значение %q: %w", "cost", row[2], err)
	}
	if cost < 0 {
		return Override{}, fmt.Errorf("тариф не может быть отрицательным: %d", cost)
	}

	return Override{City: city, Region: region, Cost: cost}, nil
}
