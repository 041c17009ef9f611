package costimport

import (
	"io"

	"go.uber.org/zap"
)

// OverrideWriter пишет перекрытия тарифов в хранилище.
type OverrideWriter interface {
	UpsertCityCost(city string, cost int) error
	UpsertRegionCost(region string, cost int) error
}

// Loader связывает разбор CSV и запись в хранилище.
type Loader struct {
	processor *Processor
	writer    OverrideWriter
	log       *zap.SugaredLogger
}

func NewLoader(writer OverrideWriter, log *zap.SugaredLogger) *Loader {
	return &Loader{
		processor: NewProcessor(),
		writer:    writer,
		log:       log,
	}
}

// Load читает CSV из reader и сохраняет все перекрытия. Возвращает число
// загруженных строк. Файл с единственной битой строкой не грузится вовсе:
// частично применённые тарифы хуже, чем старые.
func (l *Loader) Load(reader io.Reader) (int, error) {
	overrides, err := l.processor.ProcessCSV(reader)
	if err != nil {
		return 0, err
	}

	for _, override := range overrides {
		if override.City != "" {
			err = l.writer.UpsertCityCost(override.City, override.Cost)
		} else {
			err = l.writer.UpsertRegionCost(override.Region, override.Cost)
		}
		if err != nil {
			return 0, err
		}
	}

	l.log.Infof("Loaded %d delivery cost overrides", len(overrides))
	return len(overrides), nil
}
