package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New собирает логгер с двумя приёмниками: файл и консоль.
// Если файл открыть не удалось, остаёмся только с консолью.
func New(fileName string) *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stdout),
		zapcore.InfoLevel,
	)

	cores := []zapcore.Core{consoleCore}

	if fileName != "" {
		file, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(encCfg),
				zapcore.AddSync(file),
				zapcore.InfoLevel,
			)
			cores = append(cores, fileCore)
		}
	}

	return zap.New(zapcore.NewTee(cores...)).Sugar()
}

// NewNop -- заглушка для тестов.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
