package config

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the application logger. With an empty logFile it logs
// to stderr; otherwise it writes JSON to a size-rotated file.
func NewLogger(logFile string) *zap.SugaredLogger {
	if logFile == "" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("failed to create logger: %v", err)
		}
		return logger.Sugar()
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}),
		zap.InfoLevel,
	)

	return zap.New(core).Sugar()
}
