package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

// Init builds the global logger. The UI owns the terminal, so logs go
// to a file when one is configured; an empty path falls back to stderr.
func Init(development bool, file string) error {
	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	if file != "" {
		config.OutputPaths = []string{file}
		config.ErrorOutputPaths = []string{file}
	}

	var err error
	Logger, err = config.Build()
	if err != nil {
		return err
	}
	return nil
}

func Sync() {
	if Logger != nil {
		Logger.Sync()
	}
}

func Info(msg string, fields ...zap.Field) {
	if Logger == nil {
		return
	}
	Logger.Info(msg, fields...)
}

// RequestInfo logs outbound request metadata in one line.
func RequestInfo(method, url, requestID string, fields ...zap.Field) {
	if Logger == nil {
		return
	}
	allFields := []zap.Field{
		zap.String("method", method),
		zap.String("url", url),
		zap.String("request_id", requestID),
	}
	allFields = append(allFields, fields...)
	Logger.Info("HTTP_OUT:", allFields...)
}

func Error(msg string, err error, fields ...zap.Field) {
	if Logger == nil {
		return
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	Logger.Error(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	if Logger == nil {
		return
	}
	Logger.Warn(msg, fields...)
}
