package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options define cómo se construye el logger de la aplicación.
type Options struct {
	// Mode "production" usa JSON y nivel Info; cualquier otro valor, consola y nivel Debug.
	Mode string
	// File, si no está vacío, agrega una salida JSON rotada con lumberjack.
	File string
}

// New construye el logger raíz.
func New(options Options) (*zap.Logger, error) {
	zapConfig := zap.NewDevelopmentConfig()
	if options.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	if options.File == "" {
		return zapConfig.Build(zap.AddCaller())
	}

	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	if options.Mode == "production" {
		consoleEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(newFileWriter(options.File)),
			zapConfig.Level,
		),
		zapcore.NewCore(
			consoleEncoder,
			zapcore.AddSync(os.Stdout),
			zapConfig.Level,
		),
	)
	return zap.New(core, zap.AddCaller()), nil
}

func newFileWriter(filename string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    64, // MB
		MaxBackups: 7,
		MaxAge:     7, // días
	}
}
