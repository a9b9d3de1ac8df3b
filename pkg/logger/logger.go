package logger

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Init logger ni ishga tushiradi: konsol (stderr) + LOG_DIR ichidagi aylanuvchi fayl.
// dir bo'sh bo'lsa faqat konsolga yoziladi.
func Init(dir string) (*zap.Logger, error) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), zapcore.InfoLevel),
	}

	if dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
		logFile := &lumberjack.Logger{
			Filename:   filepath.Join(dir, "poflow.log"),
			MaxSize:    10, // MB
			MaxBackups: 7,
			MaxAge:     28, // kun
			Compress:   true,
		}
		jsonConfig := zap.NewProductionEncoderConfig()
		jsonConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonConfig), zapcore.AddSync(logFile), zapcore.InfoLevel))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	mu.Lock()
	global = l
	mu.Unlock()
	return l, nil
}

// Sync buferlangan yozuvlarni flush qiladi.
func Sync() {
	mu.RLock()
	l := global
	mu.RUnlock()
	_ = l.Sync()
}
