package logger

import (
	"fmt"
	"sort"
	"time"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timestampLayout = "2006-01-02 15:04:05.000"

type Config struct {
	// Local включает цветной консольный вывод вместо JSON
	Local    bool
	Level    string
	Location *time.Location
}

// ZapLogger реализует out.LoggerPort поверх zap.
// Событие пишется сообщением, модуль и поля — структурированными полями.
type ZapLogger struct {
	base          *zap.Logger
	module        string
	defaultFields out.LogFields
}

func NewZapLogger(cfg Config) (*ZapLogger, error) {
	var zapCfg zap.Config
	if cfg.Local {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logger.level_invalid %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = timeEncoder(cfg.Location)

	base, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logger.build_failed: %w", err)
	}

	return NewZapLoggerFromCore(base.Core()), nil
}

// NewZapLoggerFromCore оборачивает готовое ядро zap, например наблюдателя в тестах
func NewZapLoggerFromCore(core zapcore.Core) *ZapLogger {
	return &ZapLogger{
		base:          zap.New(core),
		defaultFields: make(out.LogFields),
	}
}

func NewNopLogger() *ZapLogger {
	return &ZapLogger{
		base:          zap.NewNop(),
		defaultFields: make(out.LogFields),
	}
}

func timeEncoder(location *time.Location) zapcore.TimeEncoder {
	if location == nil {
		location = time.UTC
	}
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(location).Format(timestampLayout))
	}
}

func (l *ZapLogger) WithFields(fields out.LogFields) out.LoggerPort {
	newLogger := &ZapLogger{
		base:          l.base,
		module:        l.module,
		defaultFields: make(out.LogFields, len(l.defaultFields)+len(fields)),
	}

	for k, v := range l.defaultFields {
		newLogger.defaultFields[k] = v
	}
	for k, v := range fields {
		newLogger.defaultFields[k] = v
	}

	return newLogger
}

func (l *ZapLogger) WithModule(module string) out.LoggerPort {
	return &ZapLogger{
		base:          l.base,
		module:        module,
		defaultFields: l.defaultFields,
	}
}

func (l *ZapLogger) Debug(event string, fields out.LogFields) {
	l.log(zapcore.DebugLevel, event, fields)
}

func (l *ZapLogger) Info(event string, fields out.LogFields) {
	l.log(zapcore.InfoLevel, event, fields)
}

func (l *ZapLogger) Warn(event string, fields out.LogFields) {
	l.log(zapcore.WarnLevel, event, fields)
}

func (l *ZapLogger) Error(event string, fields out.LogFields) {
	l.log(zapcore.ErrorLevel, event, fields)
}

// Sync сбрасывает буферы ядра, вызывается при остановке
func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}

func (l *ZapLogger) log(level zapcore.Level, event string, fields out.LogFields) {
	entry := l.base.Check(level, event)
	if entry == nil {
		return
	}

	module := l.module
	if module == "" {
		module = "unknown"
	}

	merged := make(out.LogFields, len(l.defaultFields)+len(fields))
	for k, v := range l.defaultFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	// Стабильный порядок полей в выводе
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	zapFields := make([]zap.Field, 0, len(keys)+1)
	zapFields = append(zapFields, zap.String("module", module))
	for _, k := range keys {
		zapFields = append(zapFields, zap.Any(k, merged[k]))
	}

	entry.Write(zapFields...)
}
