package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/leandrodaf/midicodec/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements contracts.Logger on top of a zap.Logger.
type ZapLogger struct {
	mu      sync.Mutex
	logger  *zap.Logger
	encoder zapcore.Encoder
	level   zap.AtomicLevel
	closeFn func()
}

// NewZapLogger returns a JSON logger writing to stderr at InfoLevel.
func NewZapLogger() contracts.Logger {
	return newLogger(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()))
}

// NewDevelopmentLogger returns a human readable console logger writing to stderr.
func NewDevelopmentLogger() contracts.Logger {
	return newLogger(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()))
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() contracts.Logger {
	return &ZapLogger{logger: zap.NewNop(), level: zap.NewAtomicLevelAt(zapcore.InfoLevel)}
}

// New wraps an existing core. Level filtering is applied before entries reach it.
func New(core zapcore.Core) *ZapLogger {
	return &ZapLogger{
		logger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)),
		level:  zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}
}

func newLogger(enc zapcore.Encoder) *ZapLogger {
	z := &ZapLogger{encoder: enc, level: zap.NewAtomicLevelAt(zapcore.InfoLevel)}
	z.logger = z.build(zapcore.Lock(os.Stderr))
	return z
}

func (z *ZapLogger) build(out zapcore.WriteSyncer) *zap.Logger {
	core := zapcore.NewCore(z.encoder, out, z.level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))
}

// Info logs a message at the INFO level
func (z *ZapLogger) Info(msg string, fields ...contracts.Field) {
	z.log(zapcore.InfoLevel, msg, fields...)
}

// Error logs a message at the ERROR level
func (z *ZapLogger) Error(msg string, fields ...contracts.Field) {
	z.log(zapcore.ErrorLevel, msg, fields...)
}

// Debug logs a message at the DEBUG level
func (z *ZapLogger) Debug(msg string, fields ...contracts.Field) {
	z.log(zapcore.DebugLevel, msg, fields...)
}

// Warn logs a message at the WARN level
func (z *ZapLogger) Warn(msg string, fields ...contracts.Field) {
	z.log(zapcore.WarnLevel, msg, fields...)
}

// Fatal logs a message at the FATAL level and terminates the application
func (z *ZapLogger) Fatal(msg string, fields ...contracts.Field) {
	z.log(zapcore.FatalLevel, msg, fields...)
	os.Exit(1)
}

// Field returns a builder for log fields.
func (z *ZapLogger) Field() contracts.Field {
	return zapField{}
}

// SetLevel sets the minimum level that is written.
func (z *ZapLogger) SetLevel(level contracts.LogLevel) {
	z.level.SetLevel(toZapLevel(level))
}

// SetDestination redirects output to the console or to filePath[0]. Loggers
// built with New keep writing to their own core.
func (z *ZapLogger) SetDestination(dest contracts.LogDestination, filePath ...string) {
	if z.encoder == nil {
		return
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	switch dest {
	case contracts.FileLog:
		if len(filePath) == 0 || filePath[0] == "" {
			z.logger.Warn("file destination requested without a path")
			return
		}
		out, closeFn, err := zap.Open(filePath[0])
		if err != nil {
			z.logger.Error("failed to open log file", zap.String("path", filePath[0]), zap.Error(err))
			return
		}
		z.swap(z.build(out), closeFn)
	default:
		z.swap(z.build(zapcore.Lock(os.Stderr)), nil)
	}
}

func (z *ZapLogger) swap(next *zap.Logger, closeFn func()) {
	_ = z.logger.Sync()
	if z.closeFn != nil {
		z.closeFn()
	}
	z.logger = next
	z.closeFn = closeFn
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.logger.Sync()
}

func (z *ZapLogger) log(level zapcore.Level, msg string, fields ...contracts.Field) {
	if !z.level.Enabled(level) {
		return
	}

	z.mu.Lock()
	l := z.logger
	z.mu.Unlock()

	if ce := l.Check(level, msg); ce != nil {
		ce.Write(toZapFields(fields)...)
	}
}

// toZapLevel maps contracts.LogLevel, whose ordering is not by severity, onto zap levels.
func toZapLevel(level contracts.LogLevel) zapcore.Level {
	switch level {
	case contracts.DebugLevel:
		return zapcore.DebugLevel
	case contracts.WarnLevel:
		return zapcore.WarnLevel
	case contracts.ErrorLevel:
		return zapcore.ErrorLevel
	case contracts.FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields []contracts.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if f, ok := field.(zapField); ok && f.set {
			out = append(out, f.field)
			continue
		}
		out = append(out, zap.String("field", fmt.Sprint(field)))
	}
	return out
}

// zapField implements contracts.Field
type zapField struct {
	field zap.Field
	set   bool
}

func wrap(f zap.Field) contracts.Field { return zapField{field: f, set: true} }

func (zapField) Bool(key string, val bool) contracts.Field       { return wrap(zap.Bool(key, val)) }
func (zapField) Int(key string, val int) contracts.Field         { return wrap(zap.Int(key, val)) }
func (zapField) Float64(key string, val float64) contracts.Field { return wrap(zap.Float64(key, val)) }
func (zapField) String(key string, val string) contracts.Field   { return wrap(zap.String(key, val)) }
func (zapField) Time(key string, val time.Time) contracts.Field  { return wrap(zap.Time(key, val)) }
func (zapField) Int64(key string, val int64) contracts.Field     { return wrap(zap.Int64(key, val)) }
func (zapField) Error(key string, val error) contracts.Field     { return wrap(zap.NamedError(key, val)) }
func (zapField) Uint64(key string, val uint64) contracts.Field   { return wrap(zap.Uint64(key, val)) }
func (zapField) Uint8(key string, val uint8) contracts.Field     { return wrap(zap.Uint8(key, val)) }
