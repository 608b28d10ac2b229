package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = zap.NewNop().Sugar()

// Init builds the process logger. Call once from main before anything logs.
func Init(env, level string) {
	var cfg zap.Config
	switch strings.ToLower(env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		zl = zap.NewNop()
	}
	sugar = zl.Sugar()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Sync() {
	_ = sugar.Sync()
}

func Debug(msg string, args ...interface{}) {
	sugar.Debugw(msg, normalize(args)...)
}

func Info(msg string, args ...interface{}) {
	sugar.Infow(msg, normalize(args)...)
}

func Warn(msg string, args ...interface{}) {
	sugar.Warnw(msg, normalize(args)...)
}

func Error(msg string, args ...interface{}) {
	sugar.Errorw(msg, normalize(args)...)
}

func Fatal(msg string, args ...interface{}) {
	sugar.Fatalw(msg, normalize(args)...)
}

// normalize tolerates the bare-error form Error("msg", err) and odd
// key/value lists, which zap's sugar would otherwise reject.
func normalize(args []interface{}) []interface{} {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []interface{}{"error", err}
		}
	}
	if len(args)%2 != 0 {
		return append(args, "(missing)")
	}
	return args
}
