package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger. It starts as a no-op so packages can
// log before Initialize runs.
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Verbosity levels selected by -v and -d.
const (
	VerbosityQuiet   = 0
	VerbosityVerbose = 1
	VerbosityDebug   = 2
)

// Standard field names for structured logging.
const (
	FieldFile       = "file"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldOperation  = "operation"
	FieldComponent  = "component"
)

// VerbosityToLevel maps a verbosity level to a zap level.
//
//	0     -> WarnLevel
//	1 -v  -> InfoLevel
//	2+ -d -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityQuiet:
		return zapcore.WarnLevel
	case verbosity == VerbosityVerbose:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// Initialize replaces Logger with a console logger writing to w, or to
// standard error when w is nil. Standard output carries the produced table.
func Initialize(verbosity int, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	encoderCfg.CallerKey = ""
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		VerbosityToLevel(verbosity),
	)
	Logger = zap.New(core).Sugar().Named("cpptolua")
}

// Cleanup flushes buffered log entries.
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
