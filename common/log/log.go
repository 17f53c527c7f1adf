package log

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

var logger atomic.Pointer[log.Logger]

func init() {
	logger.Store(newLogger(os.Stdout, "mahjong", log.InfoLevel))
}

func newLogger(w io.Writer, appName string, level log.Level) *log.Logger {
	// 输出到 stdout，IDE 控制台不会把所有日志都标红
	l := log.New(w)
	l.SetPrefix(appName)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.DateTime)
	l.SetReportCaller(true)
	l.SetCallerOffset(1)
	l.SetLevel(level)
	return l
}

// InitLog 未调用时使用 info 级别的默认 logger
func InitLog(appName string, logLevel string) {
	logger.Store(newLogger(os.Stdout, appName, parseLevel(logLevel)))
}

// SetOutput 测试中用来接管输出
func SetOutput(w io.Writer) {
	logger.Load().SetOutput(w)
}

// SetLevel 配置热更新时调整级别
func SetLevel(logLevel string) {
	logger.Load().SetLevel(parseLevel(logLevel))
}

func parseLevel(logLevel string) log.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func Fatal(format string, args ...any) {
	logger.Load().Fatalf(format, args...)
}

func Info(format string, args ...any) {
	logger.Load().Infof(format, args...)
}

func Warn(format string, args ...any) {
	logger.Load().Warnf(format, args...)
}

func Error(format string, args ...any) {
	logger.Load().Errorf(format, args...)
}

func Debug(format string, args ...any) {
	logger.Load().Debugf(format, args...)
}
