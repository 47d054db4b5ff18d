package logs

import (
	"io"
	"sync"

	"github.com/chartmint/chartmint/internal/ui"
)

var (
	initOnce sync.Once
	logger   *ui.Logger
)

func Init() {
	initOnce.Do(func() {
		logger = ui.New(ui.Options{
			LogLevel: ui.LogLevelInfo,
		})
	})
}

func L() *ui.Logger {
	Init()
	return logger
}

func SetDebugVerbosity(cnt int) {
	switch {
	case cnt <= 0:
		L().SetLogLevel(ui.LogLevelInfo)
	case cnt == 1:
		L().SetLogLevel(ui.LogLevelDebug)
	default:
		L().SetLogLevel(ui.LogLevelDebugVerbose)
	}
}

func Mute() (restore func()) {
	return L().MuteOutput()
}

func Banner(title string) {
	L().Banner(title)
}

func Commandf(line string) {
	L().Command(line)
}

func Infof(format string, args ...any) {
	L().Info(format, args...)
}

func Debugf(format string, args ...any) {
	L().Debug(format, args...)
}

func Warnf(format string, args ...any) {
	L().Warn(format, args...)
}

func Errorf(format string, args ...any) {
	L().Error(format, args...)
}

// Writer returns the destination for streamed subprocess output.
func Writer() io.Writer {
	return L().Out()
}
