// Package logger is a thin asynchronous front over logrus. Records are
// queued on a channel and formatted off the caller's goroutine, so probe
// paths pay only a channel send when the level is enabled.
package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type record struct {
	level logrus.Level
	tag   string
	msg   string
}

const queueSize = 1000

// tagWidth keeps the tag column aligned; longer tags are clipped.
const tagWidth = 16

var queue = make(chan record, queueSize)

// tagOf renders the log subject: codec types, parameter records and other
// Stringers print themselves, plain strings pass through, nil is explicit.
func tagOf(subject any) string {
	switch v := subject.(type) {
	case nil:
		return "-"
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Init sets the global level and starts the drain goroutine. Call it once
// from main; library code only enqueues.
func Init(lvl logrus.Level) {
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		PadLevelText:    true,
		TimestampFormat: "2006/01/02 15:04:05",
	})

	go func() {
		for rec := range queue {
			if len(rec.tag) > tagWidth {
				rec.tag = rec.tag[:tagWidth]
			}
			logrus.StandardLogger().Logf(rec.level, "|%*s| %s", tagWidth, rec.tag, rec.msg)
		}
	}()
}

func enqueue(lvl logrus.Level, subject any, msg string) {
	if logrus.GetLevel() < lvl {
		return
	}
	queue <- record{level: lvl, tag: tagOf(subject), msg: msg}
}

func Trace(subject any, message string) {
	enqueue(logrus.TraceLevel, subject, message)
}

func Tracef(subject any, format string, args ...any) {
	if logrus.GetLevel() < logrus.TraceLevel {
		return
	}
	enqueue(logrus.TraceLevel, subject, fmt.Sprintf(format, args...))
}

func Debug(subject any, message string) {
	enqueue(logrus.DebugLevel, subject, message)
}

func Debugf(subject any, format string, args ...any) {
	if logrus.GetLevel() < logrus.DebugLevel {
		return
	}
	enqueue(logrus.DebugLevel, subject, fmt.Sprintf(format, args...))
}

func Info(subject any, message string) {
	enqueue(logrus.InfoLevel, subject, message)
}

func Infof(subject any, format string, args ...any) {
	if logrus.GetLevel() < logrus.InfoLevel {
		return
	}
	enqueue(logrus.InfoLevel, subject, fmt.Sprintf(format, args...))
}

func Warning(subject any, message string) {
	enqueue(logrus.WarnLevel, subject, message)
}

func Warningf(subject any, format string, args ...any) {
	if logrus.GetLevel() < logrus.WarnLevel {
		return
	}
	enqueue(logrus.WarnLevel, subject, fmt.Sprintf(format, args...))
}

func Error(subject any, message string) {
	enqueue(logrus.ErrorLevel, subject, message)
}

func Errorf(subject any, format string, args ...any) {
	if logrus.GetLevel() < logrus.ErrorLevel {
		return
	}
	enqueue(logrus.ErrorLevel, subject, fmt.Sprintf(format, args...))
}

// Fatal bypasses the queue so the message cannot be lost on exit.
func Fatal(subject any, message string) {
	tag := tagOf(subject)
	if len(tag) > tagWidth {
		tag = tag[:tagWidth]
	}
	logrus.Fatalf("|%*s| %s", tagWidth, tag, message)
}

func Fatalf(subject any, format string, args ...any) {
	Fatal(subject, fmt.Sprintf(format, args...))
}
