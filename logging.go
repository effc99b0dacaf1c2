package reactor

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joeycumines/logiface"
)

// logEvent is a minimal concrete logiface.Event, grounded on the stumpy
// backend's Event implementation: a flat key=value line writer rather than
// stumpy's JSON encoder, since this package has no JSON dependency to spend.
type logEvent struct {
	logiface.UnimplementedEvent
	lvl    logiface.Level
	msg    string
	fields []string
}

func (e *logEvent) Level() logiface.Level { return e.lvl }

func (e *logEvent) AddField(key string, val any) {
	e.fields = append(e.fields, fmt.Sprintf("%s=%v", key, val))
}

func (e *logEvent) AddMessage(msg string) bool {
	e.msg = msg
	return true
}

func (e *logEvent) AddError(err error) bool {
	e.fields = append(e.fields, fmt.Sprintf("error=%v", err))
	return true
}

var eventPool = sync.Pool{New: func() any { return new(logEvent) }}

type lineWriter struct{ out *os.File }

func (w lineWriter) Write(event *logEvent) error {
	var b strings.Builder
	b.WriteString(event.lvl.String())
	b.WriteByte(' ')
	b.WriteString(event.msg)
	for _, f := range event.fields {
		b.WriteByte(' ')
		b.WriteString(f)
	}
	b.WriteByte('\n')
	_, err := w.out.WriteString(b.String())
	event.msg = ""
	event.fields = event.fields[:0]
	eventPool.Put(event)
	return err
}

// NewLogger builds a logiface.Logger writing level-prefixed lines to stderr,
// disabled below the given level. Used as the reactor's default logger
// unless overridden via WithLogger.
func NewLogger(level logiface.Level) *logiface.Logger[*logEvent] {
	return logiface.New[*logEvent](
		logiface.WithLevel[*logEvent](level),
		logiface.WithEventFactory[*logEvent](logiface.NewEventFactoryFunc(func(lvl logiface.Level) *logEvent {
			e := eventPool.Get().(*logEvent)
			e.lvl = lvl
			return e
		})),
		logiface.WithWriter[*logEvent](logiface.NewWriterFunc(lineWriter{out: os.Stderr}.Write)),
	)
}

// discardLogger is used when no logger is configured; logiface.Logger with a
// disabled level is itself nil-receiver safe, so a disabled instance of the
// real logger serves as the no-op default without a separate interface.
func discardLogger() *logiface.Logger[*logEvent] {
	return logiface.New[*logEvent](logiface.WithLevel[*logEvent](logiface.LevelDisabled))
}
