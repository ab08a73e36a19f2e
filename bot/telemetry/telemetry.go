// Package telemetry reports pipeline progress and failures to an external
// sink. Reporting never fails the caller.
package telemetry

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

type Sink interface {
	// Begin starts a new invocation and drops breadcrumbs from the previous one.
	Begin(invocationId string)
	Breadcrumb(message, category string)
	Capture(err error)
	Flush(timeout time.Duration)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Begin(string)              {}
func (Nop) Breadcrumb(string, string) {}
func (Nop) Capture(error)             {}
func (Nop) Flush(time.Duration)       {}

type sentrySink struct {
	hub *sentry.Hub
}

// NewSentry builds a sink on its own hub so it does not share scope with
// the process-wide default hub.
func NewSentry(options sentry.ClientOptions) (Sink, error) {
	client, err := sentry.NewClient(options)
	if err != nil {
		return nil, err
	}

	return &sentrySink{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func (s *sentrySink) Begin(invocationId string) {
	s.hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.ClearBreadcrumbs()
		scope.SetTag("invocation_id", invocationId)
	})
}

func (s *sentrySink) Breadcrumb(message, category string) {
	s.hub.AddBreadcrumb(&sentry.Breadcrumb{
		Message:   message,
		Category:  category,
		Level:     sentry.LevelInfo,
		Timestamp: time.Now(),
	}, nil)
}

func (s *sentrySink) Capture(err error) {
	if err == nil {
		return
	}
	s.hub.CaptureException(err)
}

func (s *sentrySink) Flush(timeout time.Duration) {
	s.hub.Flush(timeout)
}

type logSink struct {
	log *zap.Logger
}

// NewLog mirrors breadcrumbs and captured errors into the application log.
func NewLog(log *zap.Logger) Sink {
	return &logSink{log: log}
}

func (s *logSink) Begin(invocationId string) {
	s.log.Debug("telemetry scope started", zap.String("invocation_id", invocationId))
}

func (s *logSink) Breadcrumb(message, category string) {
	s.log.Info(message, zap.String("category", category))
}

func (s *logSink) Capture(err error) {
	if err == nil {
		return
	}
	s.log.Error("captured error", zap.Error(err))
}

func (s *logSink) Flush(time.Duration) {
	_ = s.log.Sync()
}

type multi []Sink

// Multi fans every call out to each sink in order.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (m multi) Begin(invocationId string) {
	for _, s := range m {
		s.Begin(invocationId)
	}
}

func (m multi) Breadcrumb(message, category string) {
	for _, s := range m {
		s.Breadcrumb(message, category)
	}
}

func (m multi) Capture(err error) {
	for _, s := range m {
		s.Capture(err)
	}
}

func (m multi) Flush(timeout time.Duration) {
	for _, s := range m {
		s.Flush(timeout)
	}
}
