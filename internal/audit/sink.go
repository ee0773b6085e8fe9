package audit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Entry describes one privileged mutation.
type Entry struct {
	Actor       string
	Action      string
	TargetEmail string
	OldCredits  int
	NewCredits  int
	At          time.Time
}

// Sink receives audit entries. Recording is best-effort: callers treat a
// sink failure as non-fatal and proceed with the mutation (fail-open).
type Sink interface {
	Record(ctx context.Context, e Entry) error
}

// LogSink writes audit entries to the structured log.
type LogSink struct {
	log *logrus.Logger
}

func NewLogSink(log *logrus.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(_ context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	s.log.WithFields(logrus.Fields{
		"audit":        true,
		"actor":        e.Actor,
		"action":       e.Action,
		"target_email": e.TargetEmail,
		"old_credits":  e.OldCredits,
		"new_credits":  e.NewCredits,
		"at":           e.At.Format(time.RFC3339),
	}).Info("admin action")
	return nil
}
