package audit

import (
	"sync"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
)

// Log retains every envelope seen on the topic since the auditor connected,
// in arrival order. The audit service owns no datastore; index queries are
// answered from this in-process record.
type Log struct {
	mu        sync.RWMutex
	envelopes []domain.Envelope
}

func NewLog() *Log { return &Log{} }

// Record appends one envelope. It satisfies the broker subscription
// contract; it never fails, so every message is acknowledged on receipt.
func (l *Log) Record(env domain.Envelope) error {
	l.mu.Lock()
	l.envelopes = append(l.envelopes, env)
	l.mu.Unlock()
	return nil
}

// ByKindIndex returns the nth envelope of the given kind in arrival order.
func (l *Log) ByKindIndex(kind domain.Kind, index int) (domain.Envelope, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 {
		return domain.Envelope{}, false
	}
	seen := 0
	for _, env := range l.envelopes {
		if env.Type != kind {
			continue
		}
		if seen == index {
			return env, true
		}
		seen++
	}
	return domain.Envelope{}, false
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.envelopes)
}
