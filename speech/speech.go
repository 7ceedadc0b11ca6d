// Package speech estimates and collects spoken announcements.
package speech

import (
	"sync"
	"time"
	"unicode/utf8"
)

// Estimator guesses utterance durations from a fixed speaking rate.
type Estimator struct {
	// CPS is the speaking rate in characters per second; zero or less means
	// unknown.
	CPS float64
}

// EstimateDuration returns how long text takes to say at the configured rate.
func (e Estimator) EstimateDuration(text string) (time.Duration, bool) {
	if e.CPS <= 0 {
		return 0, false
	}
	n := utf8.RuneCountInString(text)
	return time.Duration(float64(n) / e.CPS * float64(time.Second)), true
}

// Log keeps the announcements produced for a session, newest last.
type Log struct {
	mu    sync.Mutex
	texts []string
	limit int
}

// NewLog returns a log holding at most limit entries; limit <= 0 is unbounded.
func NewLog(limit int) *Log {
	return &Log{limit: limit}
}

// Say records text. Empty announcements are dropped.
func (l *Log) Say(text string) {
	if text == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.texts = append(l.texts, text)
	if l.limit > 0 && len(l.texts) > l.limit {
		l.texts = l.texts[len(l.texts)-l.limit:]
	}
}

// Drain returns the recorded announcements and clears the log.
func (l *Log) Drain() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.texts
	l.texts = nil
	return out
}
