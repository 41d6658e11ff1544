// Package planner owns the rules of every lifeplan operation. The TUI and the CLI both call
// it; it is the only caller of storage.Provider writes.
package planner

import (
	"time"

	"github.com/julianstephens/lifeplan/internal/feedback"
	"github.com/julianstephens/lifeplan/internal/storage"
	"github.com/julianstephens/lifeplan/internal/utils"
)

type Service struct {
	store    storage.Provider
	feedback feedback.Generator
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithGenerator replaces the keyword feedback generator
func WithGenerator(g feedback.Generator) Option {
	return func(s *Service) {
		s.feedback = g
	}
}

func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:    store,
		feedback: feedback.NewKeywordGenerator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying provider
func (s *Service) Store() storage.Provider {
	return s.store
}

// Now returns the service clock's current time
func (s *Service) Now() time.Time {
	return s.now()
}

// Today returns the current date as YYYY-MM-DD
func (s *Service) Today() string {
	return utils.FormatDate(s.now())
}
