// Package canteen tracks whether the canteen is accepting orders and which
// meal windows are currently being served.
package canteen

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"canteen-backend/internal/domain"
	hoursrepo "canteen-backend/internal/repository/hours"
)

// DefaultHours is used until an admin configures their own.
var DefaultHours = domain.ServiceHours{
	Breakfast: domain.MealWindow{Start: "08:00", End: "11:00"},
	Lunch:     domain.MealWindow{Start: "12:00", End: "15:00"},
}

// Service holds the global open/closed flag in memory and the meal windows
// behind a repository. The flag resets to open on restart.
type Service struct {
	hours  hoursrepo.Repository
	loc    *time.Location
	logger *log.Logger

	mu   sync.RWMutex
	open bool

	now func() time.Time
}

func New(hours hoursrepo.Repository, loc *time.Location, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{hours: hours, loc: loc, logger: logger, open: true, now: time.Now}
}

// IsOpen reports whether the canteen currently accepts orders.
func (s *Service) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// SetOpen flips the global flag and returns the new state.
func (s *Service) SetOpen(open bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
	s.logger.Printf("canteen open=%t", open)
	return s.open
}

// Hours returns the configured meal windows, falling back to defaults when
// nothing has been stored yet.
func (s *Service) Hours(ctx context.Context) (*domain.ServiceHours, error) {
	h, err := s.hours.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cp := DefaultHours
			return &cp, nil
		}
		return nil, err
	}
	return h, nil
}

// UpdateHours validates and stores new meal windows.
func (s *Service) UpdateHours(ctx context.Context, h domain.ServiceHours) (*domain.ServiceHours, error) {
	for _, w := range []domain.MealWindow{h.Breakfast, h.Lunch} {
		for _, v := range []string{w.Start, w.End} {
			if v == "" {
				continue
			}
			if _, err := time.Parse("15:04", v); err != nil {
				return nil, domain.Invalidf("meal window bounds must be HH:MM, got %q", v)
			}
		}
	}
	return s.hours.Upsert(ctx, h)
}

// ServingBreakfast reports whether the breakfast window contains now.
func (s *Service) ServingBreakfast(ctx context.Context) (bool, error) {
	h, err := s.Hours(ctx)
	if err != nil {
		return false, err
	}
	return WithinWindow(h.Breakfast, s.now().In(s.loc)), nil
}

// ServingLunch reports whether the lunch window contains now.
func (s *Service) ServingLunch(ctx context.Context) (bool, error) {
	h, err := s.Hours(ctx)
	if err != nil {
		return false, err
	}
	return WithinWindow(h.Lunch, s.now().In(s.loc)), nil
}

// WithinWindow reports whether now's wall clock falls inside the window.
// Windows with start after end wrap past midnight.
func WithinWindow(w domain.MealWindow, now time.Time) bool {
	if w.Start == "" || w.End == "" {
		return true
	}
	start, err := time.Parse("15:04", w.Start)
	if err != nil {
		return true
	}
	end, err := time.Parse("15:04", w.End)
	if err != nil {
		return true
	}
	minutes := now.Hour()*60 + now.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	if startMin <= endMin {
		return minutes >= startMin && minutes <= endMin
	}
	return minutes >= startMin || minutes <= endMin
}
