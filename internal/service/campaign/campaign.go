// Package campaign manages time-windowed discount campaigns.
package campaign

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"canteen-backend/internal/domain"
)

type campaignRepo interface {
	Create(ctx context.Context, c domain.Campaign) (*domain.Campaign, error)
	Update(ctx context.Context, c domain.Campaign) (*domain.Campaign, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context) ([]domain.Campaign, error)
	Deactivate(ctx context.Context, ids []string) error
}

type Service struct {
	repo   campaignRepo
	loc    *time.Location
	logger *log.Logger
	now    func() time.Time
}

func New(repo campaignRepo, loc *time.Location, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, loc: loc, logger: logger, now: time.Now}
}

type Input struct {
	Name              string    `json:"name"`
	DiscountPercent   int       `json:"discountPercent"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	StartTime         string    `json:"startTime"`
	EndTime           string    `json:"endTime"`
	ApplicableItemIDs []string  `json:"applicableItems"`
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Campaign, error) {
	c, err := s.build(in)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("campaign created id=%s percent=%d", created.ID, created.DiscountPercent)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Campaign, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := s.build(in)
	if err != nil {
		return nil, err
	}
	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt
	c.IsActive = true
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all campaigns, flipping any whose window has already closed
// to inactive first so the listing reflects reality.
func (s *Service) List(ctx context.Context) ([]domain.Campaign, error) {
	campaigns, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)

	var expired []string
	for i := range campaigns {
		c := &campaigns[i]
		if !c.IsActive {
			continue
		}
		_, end, err := c.WindowBounds(s.loc)
		if err != nil {
			s.logger.Printf("campaign: bad window on %s: %v", c.ID, err)
			continue
		}
		if now.After(end) {
			c.IsActive = false
			expired = append(expired, c.ID)
		}
	}
	if len(expired) > 0 {
		if err := s.repo.Deactivate(ctx, expired); err != nil {
			s.logger.Printf("campaign: deactivate expired: %v", err)
		}
	}
	return campaigns, nil
}

func (s *Service) build(in Input) (domain.Campaign, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Campaign{}, domain.Invalidf("name is required")
	}
	if in.DiscountPercent < 1 || in.DiscountPercent > 100 {
		return domain.Campaign{}, domain.Invalidf("discountPercent must be between 1 and 100")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return domain.Campaign{}, domain.Invalidf("startDate and endDate are required")
	}
	if len(in.ApplicableItemIDs) == 0 {
		return domain.Campaign{}, domain.Invalidf("at least one applicable item is required")
	}
	c := domain.Campaign{
		Name:              in.Name,
		DiscountPercent:   in.DiscountPercent,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		ApplicableItemIDs: in.ApplicableItemIDs,
		IsActive:          true,
	}
	if c.StartTime == "" {
		c.StartTime = "00:00"
	}
	if c.EndTime == "" {
		c.EndTime = "23:59"
	}
	start, end, err := c.WindowBounds(s.loc)
	if err != nil {
		return domain.Campaign{}, domain.Invalidf("times must be HH:MM: %v", err)
	}
	if end.Before(start) {
		return domain.Campaign{}, domain.Invalidf("campaign window ends before it starts")
	}
	return c, nil
}
