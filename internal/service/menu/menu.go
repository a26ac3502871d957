// Package menu manages the catalog and the public menu projection.
package menu

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"canteen-backend/internal/cache"
	"canteen-backend/internal/domain"
	menurepo "canteen-backend/internal/repository/menu"
	"canteen-backend/internal/service/canteen"
	"canteen-backend/internal/service/pricing"
)

const publicMenuCacheKey = "menu:public"

// CategoryBreakfast and CategoryLunch are gated by the configured meal
// windows on the public menu; other categories are always served.
const (
	CategoryBreakfast = "Breakfast"
	CategoryLunch     = "Lunch"
)

type priceResolver interface {
	ActiveAt(ctx context.Context, now time.Time) ([]domain.Campaign, error)
}

type hoursProvider interface {
	Hours(ctx context.Context) (*domain.ServiceHours, error)
}

type Service struct {
	repo   menurepo.Repository
	prices priceResolver
	hours  hoursProvider
	cache  cache.Cache
	loc    *time.Location
	logger *log.Logger
	now    func() time.Time
}

func New(repo menurepo.Repository, prices priceResolver, hours hoursProvider, c cache.Cache, loc *time.Location, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, prices: prices, hours: hours, cache: c, loc: loc, logger: logger, now: time.Now}
}

type Input struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
	ImageURL    string `json:"imageUrl"`
	Stock       int    `json:"stock"`
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.MenuItem, error) {
	item, err := build(in)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.MenuItem, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := build(in)
	if err != nil {
		return nil, err
	}
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the full catalog for staff screens, unfiltered and unpriced.
func (s *Service) List(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.List(ctx)
}

// PublicItem is a menu item as shown to customers, with campaign pricing
// already applied.
type PublicItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	OriginalPrice   int64  `json:"originalPrice"`
	DiscountPercent int    `json:"discountPercent,omitempty"`
	Category        string `json:"category"`
	SubCategory     string `json:"subCategory,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
	Stock           int    `json:"stock"`
	Available       bool   `json:"available"`
}

// PublicMenu is the customer-facing projection: in-stock items, meal
// categories marked unavailable outside their window, discounts applied.
// Served from cache when fresh.
func (s *Service) PublicMenu(ctx context.Context) ([]PublicItem, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, publicMenuCacheKey); err == nil {
			var cached []PublicItem
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			s.logger.Printf("menu: dropping corrupt cache entry")
			_ = s.cache.Delete(ctx, publicMenuCacheKey)
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Printf("menu: cache read: %v", err)
		}
	}

	items, err := s.repo.ListInStock(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	campaigns, err := s.prices.ActiveAt(ctx, now)
	if err != nil {
		return nil, err
	}
	h, err := s.hours.Hours(ctx)
	if err != nil {
		return nil, err
	}
	breakfastOpen := canteen.WithinWindow(h.Breakfast, now)
	lunchOpen := canteen.WithinWindow(h.Lunch, now)

	out := make([]PublicItem, 0, len(items))
	for _, item := range items {
		q := pricing.Resolve(item, campaigns)
		available := true
		switch item.Category {
		case CategoryBreakfast:
			available = breakfastOpen
		case CategoryLunch:
			available = lunchOpen
		}
		out = append(out, PublicItem{
			ID:              item.ID,
			Name:            item.Name,
			Price:           q.UnitPrice,
			OriginalPrice:   q.OriginalPrice,
			DiscountPercent: q.DiscountPercent,
			Category:        item.Category,
			SubCategory:     item.SubCategory,
			ImageURL:        item.ImageURL,
			Stock:           item.Stock,
			Available:       available,
		})
	}

	if s.cache != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, publicMenuCacheKey, data); err != nil {
				s.logger.Printf("menu: cache write: %v", err)
			}
		}
	}
	return out, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publicMenuCacheKey); err != nil {
		s.logger.Printf("menu: cache invalidate: %v", err)
	}
}

func build(in Input) (domain.MenuItem, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.MenuItem{}, domain.Invalidf("name is required")
	}
	if in.Price < 0 {
		return domain.MenuItem{}, domain.Invalidf("price must not be negative")
	}
	if strings.TrimSpace(in.Category) == "" {
		return domain.MenuItem{}, domain.Invalidf("category is required")
	}
	if in.Stock < 0 {
		return domain.MenuItem{}, domain.Invalidf("stock must not be negative")
	}
	return domain.MenuItem{
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
	}, nil
}
