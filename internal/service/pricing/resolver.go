package pricing

import (
	"context"
	"io"
	"log"
	"math"
	"time"

	"canteen-backend/internal/domain"
)

type campaignRepo interface {
	ListActive(ctx context.Context) ([]domain.Campaign, error)
	Deactivate(ctx context.Context, ids []string) error
}

// Resolver computes the effective unit price of a menu item from the
// campaigns active at a given instant. Window comparison is wall-clock in
// the configured location, matching the lazy-expiry write path.
type Resolver struct {
	repo   campaignRepo
	loc    *time.Location
	logger *log.Logger
}

func New(repo campaignRepo, loc *time.Location, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{repo: repo, loc: loc, logger: logger}
}

// Quote is the price decision for one item at one instant.
type Quote struct {
	UnitPrice       int64
	OriginalPrice   int64
	DiscountPercent int
	CampaignID      string
	Discounted      bool
}

// EffectivePrice resolves the item's price at now.
func (r *Resolver) EffectivePrice(ctx context.Context, item domain.MenuItem, now time.Time) (Quote, error) {
	campaigns, err := r.ActiveAt(ctx, now)
	if err != nil {
		return Quote{}, err
	}
	return Resolve(item, campaigns), nil
}

// ActiveAt returns the campaigns whose window contains now. As a side
// effect, campaigns whose window has closed are flipped inactive; the flip
// is best-effort and the time filter never depends on it.
func (r *Resolver) ActiveAt(ctx context.Context, now time.Time) ([]domain.Campaign, error) {
	campaigns, err := r.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	now = now.In(r.loc)

	var live []domain.Campaign
	var expired []string
	for _, c := range campaigns {
		start, end, err := c.WindowBounds(r.loc)
		if err != nil {
			r.logger.Printf("pricing: skipping campaign %s: %v", c.ID, err)
			continue
		}
		switch {
		case now.After(end):
			expired = append(expired, c.ID)
		case !now.Before(start):
			live = append(live, c)
		}
	}

	if len(expired) > 0 {
		if err := r.repo.Deactivate(ctx, expired); err != nil {
			r.logger.Printf("pricing: deactivate expired campaigns: %v", err)
		}
	}
	return live, nil
}

// Resolve picks the best applicable campaign for the item. Tie-break:
// highest discount wins, then the earliest-created campaign. Discounted
// prices round to the nearest whole currency unit.
func Resolve(item domain.MenuItem, campaigns []domain.Campaign) Quote {
	var best *domain.Campaign
	for i := range campaigns {
		c := &campaigns[i]
		if !c.AppliesTo(item.ID) {
			continue
		}
		if best == nil ||
			c.DiscountPercent > best.DiscountPercent ||
			(c.DiscountPercent == best.DiscountPercent && c.CreatedAt.Before(best.CreatedAt)) {
			best = c
		}
	}
	if best == nil {
		return Quote{UnitPrice: item.Price, OriginalPrice: item.Price}
	}
	discounted := int64(math.Round(float64(item.Price) * float64(100-best.DiscountPercent) / 100.0))
	return Quote{
		UnitPrice:       discounted,
		OriginalPrice:   item.Price,
		DiscountPercent: best.DiscountPercent,
		CampaignID:      best.ID,
		Discounted:      true,
	}
}
