package pricing

import (
	"context"
	"testing"
	"time"

	"canteen-backend/internal/domain"
)

type stubCampaignRepo struct {
	active          []domain.Campaign
	deactivatedIDs  []string
	deactivateCalls int
}

func (s *stubCampaignRepo) ListActive(_ context.Context) ([]domain.Campaign, error) {
	return s.active, nil
}

func (s *stubCampaignRepo) Deactivate(_ context.Context, ids []string) error {
	s.deactivateCalls++
	s.deactivatedIDs = append(s.deactivatedIDs, ids...)
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func campaign(id string, percent int, startDay, endDay time.Time, itemIDs ...string) domain.Campaign {
	return domain.Campaign{
		ID:                id,
		Name:              id,
		DiscountPercent:   percent,
		StartDate:         startDay,
		EndDate:           endDay,
		StartTime:         "00:00",
		EndTime:           "23:59",
		ApplicableItemIDs: itemIDs,
		IsActive:          true,
	}
}

func TestEffectivePriceNoCampaign(t *testing.T) {
	repo := &stubCampaignRepo{}
	r := New(repo, time.UTC, nil)

	item := domain.MenuItem{ID: "item-1", Price: 100}
	q, err := r.EffectivePrice(context.Background(), item, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Discounted || q.UnitPrice != 100 || q.OriginalPrice != 100 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestEffectivePriceSingleCampaign(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := &stubCampaignRepo{active: []domain.Campaign{
		campaign("c1", 20, date(2025, 6, 1), date(2025, 6, 30), "item-1"),
	}}
	r := New(repo, time.UTC, nil)

	q, err := r.EffectivePrice(context.Background(), domain.MenuItem{ID: "item-1", Price: 100}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.Discounted || q.UnitPrice != 80 || q.OriginalPrice != 100 || q.DiscountPercent != 20 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestEffectivePriceRounding(t *testing.T) {
	// 15% off 99 is 84.15, rounds to 84; 15% off 90 is 76.5, rounds to 77.
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := &stubCampaignRepo{active: []domain.Campaign{
		campaign("c1", 15, date(2025, 6, 1), date(2025, 6, 30), "a", "b"),
	}}
	r := New(repo, time.UTC, nil)

	q, _ := r.EffectivePrice(context.Background(), domain.MenuItem{ID: "a", Price: 99}, now)
	if q.UnitPrice != 84 {
		t.Fatalf("expected 84, got %d", q.UnitPrice)
	}
	q, _ = r.EffectivePrice(context.Background(), domain.MenuItem{ID: "b", Price: 90}, now)
	if q.UnitPrice != 77 {
		t.Fatalf("expected 77, got %d", q.UnitPrice)
	}
}

func TestElapsedWindowExcludedAndFlipped(t *testing.T) {
	// Repo still reports the campaign active; the time check alone must
	// exclude it, and the lazy flip must be requested.
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubCampaignRepo{active: []domain.Campaign{
		campaign("old", 50, date(2025, 6, 1), date(2025, 6, 15), "item-1"),
	}}
	r := New(repo, time.UTC, nil)

	q, err := r.EffectivePrice(context.Background(), domain.MenuItem{ID: "item-1", Price: 100}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Discounted {
		t.Fatalf("elapsed campaign still applied: %+v", q)
	}
	if repo.deactivateCalls != 1 || len(repo.deactivatedIDs) != 1 || repo.deactivatedIDs[0] != "old" {
		t.Fatalf("expected lazy deactivation of 'old', got %v", repo.deactivatedIDs)
	}
}

func TestNotYetStartedExcluded(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubCampaignRepo{active: []domain.Campaign{
		campaign("future", 30, date(2025, 6, 1), date(2025, 6, 30), "item-1"),
	}}
	r := New(repo, time.UTC, nil)

	q, _ := r.EffectivePrice(context.Background(), domain.MenuItem{ID: "item-1", Price: 100}, now)
	if q.Discounted {
		t.Fatalf("future campaign applied: %+v", q)
	}
	if repo.deactivateCalls != 0 {
		t.Fatalf("future campaign must not be deactivated")
	}
}

func TestWindowClockBounds(t *testing.T) {
	day := date(2025, 6, 10)
	repo := &stubCampaignRepo{active: []domain.Campaign{{
		ID:                "lunch-deal",
		DiscountPercent:   10,
		StartDate:         day,
		EndDate:           day,
		StartTime:         "12:00",
		EndTime:           "14:00",
		ApplicableItemIDs: []string{"item-1"},
		IsActive:          true,
	}}}
	r := New(repo, time.UTC, nil)
	item := domain.MenuItem{ID: "item-1", Price: 100}

	before := time.Date(2025, 6, 10, 11, 59, 0, 0, time.UTC)
	if q, _ := r.EffectivePrice(context.Background(), item, before); q.Discounted {
		t.Fatalf("applied before window opens")
	}
	during := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	if q, _ := r.EffectivePrice(context.Background(), item, during); !q.Discounted || q.UnitPrice != 90 {
		t.Fatalf("not applied inside window: %+v", q)
	}
	after := time.Date(2025, 6, 10, 14, 1, 0, 0, time.UTC)
	if q, _ := r.EffectivePrice(context.Background(), item, after); q.Discounted {
		t.Fatalf("applied after window closes")
	}
}

func TestOverlapHighestDiscountWins(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	c1 := campaign("small", 10, date(2025, 6, 1), date(2025, 6, 30), "item-1")
	c1.CreatedAt = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	c2 := campaign("big", 25, date(2025, 6, 1), date(2025, 6, 30), "item-1")
	c2.CreatedAt = time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)

	repo := &stubCampaignRepo{active: []domain.Campaign{c1, c2}}
	r := New(repo, time.UTC, nil)

	q, _ := r.EffectivePrice(context.Background(), domain.MenuItem{ID: "item-1", Price: 100}, now)
	if q.CampaignID != "big" || q.UnitPrice != 75 {
		t.Fatalf("expected 'big' campaign to win, got %+v", q)
	}
}

func TestOverlapEqualDiscountOldestWins(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	older := campaign("older", 20, date(2025, 6, 1), date(2025, 6, 30), "item-1")
	older.CreatedAt = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	newer := campaign("newer", 20, date(2025, 6, 1), date(2025, 6, 30), "item-1")
	newer.CreatedAt = time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)

	// Order in the slice must not matter.
	repo := &stubCampaignRepo{active: []domain.Campaign{newer, older}}
	r := New(repo, time.UTC, nil)

	q, _ := r.EffectivePrice(context.Background(), domain.MenuItem{ID: "item-1", Price: 100}, now)
	if q.CampaignID != "older" {
		t.Fatalf("expected oldest campaign on tie, got %s", q.CampaignID)
	}
}

func TestCampaignForOtherItemIgnored(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := &stubCampaignRepo{active: []domain.Campaign{
		campaign("c1", 20, date(2025, 6, 1), date(2025, 6, 30), "item-2"),
	}}
	r := New(repo, time.UTC, nil)

	q, _ := r.EffectivePrice(context.Background(), domain.MenuItem{ID: "item-1", Price: 100}, now)
	if q.Discounted {
		t.Fatalf("campaign for another item applied: %+v", q)
	}
}
