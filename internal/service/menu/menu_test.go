package menu

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"canteen-backend/internal/cache"
	"canteen-backend/internal/domain"
)

type memoryMenuRepo struct {
	items  map[string]domain.MenuItem
	nextID int
}

func newMemoryMenuRepo() *memoryMenuRepo {
	return &memoryMenuRepo{items: make(map[string]domain.MenuItem)}
}

func (r *memoryMenuRepo) Create(_ context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	r.nextID++
	item.ID = fmt.Sprintf("item-%d", r.nextID)
	item.CreatedAt = time.Now()
	r.items[item.ID] = item
	cp := item
	return &cp, nil
}

func (r *memoryMenuRepo) Update(_ context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	if _, ok := r.items[item.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.items[item.ID] = item
	cp := item
	return &cp, nil
}

func (r *memoryMenuRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryMenuRepo) GetByID(_ context.Context, id string) (*domain.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := item
	return &cp, nil
}

func (r *memoryMenuRepo) List(_ context.Context) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *memoryMenuRepo) ListInStock(_ context.Context) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	for _, item := range r.items {
		if item.Stock > 0 {
			out = append(out, item)
		}
	}
	return out, nil
}

type stubResolver struct {
	campaigns []domain.Campaign
}

func (s *stubResolver) ActiveAt(_ context.Context, _ time.Time) ([]domain.Campaign, error) {
	return s.campaigns, nil
}

type stubHours struct {
	hours domain.ServiceHours
}

func (s *stubHours) Hours(_ context.Context) (*domain.ServiceHours, error) {
	cp := s.hours
	return &cp, nil
}

type memoryCache struct {
	data    map[string][]byte
	gets    int
	sets    int
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.gets++
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte) error {
	c.sets++
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.deletes++
	delete(c.data, key)
	return nil
}

func allDayHours() *stubHours {
	return &stubHours{hours: domain.ServiceHours{
		Breakfast: domain.MealWindow{Start: "00:00", End: "23:59"},
		Lunch:     domain.MealWindow{Start: "00:00", End: "23:59"},
	}}
}

func newTestService(repo *memoryMenuRepo, resolver *stubResolver, hours *stubHours, c cache.Cache) *Service {
	svc := New(repo, resolver, hours, c, time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 12, 30, 0, 0, time.UTC) }
	return svc
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newMemoryMenuRepo(), &stubResolver{}, allDayHours(), nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   Input
	}{
		{"no name", Input{Category: "Snacks", Price: 10}},
		{"negative price", Input{Name: "Tea", Category: "Snacks", Price: -1}},
		{"no category", Input{Name: "Tea", Price: 10}},
		{"negative stock", Input{Name: "Tea", Category: "Snacks", Price: 10, Stock: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.in); !errors.Is(err, domain.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	repo := newMemoryMenuRepo()
	svc := newTestService(repo, &stubResolver{}, allDayHours(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Name: "Tea", Category: "Snacks", Price: 10, Stock: 50})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.Update(ctx, created.ID, Input{Name: "Masala Tea", Category: "Snacks", Price: 12, Stock: 50})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("update changed identity: %+v", updated)
	}
	if updated.Price != 12 {
		t.Fatalf("price not updated: %d", updated.Price)
	}

	if _, err := svc.Update(ctx, "missing", Input{Name: "X", Category: "Snacks"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPublicMenuAppliesDiscounts(t *testing.T) {
	repo := newMemoryMenuRepo()
	resolver := &stubResolver{}
	svc := newTestService(repo, resolver, allDayHours(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Name: "Tea", Category: "Snacks", Price: 100, Stock: 50})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	resolver.campaigns = []domain.Campaign{{
		ID:                "c1",
		DiscountPercent:   20,
		ApplicableItemIDs: []string{created.ID},
		IsActive:          true,
	}}

	items, err := svc.PublicMenu(ctx)
	if err != nil {
		t.Fatalf("public menu: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Price != 80 || items[0].OriginalPrice != 100 || items[0].DiscountPercent != 20 {
		t.Fatalf("discount not applied: %+v", items[0])
	}
}

func TestPublicMenuSkipsOutOfStock(t *testing.T) {
	repo := newMemoryMenuRepo()
	svc := newTestService(repo, &stubResolver{}, allDayHours(), nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, Input{Name: "Tea", Category: "Snacks", Price: 10, Stock: 0}); err != nil {
		t.Fatalf("create: %v", err)
	}
	items, err := svc.PublicMenu(ctx)
	if err != nil {
		t.Fatalf("public menu: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("out-of-stock item listed: %+v", items)
	}
}

func TestPublicMenuGatesMealCategories(t *testing.T) {
	repo := newMemoryMenuRepo()
	hours := &stubHours{hours: domain.ServiceHours{
		Breakfast: domain.MealWindow{Start: "08:00", End: "11:00"},
		Lunch:     domain.MealWindow{Start: "12:00", End: "15:00"},
	}}
	svc := newTestService(repo, &stubResolver{}, hours, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, Input{Name: "Idli", Category: CategoryBreakfast, Price: 30, Stock: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, Input{Name: "Thali", Category: CategoryLunch, Price: 80, Stock: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, Input{Name: "Tea", Category: "Snacks", Price: 10, Stock: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// now is fixed at 12:30: lunch open, breakfast closed.
	items, err := svc.PublicMenu(ctx)
	if err != nil {
		t.Fatalf("public menu: %v", err)
	}
	byName := make(map[string]PublicItem)
	for _, it := range items {
		byName[it.Name] = it
	}
	if byName["Idli"].Available {
		t.Fatalf("breakfast item available outside window")
	}
	if !byName["Thali"].Available {
		t.Fatalf("lunch item unavailable inside window")
	}
	if !byName["Tea"].Available {
		t.Fatalf("ungated item unavailable")
	}
}

func TestPublicMenuUsesCache(t *testing.T) {
	repo := newMemoryMenuRepo()
	c := newMemoryCache()
	svc := newTestService(repo, &stubResolver{}, allDayHours(), c)
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Name: "Tea", Category: "Snacks", Price: 10, Stock: 50})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.PublicMenu(ctx); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if c.sets != 1 {
		t.Fatalf("first read must populate the cache, sets=%d", c.sets)
	}

	// Mutate behind the cache; the stale copy must still be served.
	repo.items[created.ID] = domain.MenuItem{ID: created.ID, Name: "Coffee", Category: "Snacks", Price: 15, Stock: 50}
	items, err := svc.PublicMenu(ctx)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if items[0].Name != "Tea" {
		t.Fatalf("expected cached copy, got %+v", items[0])
	}

	// Catalog writes invalidate; the next read sees fresh data.
	if _, err := svc.Update(ctx, created.ID, Input{Name: "Coffee", Category: "Snacks", Price: 15, Stock: 50}); err != nil {
		t.Fatalf("update: %v", err)
	}
	items, err = svc.PublicMenu(ctx)
	if err != nil {
		t.Fatalf("third read: %v", err)
	}
	if items[0].Name != "Coffee" {
		t.Fatalf("cache not invalidated on write: %+v", items[0])
	}
}
