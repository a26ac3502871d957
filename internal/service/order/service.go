package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"canteen-backend/internal/domain"
	"canteen-backend/internal/service/device"
	"canteen-backend/internal/service/pricing"
	"github.com/google/uuid"
)

type orderRepo interface {
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetByBillNumber(ctx context.Context, billNumber string) (*domain.Order, error)
	GetByLookupToken(ctx context.Context, token string) (*domain.Order, error)
	ListByDevice(ctx context.Context, deviceID string) ([]domain.Order, error)
	ListKitchen(ctx context.Context) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListPaidBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, billNumber string, status domain.OrderStatus, deliveredAt *time.Time) error
	MarkItemDelivered(ctx context.Context, billNumber string, position int, deliveredAt time.Time) error
}

type menuRepo interface {
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
}

type priceResolver interface {
	EffectivePrice(ctx context.Context, item domain.MenuItem, now time.Time) (pricing.Quote, error)
}

// Notifier is told about committed status changes. Implementations must not
// block; delivery failures are theirs to absorb.
type Notifier interface {
	OrderStatusChanged(order domain.Order)
}

// Service owns the order state machine: PLACED → PREPARING → READY →
// DELIVERED, with per-item delivery confirmation while READY. Transitions
// against one bill are serialized; different bills run in parallel.
type Service struct {
	repo     orderRepo
	menu     menuRepo
	prices   priceResolver
	notifier Notifier
	loc      *time.Location
	logger   *log.Logger
	locks    *keyedMutex
	now      func() time.Time
}

func New(repo orderRepo, menu menuRepo, prices priceResolver, notifier Notifier, loc *time.Location, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo:     repo,
		menu:     menu,
		prices:   prices,
		notifier: notifier,
		loc:      loc,
		logger:   logger,
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

// CreateItemInput is one requested line. When ItemID references a menu item
// the price is resolved server-side; otherwise the caller-supplied name and
// unit price are taken as-is.
type CreateItemInput struct {
	ItemID    string `json:"itemId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

type CreateInput struct {
	Items          []CreateItemInput `json:"items"`
	TotalAmount    int64             `json:"totalAmount"`
	CollectionTime string            `json:"collectionTime"`
	PaymentMethod  string            `json:"paymentMethod"`
	PaymentStatus  string            `json:"paymentStatus"`
	PaymentID      string            `json:"paymentId"`
	DeviceToken    string            `json:"deviceId"`
}

// Create places a new order in PLACED. Prices are snapshotted here, exactly
// once; later campaign changes never touch an existing order.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if strings.TrimSpace(in.DeviceToken) == "" {
		return nil, domain.Invalidf("deviceId is required")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalidf("at least one item is required")
	}
	paymentStatus := domain.PaymentStatus(in.PaymentStatus)
	if paymentStatus == "" {
		paymentStatus = domain.PaymentPending
	}
	if !domain.ValidPaymentStatus(paymentStatus) {
		return nil, domain.Invalidf("unknown payment status %q", in.PaymentStatus)
	}

	now := s.now().In(s.loc)
	items := make([]domain.OrderItem, 0, len(in.Items))
	var total int64
	for i, ci := range in.Items {
		if ci.Quantity < 1 {
			return nil, domain.Invalidf("item %d: quantity must be at least 1", i)
		}
		item, err := s.snapshotItem(ctx, ci, now)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
		total += int64(item.Quantity) * item.UnitPrice
	}
	if in.TotalAmount != 0 && in.TotalAmount != total {
		return nil, domain.Invalidf("totalAmount %d does not match computed total %d", in.TotalAmount, total)
	}

	order := domain.Order{
		BillNumber:     generateBillNumber(now),
		LookupToken:    uuid.NewString(),
		Items:          items,
		TotalAmount:    total,
		CollectionTime: in.CollectionTime,
		PaymentMethod:  in.PaymentMethod,
		PaymentStatus:  paymentStatus,
		PaymentID:      in.PaymentID,
		OrderStatus:    domain.OrderStatusPlaced,
		DeviceID:       device.Normalize(in.DeviceToken),
		QRVisibleAt:    now.Add(qrVisibleDelay(in.CollectionTime)),
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order created bill=%s device=%s total=%d", created.BillNumber, created.DeviceID, created.TotalAmount)
	return created, nil
}

func (s *Service) snapshotItem(ctx context.Context, ci CreateItemInput, now time.Time) (domain.OrderItem, error) {
	if ci.ItemID != "" && s.menu != nil {
		mi, err := s.menu.GetByID(ctx, ci.ItemID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.OrderItem{}, domain.Invalidf("unknown menu item %s", ci.ItemID)
			}
			return domain.OrderItem{}, err
		}
		quote, err := s.prices.EffectivePrice(ctx, *mi, now)
		if err != nil {
			return domain.OrderItem{}, err
		}
		return domain.OrderItem{
			ItemID:          mi.ID,
			Name:            mi.Name,
			Quantity:        ci.Quantity,
			UnitPrice:       quote.UnitPrice,
			OriginalPrice:   quote.OriginalPrice,
			DiscountPercent: quote.DiscountPercent,
		}, nil
	}

	if strings.TrimSpace(ci.Name) == "" {
		return domain.OrderItem{}, domain.Invalidf("name is required")
	}
	if ci.UnitPrice < 0 {
		return domain.OrderItem{}, domain.Invalidf("unitPrice must not be negative")
	}
	return domain.OrderItem{
		Name:          ci.Name,
		Quantity:      ci.Quantity,
		UnitPrice:     ci.UnitPrice,
		OriginalPrice: ci.UnitPrice,
	}, nil
}

// MarkReady moves the order to READY. Legal from any non-terminal state.
func (s *Service) MarkReady(ctx context.Context, billNumber string) (*domain.Order, error) {
	unlock := s.locks.lock(billNumber)
	defer unlock()

	o, err := s.repo.GetByBillNumber(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	if o.OrderStatus.IsTerminal() {
		return nil, domain.ErrAlreadyTerminal
	}
	if err := s.repo.UpdateStatus(ctx, billNumber, domain.OrderStatusReady, nil); err != nil {
		return nil, err
	}
	o.OrderStatus = domain.OrderStatusReady
	s.notify(*o)
	return o, nil
}

// MarkItemDelivered confirms hand-over of a single line item. Only legal
// while the order is READY; re-confirming a delivered item is a no-op.
func (s *Service) MarkItemDelivered(ctx context.Context, billNumber string, index int) (*domain.Order, error) {
	unlock := s.locks.lock(billNumber)
	defer unlock()

	o, err := s.repo.GetByBillNumber(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	if o.OrderStatus.IsTerminal() {
		return nil, domain.ErrAlreadyTerminal
	}
	if o.OrderStatus != domain.OrderStatusReady {
		return nil, domain.ErrInvalidState
	}
	if index < 0 || index >= len(o.Items) {
		return nil, domain.ErrItemIndex
	}
	if o.Items[index].Delivered {
		return o, nil
	}

	at := s.now().In(s.loc)
	if err := s.repo.MarkItemDelivered(ctx, billNumber, index, at); err != nil {
		return nil, err
	}
	o.Items[index].Delivered = true
	o.Items[index].DeliveredAt = &at
	s.logger.Printf("order bill=%s item=%d delivered", billNumber, index)
	return o, nil
}

// MarkDelivered closes the whole bill. Requires READY and every item
// already confirmed delivered; stamps deliveredAt exactly once.
func (s *Service) MarkDelivered(ctx context.Context, billNumber string) (*domain.Order, error) {
	unlock := s.locks.lock(billNumber)
	defer unlock()

	o, err := s.repo.GetByBillNumber(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	if o.OrderStatus.IsTerminal() {
		return nil, domain.ErrAlreadyTerminal
	}
	if o.OrderStatus != domain.OrderStatusReady {
		return nil, domain.ErrInvalidState
	}
	if !o.AllItemsDelivered() {
		return nil, domain.ErrIncompleteDelivery
	}

	at := s.now().In(s.loc)
	if err := s.repo.UpdateStatus(ctx, billNumber, domain.OrderStatusDelivered, &at); err != nil {
		return nil, err
	}
	o.OrderStatus = domain.OrderStatusDelivered
	o.DeliveredAt = &at
	s.notify(*o)
	return o, nil
}

// OrdersForDevice lists the calling device's order history, newest first.
func (s *Service) OrdersForDevice(ctx context.Context, deviceToken string) ([]domain.Order, error) {
	if strings.TrimSpace(deviceToken) == "" {
		return nil, domain.Invalidf("deviceId is required")
	}
	return s.repo.ListByDevice(ctx, device.Normalize(deviceToken))
}

// OrderByLookupToken fetches one order by its unguessable public token.
func (s *Service) OrderByLookupToken(ctx context.Context, token string) (*domain.Order, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.Invalidf("lookup token is required")
	}
	return s.repo.GetByLookupToken(ctx, token)
}

// KitchenQueue lists paid orders awaiting kitchen action, oldest first.
func (s *Service) KitchenQueue(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListKitchen(ctx)
}

// AllOrders lists every order, newest first.
func (s *Service) AllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// ProductSales aggregates one product's sales within a revenue report.
type ProductSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

// RevenueReport is the daily projection over paid orders.
type RevenueReport struct {
	Date         string         `json:"date"`
	TotalOrders  int            `json:"totalOrders"`
	TotalRevenue int64          `json:"totalRevenue"`
	Products     []ProductSales `json:"products"`
}

// DailyRevenue sums paid orders created on the given local date, using the
// unit prices snapshotted at creation.
func (s *Service) DailyRevenue(ctx context.Context, date string) (*RevenueReport, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return nil, domain.Invalidf("date must be YYYY-MM-DD")
	}
	from := day
	to := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999_000_000, s.loc)

	orders, err := s.repo.ListPaidBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := RevenueReport{Date: date, TotalOrders: len(orders)}
	byProduct := make(map[string]*ProductSales)
	for _, o := range orders {
		report.TotalRevenue += o.TotalAmount
		for _, it := range o.Items {
			p, ok := byProduct[it.Name]
			if !ok {
				p = &ProductSales{Name: it.Name}
				byProduct[it.Name] = p
			}
			p.Quantity += it.Quantity
			p.Revenue += int64(it.Quantity) * it.UnitPrice
		}
	}
	for _, p := range byProduct {
		report.Products = append(report.Products, *p)
	}
	sort.Slice(report.Products, func(i, j int) bool {
		return report.Products[i].Name < report.Products[j].Name
	})
	return &report, nil
}

func (s *Service) notify(o domain.Order) {
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(o)
	}
}

func generateBillNumber(now time.Time) string {
	return fmt.Sprintf("BILL-%d", now.UnixMilli())
}

// qrVisibleDelay maps the chosen collection slot to how long the bill QR
// stays hidden after placement.
func qrVisibleDelay(collectionTime string) time.Duration {
	switch collectionTime {
	case "Now":
		return 0
	case "5 minutes":
		return 2 * time.Minute
	case "10 minutes":
		return 5 * time.Minute
	case "15 minutes":
		return 10 * time.Minute
	default:
		return 10 * time.Minute
	}
}
