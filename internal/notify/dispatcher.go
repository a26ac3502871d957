// Package notify fans order status changes out to live device sessions and
// registered push tokens. Dispatch is fire-and-forget: a failed or absent
// channel never surfaces to the caller that committed the transition.
package notify

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"canteen-backend/internal/domain"
	pushrepo "canteen-backend/internal/repository/pushtoken"
)

// Transport is a live connection to one device, able to receive events.
type Transport interface {
	Emit(event string, payload any) error
}

// PushSender delivers a push message to one device token.
type PushSender interface {
	Send(ctx context.Context, token string, ev StatusEvent) error
}

// StatusEvent is the payload sent on every order status change.
type StatusEvent struct {
	BillNumber  string `json:"billNumber"`
	OrderStatus string `json:"orderStatus"`
	Message     string `json:"message"`
}

const statusEventName = "order-status-update"

// Dispatcher keeps the session registry in memory; push tokens go through
// the repository so they survive restarts.
type Dispatcher struct {
	tokens pushrepo.Repository
	push   PushSender
	logger *log.Logger

	mu       sync.RWMutex
	sessions map[string]Transport
}

func NewDispatcher(tokens pushrepo.Repository, push PushSender, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Dispatcher{
		tokens:   tokens,
		push:     push,
		logger:   logger,
		sessions: make(map[string]Transport),
	}
}

// RegisterSession binds a live transport to a device. A newer registration
// for the same device replaces the old one.
func (d *Dispatcher) RegisterSession(deviceID string, t Transport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[deviceID] = t
}

// UnregisterSession removes the device's session, but only if it still
// belongs to the given transport. A disconnect arriving after the device
// reconnected must not tear down the new session.
func (d *Dispatcher) UnregisterSession(deviceID string, t Transport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if current, ok := d.sessions[deviceID]; ok && current == t {
		delete(d.sessions, deviceID)
	}
}

// RegisterPushToken stores the device's push-messaging token.
func (d *Dispatcher) RegisterPushToken(ctx context.Context, deviceID, token string) error {
	if deviceID == "" || token == "" {
		return domain.Invalidf("deviceId and token are required")
	}
	return d.tokens.Upsert(ctx, deviceID, token)
}

// OrderStatusChanged implements the order service's notifier hook. It
// returns immediately; delivery happens in the background.
func (d *Dispatcher) OrderStatusChanged(o domain.Order) {
	go d.dispatch(context.Background(), o)
}

func (d *Dispatcher) dispatch(ctx context.Context, o domain.Order) {
	ev := StatusEvent{
		BillNumber:  o.BillNumber,
		OrderStatus: o.OrderStatus.String(),
		Message:     statusMessage(o.OrderStatus),
	}

	d.mu.RLock()
	session, hasSession := d.sessions[o.DeviceID]
	d.mu.RUnlock()
	if hasSession {
		if err := session.Emit(statusEventName, ev); err != nil {
			d.logger.Printf("notify: session emit bill=%s: %v", o.BillNumber, err)
		}
	}

	if d.push == nil {
		return
	}
	token, err := d.tokens.GetByDevice(ctx, o.DeviceID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			d.logger.Printf("notify: push token lookup bill=%s: %v", o.BillNumber, err)
		}
		return
	}
	if err := d.push.Send(ctx, token, ev); err != nil {
		d.logger.Printf("notify: push send bill=%s: %v", o.BillNumber, err)
	}
}

func statusMessage(status domain.OrderStatus) string {
	switch status {
	case domain.OrderStatusPreparing:
		return "Your order is being prepared"
	case domain.OrderStatusReady:
		return "Your order is ready for pickup"
	case domain.OrderStatusDelivered:
		return "Your order has been delivered"
	default:
		return "Your order has been placed"
	}
}
