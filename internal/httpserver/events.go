package httpserver

import (
	"errors"
	"io"
	"net/http"
	"sync"

	"canteen-backend/internal/service/device"
	"github.com/gin-gonic/gin"
)

type registerTokenRequest struct {
	DeviceID string `json:"deviceId" binding:"required"`
	FCMToken string `json:"fcmToken" binding:"required"`
}

func registerPushTokenHandler(registry NotificationRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in registerTokenRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "deviceId and fcmToken are required"})
			return
		}
		if err := registry.RegisterPushToken(c.Request.Context(), device.Normalize(in.DeviceID), in.FCMToken); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "registered"})
	}
}

// sseEvent pairs an event name with its payload for one SSE frame.
type sseEvent struct {
	name    string
	payload any
}

// sseSession buffers dispatcher events for one streaming response. Emit
// never blocks: a full buffer drops the event, favoring liveness of the
// dispatcher over completeness of a slow client.
type sseSession struct {
	mu     sync.Mutex
	closed bool
	events chan sseEvent
}

func newSSESession() *sseSession {
	return &sseSession{events: make(chan sseEvent, 16)}
}

func (s *sseSession) Emit(event string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("session closed")
	}
	select {
	case s.events <- sseEvent{name: event, payload: payload}:
		return nil
	default:
		return errors.New("session buffer full")
	}
}

func (s *sseSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

func eventsHandler(registry NotificationRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("deviceId")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "deviceId is required"})
			return
		}
		deviceID := device.Normalize(raw)

		session := newSSESession()
		registry.RegisterSession(deviceID, session)
		defer func() {
			registry.UnregisterSession(deviceID, session)
			session.close()
		}()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.SSEvent("connected", gin.H{"deviceId": raw})
		c.Writer.Flush()

		c.Stream(func(_ io.Writer) bool {
			select {
			case ev, ok := <-session.events:
				if !ok {
					return false
				}
				c.SSEvent(ev.name, ev.payload)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
