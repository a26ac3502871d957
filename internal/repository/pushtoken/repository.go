package pushtoken

import "context"

// Repository persists the push-messaging token registered for a hashed
// device identifier, so opt-ins survive process restarts.
type Repository interface {
	Upsert(ctx context.Context, deviceID, fcmToken string) error
	GetByDevice(ctx context.Context, deviceID string) (string, error)
}
