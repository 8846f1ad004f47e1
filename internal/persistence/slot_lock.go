package persistence

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrSlotHeld is returned when another booking currently holds the slot.
var ErrSlotHeld = errors.New("slot is being booked")

const slotKeyPrefix = "consultation:slot:"

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// SlotLock serializes bookings of the same consultation instant across instances.
type SlotLock struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewSlotLock builds a lock holding slots for ttl.
func NewSlotLock(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *SlotLock {
	return &SlotLock{client: client, ttl: ttl, logger: logger}
}

// Acquire holds the slot at `at`. The returned release func is always non-nil.
// When Redis is unreachable the hold is skipped and the database unique index
// remains the only guard.
func (l *SlotLock) Acquire(ctx context.Context, at time.Time) (func(), error) {
	noop := func() {}
	if l == nil || l.client == nil {
		return noop, nil
	}

	key := SlotKey(at)
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		l.logger.Warn("slot hold unavailable", zap.String("key", key), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return noop, ErrSlotHeld
	}

	return func() {
		// release must outlive a cancelled request context
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("slot release failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// SlotKey names the Redis key for a consultation instant.
func SlotKey(at time.Time) string {
	return slotKeyPrefix + strconv.FormatInt(at.UTC().UnixMilli(), 10)
}
