package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/events"
	"github.com/spec-kit/wellness-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

func ptr[T any](v T) *T { return &v }

// recorder captures published events by type.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func newRecorder(types ...events.EventType) (events.Dispatcher, *recorder) {
	d := events.NewInMemoryDispatcher(nil)
	r := &recorder{}
	for _, eventType := range types {
		d.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, e)
			return nil
		})
	}
	return d, r
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func seedUser(t *testing.T, store *repotest.Store, name string, role domain.Role) domain.Caller {
	t.Helper()
	user := &domain.User{Name: name, Email: name + "@wellnewyear.com", Role: role}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return domain.CallerFor(user)
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, apperrors.HasCode(err, code), "want %s, got %v", code, err)
}
