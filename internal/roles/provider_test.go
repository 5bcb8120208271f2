package roles

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/thenetworkclub/network-go/internal/cache"
	"github.com/thenetworkclub/network-go/internal/model"
)

// fakeStore returns canned users and counts lookups.
type fakeStore struct {
	users   map[int64]model.User
	err     error
	lookups int
}

func (s *fakeStore) GetUserByID(_ context.Context, id int64) (model.User, error) {
	s.lookups++
	if s.err != nil {
		return model.User{}, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func newTestProvider(t *testing.T, s *fakeStore) *Provider {
	t.Helper()
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { c.Close() })
	return NewProvider(s, c, time.Minute)
}

func TestResolve_Anonymous(t *testing.T) {
	s := &fakeStore{}
	p := newTestProvider(t, s)

	role := p.Resolve(context.Background(), 0)
	if role != model.RoleAnonymous {
		t.Errorf("Resolve(0) = %q, want anonymous", role)
	}
	if s.lookups != 0 {
		t.Errorf("anonymous resolve should not hit the store, got %d lookups", s.lookups)
	}
}

func TestResolve_AdminAndCaching(t *testing.T) {
	s := &fakeStore{users: map[int64]model.User{
		1: {ID: 1, Role: model.RoleAdmin},
	}}
	p := newTestProvider(t, s)
	ctx := context.Background()

	if role := p.Resolve(ctx, 1); role != model.RoleAdmin {
		t.Errorf("Resolve = %q, want admin", role)
	}
	// Second resolve is served from cache.
	if role := p.Resolve(ctx, 1); role != model.RoleAdmin {
		t.Errorf("second Resolve = %q, want admin", role)
	}
	if s.lookups != 1 {
		t.Errorf("lookups = %d, want 1 (second resolve should be cached)", s.lookups)
	}
}

func TestResolve_UnknownUserDefaultsToVisitor(t *testing.T) {
	s := &fakeStore{users: map[int64]model.User{}}
	p := newTestProvider(t, s)

	if role := p.Resolve(context.Background(), 99); role != model.RoleVisitor {
		t.Errorf("Resolve = %q, want visitor", role)
	}
}

func TestResolve_StoreErrorDefaultsToVisitor(t *testing.T) {
	s := &fakeStore{err: errors.New("db closed")}
	p := newTestProvider(t, s)
	ctx := context.Background()

	if role := p.Resolve(ctx, 1); role != model.RoleVisitor {
		t.Errorf("Resolve = %q, want visitor on store failure", role)
	}

	// Failures are not cached: the next resolve tries the store again.
	p.Resolve(ctx, 1)
	if s.lookups != 2 {
		t.Errorf("lookups = %d, want 2 (failed lookups must not be cached)", s.lookups)
	}
}

func TestResolve_InvalidStoredRoleDefaultsToVisitor(t *testing.T) {
	s := &fakeStore{users: map[int64]model.User{
		1: {ID: 1, Role: "superuser"},
	}}
	p := newTestProvider(t, s)

	if role := p.Resolve(context.Background(), 1); role != model.RoleVisitor {
		t.Errorf("Resolve = %q, want visitor for unknown stored role", role)
	}
}

func TestInvalidate(t *testing.T) {
	s := &fakeStore{users: map[int64]model.User{
		1: {ID: 1, Role: model.RoleVisitor},
	}}
	p := newTestProvider(t, s)
	ctx := context.Background()

	if role := p.Resolve(ctx, 1); role != model.RoleVisitor {
		t.Fatalf("Resolve = %q, want visitor", role)
	}

	// Promote and invalidate; the next resolve sees the new role.
	s.users[1] = model.User{ID: 1, Role: model.RoleAdmin}
	p.Invalidate(ctx, 1)

	if role := p.Resolve(ctx, 1); role != model.RoleAdmin {
		t.Errorf("Resolve after invalidate = %q, want admin", role)
	}
	if s.lookups != 2 {
		t.Errorf("lookups = %d, want 2", s.lookups)
	}
}

func TestIsAdmin(t *testing.T) {
	s := &fakeStore{users: map[int64]model.User{
		1: {ID: 1, Role: model.RoleAdmin},
		2: {ID: 2, Role: model.RoleVisitor},
	}}
	p := newTestProvider(t, s)
	ctx := context.Background()

	if !p.IsAdmin(ctx, 1) {
		t.Error("IsAdmin(1) = false, want true")
	}
	if p.IsAdmin(ctx, 2) {
		t.Error("IsAdmin(2) = true, want false")
	}
	if p.IsAdmin(ctx, 0) {
		t.Error("IsAdmin(0) = true, want false")
	}
}
