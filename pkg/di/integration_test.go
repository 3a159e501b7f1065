package di

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-cache-policy/cachepolicy"
)

// User represents a test model for integration tests
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// mockUserService simulates the wrapped operations' source of truth and
// tracks invocations so tests can verify when the cache short-circuits them.
type mockUserService struct {
	mu        sync.RWMutex
	users     map[int]User
	callCount map[string]int
}

func newMockUserService() *mockUserService {
	return &mockUserService{
		users: map[int]User{
			42: {ID: 42, Name: "Ada", Email: "ada@example.com"},
			43: {ID: 43, Name: "Grace", Email: "grace@example.com"},
		},
		callCount: make(map[string]int),
	}
}

func (m *mockUserService) trackCall(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount[method]++
}

func (m *mockUserService) getCallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.callCount[method]
}

func (m *mockUserService) FetchUser(ctx context.Context, id int) (User, error) {
	m.trackCall("FetchUser")
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, exists := m.users[id]
	if !exists {
		return User{}, errors.New("user not found")
	}
	return user, nil
}

func (m *mockUserService) RenameUser(ctx context.Context, id int, name string) (any, error) {
	m.trackCall("RenameUser")
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[id]
	if !exists {
		return cachepolicy.Tagged{Tag: "error", Values: []any{"not found"}}, nil
	}
	user.Name = name
	m.users[id] = user
	return cachepolicy.Tagged{Tag: "ok", Values: []any{user}}, nil
}

// fetchThunk adapts a service lookup to the engine's Call shape.
func (m *mockUserService) fetchThunk(id int) cachepolicy.Call {
	return func(ctx context.Context) (any, error) {
		return m.FetchUser(ctx, id)
	}
}

func TestIntegration_ReadThroughCaching(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() error = %v", err)
	}

	service := newMockUserService()
	spec, err := container.RegisterCached("FetchUser", []string{"id"}, "user_{id}", nil, nil)
	if err != nil {
		t.Fatalf("RegisterCached() error = %v", err)
	}

	ctx := context.Background()
	bindings, _ := spec.Bind(42)

	// First call: miss, computes and stores.
	first, err := container.Intercept(ctx, spec, bindings, service.fetchThunk(42))
	if err != nil {
		t.Fatalf("first Intercept() error = %v", err)
	}
	if first.(User).Name != "Ada" {
		t.Errorf("first Intercept() = %v, want Ada", first)
	}
	if got := service.getCallCount("FetchUser"); got != 1 {
		t.Errorf("FetchUser invoked %d times after first call, want 1", got)
	}

	// Second call: hit, the service is not consulted again.
	second, err := container.Intercept(ctx, spec, bindings, service.fetchThunk(42))
	if err != nil {
		t.Fatalf("second Intercept() error = %v", err)
	}
	if second.(User).Name != "Ada" {
		t.Errorf("second Intercept() = %v, want the stored Ada", second)
	}
	if got := service.getCallCount("FetchUser"); got != 1 {
		t.Errorf("FetchUser invoked %d times after second call, want 1", got)
	}

	// A different binding formats a different key and misses independently.
	otherBindings, _ := spec.Bind(43)
	if _, err := container.Intercept(ctx, spec, otherBindings, service.fetchThunk(43)); err != nil {
		t.Fatalf("Intercept(43) error = %v", err)
	}
	if got := service.getCallCount("FetchUser"); got != 2 {
		t.Errorf("FetchUser invoked %d times across two distinct keys, want 2", got)
	}
}

func TestIntegration_InvalidationEvictsStaleReads(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() error = %v", err)
	}

	service := newMockUserService()
	fetchSpec, err := container.RegisterCached("FetchUser", []string{"id"}, "user_{id}", nil, nil)
	if err != nil {
		t.Fatalf("RegisterCached() error = %v", err)
	}
	renameSpec, err := container.RegisterInvalidate("RenameUser", []string{"id"},
		"user_{id}", cachepolicy.On(cachepolicy.Tag("ok", cachepolicy.Any())))
	if err != nil {
		t.Fatalf("RegisterInvalidate() error = %v", err)
	}

	ctx := context.Background()
	bindings, _ := fetchSpec.Bind(42)

	// Warm the cache.
	if _, err := container.Intercept(ctx, fetchSpec, bindings, service.fetchThunk(42)); err != nil {
		t.Fatalf("warmup Intercept() error = %v", err)
	}

	// A successful rename matches {ok, _} and evicts the entry.
	renameBindings, _ := renameSpec.Bind(42)
	result, err := container.Intercept(ctx, renameSpec, renameBindings, func(ctx context.Context) (any, error) {
		return service.RenameUser(ctx, 42, "Ada Lovelace")
	})
	if err != nil {
		t.Fatalf("rename Intercept() error = %v", err)
	}
	if result.(cachepolicy.Tagged).Tag != "ok" {
		t.Fatalf("rename result = %v, want the ok variant returned unchanged", result)
	}

	// The next fetch misses and observes the new name.
	fresh, err := container.Intercept(ctx, fetchSpec, bindings, service.fetchThunk(42))
	if err != nil {
		t.Fatalf("post-rename Intercept() error = %v", err)
	}
	if fresh.(User).Name != "Ada Lovelace" {
		t.Errorf("post-rename fetch = %v, want the renamed user", fresh)
	}
	if got := service.getCallCount("FetchUser"); got != 2 {
		t.Errorf("FetchUser invoked %d times, want 2 (warmup + post-invalidation)", got)
	}
}

func TestIntegration_FailedRenameKeepsEntry(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() error = %v", err)
	}

	service := newMockUserService()
	fetchSpec, _ := container.RegisterCached("FetchUser", []string{"id"}, "user_{id}", nil, nil)
	renameSpec, _ := container.RegisterInvalidate("RenameUser", []string{"id"},
		"user_{id}", cachepolicy.On(cachepolicy.Tag("ok", cachepolicy.Any())))

	ctx := context.Background()
	bindings, _ := fetchSpec.Bind(42)

	if _, err := container.Intercept(ctx, fetchSpec, bindings, service.fetchThunk(42)); err != nil {
		t.Fatalf("warmup Intercept() error = %v", err)
	}

	// Renaming a missing user returns the error variant: no match, no eviction.
	renameBindings, _ := renameSpec.Bind(42)
	if _, err := container.Intercept(ctx, renameSpec, renameBindings, func(ctx context.Context) (any, error) {
		return service.RenameUser(ctx, 999, "Nobody")
	}); err != nil {
		t.Fatalf("rename Intercept() error = %v", err)
	}

	if _, err := container.Intercept(ctx, fetchSpec, bindings, service.fetchThunk(42)); err != nil {
		t.Fatalf("post-rename Intercept() error = %v", err)
	}
	if got := service.getCallCount("FetchUser"); got != 1 {
		t.Errorf("FetchUser invoked %d times, want 1 (entry should have survived)", got)
	}
}

func TestIntegration_ConcurrentReads(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() error = %v", err)
	}

	service := newMockUserService()
	spec, _ := container.RegisterCached("FetchUser", []string{"id"}, "user_{id}", nil, nil)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bindings, _ := spec.Bind(42)
			result, err := container.Intercept(ctx, spec, bindings, service.fetchThunk(42))
			if err != nil {
				t.Errorf("Intercept() error = %v", err)
				return
			}
			if result.(User).ID != 42 {
				t.Errorf("Intercept() = %v, want user 42", result)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkIntercept_Hit(b *testing.B) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		b.Fatalf("NewContainerWithDefaults() error = %v", err)
	}

	service := newMockUserService()
	spec, _ := container.RegisterCached("FetchUser", []string{"id"}, "user_{id}", nil, nil)

	ctx := context.Background()
	bindings, _ := spec.Bind(42)
	if _, err := container.Intercept(ctx, spec, bindings, service.fetchThunk(42)); err != nil {
		b.Fatalf("warmup Intercept() error = %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := container.Intercept(ctx, spec, bindings, service.fetchThunk(42)); err != nil {
			b.Fatalf("Intercept() error = %v", err)
		}
	}
}

func BenchmarkKeyFormat(b *testing.B) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		b.Fatalf("NewContainerWithDefaults() error = %v", err)
	}

	spec, _ := container.RegisterCached("FetchUser", []string{"id", "page"}, "user_{id}_p{page}", nil, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bindings, _ := spec.Bind(i, i%10)
		if key := spec.Key().Format(bindings); key == "" {
			b.Fatal("empty key")
		}
	}
}
