package redis

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"
)

// testClient connects to GUESTBOOK_TEST_REDIS_URL or skips.
func testClient(t *testing.T) *Client {
	t.Helper()
	url := os.Getenv("GUESTBOOK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("GUESTBOOK_TEST_REDIS_URL not set")
	}
	c, err := Connect(context.Background(), url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewMutexDefaults(t *testing.T) {
	t.Parallel()
	m := NewMutex(nil, "guestbook:visit_lock:", 0)
	if m.ttl != defaultLockTTL {
		t.Errorf("ttl = %v, want %v", m.ttl, defaultLockTTL)
	}
	if got := m.Key("1.2.3.4"); got != "guestbook:visit_lock:1.2.3.4" {
		t.Errorf("Key = %q", got)
	}
}

func TestConnectRejectsBadURL(t *testing.T) {
	t.Parallel()
	if _, err := Connect(context.Background(), "not a url"); err == nil {
		t.Fatal("Connect accepted an invalid url")
	}
}

func TestGetMissingKey(t *testing.T) {
	c := testClient(t)
	_, ok, err := c.Get(context.Background(), "guestbook:test:missing")
	if err != nil || ok {
		t.Fatalf("Get = %v, %v; want miss", ok, err)
	}
}

func TestMutexExcludes(t *testing.T) {
	c := testClient(t)
	m := NewMutex(c, "guestbook:test_lock:", time.Second)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		maxSeen int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := m.Lock(ctx, t.Name())
			if err != nil {
				t.Errorf("Lock: %v", err)
				return
			}
			mu.Lock()
			holders++
			maxSeen = max(maxSeen, holders)
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			holders--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Fatalf("max concurrent holders = %d, want 1", maxSeen)
	}
}

func TestMutexHonorsContext(t *testing.T) {
	c := testClient(t)
	m := NewMutex(c, "guestbook:test_lock:", 5*time.Second)

	unlock, err := m.Lock(context.Background(), t.Name())
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := m.Lock(ctx, t.Name()); err == nil {
		t.Fatal("second Lock succeeded while held")
	}
}
