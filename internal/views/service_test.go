package views

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

const browserUA = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService() (*Service, *MemoryStore) {
	store := NewMemoryStore()
	return NewService(store, silentLogger()), store
}

func TestRecordView_CountsUniqueVisitorsOnce(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	recorded, err := svc.RecordView(ctx, TypePost, "hello", "203.0.113.7", browserUA)
	if err != nil {
		t.Fatalf("RecordView error: %v", err)
	}
	if !recorded {
		t.Error("first view from an IP should increment")
	}

	recorded, err = svc.RecordView(ctx, TypePost, "hello", "203.0.113.7", browserUA)
	if err != nil {
		t.Fatalf("RecordView error: %v", err)
	}
	if recorded {
		t.Error("repeat view from the same IP should not increment")
	}

	recorded, err = svc.RecordView(ctx, TypePost, "hello", "203.0.113.8", browserUA)
	if err != nil {
		t.Fatalf("RecordView error: %v", err)
	}
	if !recorded {
		t.Error("view from a different IP should increment")
	}

	count, err := svc.Count(ctx, TypePost, "hello")
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestRecordView_BotNeverIncrements(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, ua := range []string{"curl/8.0", "somebot", ""} {
		recorded, err := svc.RecordView(ctx, TypePost, "hello", "203.0.113.7", ua)
		if err != nil {
			t.Fatalf("RecordView error: %v", err)
		}
		if recorded {
			t.Errorf("RecordView with UA %q incremented, want suppressed", ua)
		}
	}

	count, err := svc.Count(ctx, TypePost, "hello")
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0 after bot traffic only", count)
	}
}

func TestRecordView_EmptyIPIgnored(t *testing.T) {
	svc, _ := newTestService()

	recorded, err := svc.RecordView(context.Background(), TypePost, "hello", "", browserUA)
	if err != nil {
		t.Fatalf("RecordView error: %v", err)
	}
	if recorded {
		t.Error("view without a resolvable IP should not increment")
	}
}

func TestRecordView_TypesAreNamespaced(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.RecordView(ctx, TypePost, "same-slug", "203.0.113.7", browserUA); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RecordView(ctx, TypeProject, "same-slug", "203.0.113.7", browserUA); err != nil {
		t.Fatal(err)
	}

	postCount, _ := svc.Count(ctx, TypePost, "same-slug")
	projCount, _ := svc.Count(ctx, TypeProject, "same-slug")
	if postCount != 1 || projCount != 1 {
		t.Errorf("counts = %d/%d, want independent counters per type", postCount, projCount)
	}
}

func TestRecordView_ConcurrentSameSlug(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// Two distinct IPs hammered concurrently.
			ip := "203.0.113.7"
			if n%2 == 1 {
				ip = "203.0.113.8"
			}
			_, _ = svc.RecordView(ctx, TypePost, "contended", ip, browserUA)
		}(i)
	}
	wg.Wait()

	count, err := svc.Count(ctx, TypePost, "contended")
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want exactly 2 unique visitors", count)
	}
}

func TestCounts_BatchSemantics(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.RecordView(ctx, TypePost, "b", "203.0.113.7", browserUA); err != nil {
		t.Fatal(err)
	}

	counts, err := svc.Counts(ctx, TypePost, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Counts error: %v", err)
	}
	want := []uint64{0, 1, 0}
	if len(counts) != len(want) {
		t.Fatalf("Counts returned %d values, want %d", len(counts), len(want))
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %d, want %d (input order must be preserved)", i, counts[i], want[i])
		}
	}
}

func TestCounts_EmptyInput(t *testing.T) {
	store := &countingStore{Store: NewMemoryStore()}
	svc := NewService(store, silentLogger())

	counts, err := svc.Counts(context.Background(), TypePost, nil)
	if err != nil {
		t.Fatalf("Counts error: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("Counts(nil) = %v, want empty", counts)
	}
	if store.batchCalls != 0 {
		t.Error("empty input must not issue a store round-trip")
	}
}

func TestRecordView_StoreErrorPropagates(t *testing.T) {
	svc := NewService(failingStore{}, silentLogger())

	if _, err := svc.RecordView(context.Background(), TypePost, "x", "203.0.113.7", browserUA); err == nil {
		t.Error("store failure should propagate from RecordView")
	}
	if _, err := svc.Count(context.Background(), TypePost, "x"); err == nil {
		t.Error("store failure should propagate from Count")
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("192.168.1.1")
	b := Fingerprint("192.168.1.1")
	c := Fingerprint("192.168.1.2")

	if a != b {
		t.Error("same IP must produce the same fingerprint")
	}
	if a == c {
		t.Error("different IPs must produce different fingerprints")
	}
	if len(a) != 32 {
		t.Errorf("fingerprint length = %d, want 32 hex chars", len(a))
	}
	if a == "192.168.1.1" {
		t.Error("fingerprint must not contain the raw IP")
	}
}

// countingStore wraps a Store and counts batch reads.
type countingStore struct {
	Store
	batchCalls int
}

func (s *countingStore) GetCounts(ctx context.Context, keys []string) ([]uint64, error) {
	s.batchCalls++
	return s.Store.GetCounts(ctx, keys)
}

// failingStore errors on every operation.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) AddUnique(context.Context, string, string) (bool, error) {
	return false, errStoreDown
}
func (failingStore) Increment(context.Context, string) error        { return errStoreDown }
func (failingStore) GetCount(context.Context, string) (uint64, error) { return 0, errStoreDown }
func (failingStore) GetCounts(context.Context, []string) ([]uint64, error) {
	return nil, errStoreDown
}
func (failingStore) Ping(context.Context) error { return errStoreDown }
func (failingStore) Close() error               { return nil }
