package views

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestRecorder_RecordsEnqueuedViews(t *testing.T) {
	svc, _ := newTestService()
	rec := NewRecorder(svc, silentLogger(), DefaultRecorderConfig())
	rec.Start()

	if !rec.Enqueue(View{Type: TypePost, Slug: "hello", IP: "203.0.113.7", UserAgent: browserUA}) {
		t.Fatal("Enqueue rejected a view with queue capacity available")
	}
	if !rec.Enqueue(View{Type: TypePost, Slug: "hello", IP: "203.0.113.8", UserAgent: browserUA}) {
		t.Fatal("Enqueue rejected a view with queue capacity available")
	}

	waitForCount(t, svc, "hello", 2)
	rec.Stop()
}

func TestRecorder_DropsOnOverflow(t *testing.T) {
	svc, _ := newTestService()
	// Recorder never started: nothing drains the queue.
	rec := NewRecorder(svc, silentLogger(), RecorderConfig{Workers: 1, QueueSize: 2})

	if !rec.Enqueue(View{Slug: "a"}) || !rec.Enqueue(View{Slug: "b"}) {
		t.Fatal("queue should accept up to its capacity")
	}
	if rec.Enqueue(View{Slug: "c"}) {
		t.Error("Enqueue should drop instead of blocking when the queue is full")
	}
}

func TestRecorder_StartStopIdempotent(t *testing.T) {
	svc, _ := newTestService()
	rec := NewRecorder(svc, silentLogger(), DefaultRecorderConfig())

	rec.Start()
	rec.Start()
	rec.Stop()
	rec.Stop()
}

func TestRecorder_ConcurrentEnqueue(t *testing.T) {
	svc, _ := newTestService()
	rec := NewRecorder(svc, silentLogger(), RecorderConfig{Workers: 4, QueueSize: 1024})
	rec.Start()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ip := "203.0.113." + string(rune('0'+n%10))
			rec.Enqueue(View{Type: TypePost, Slug: "busy", IP: ip, UserAgent: browserUA})
		}(i)
	}
	wg.Wait()

	// 10 distinct IPs regardless of how many views were enqueued.
	waitForCount(t, svc, "busy", 10)
	rec.Stop()
}

func waitForCount(t *testing.T, svc *Service, slug string, want uint64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		count, err := svc.Count(context.Background(), TypePost, slug)
		if err != nil {
			t.Fatalf("Count error: %v", err)
		}
		if count == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	count, _ := svc.Count(context.Background(), TypePost, slug)
	t.Fatalf("count = %d, want %d before deadline", count, want)
}
