package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
)

// TestWorkerPoolBasicOperations tests basic worker pool functionality
func TestWorkerPoolBasicOperations(t *testing.T) {
	pool, err := NewWorkerPool(4, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	executed := false
	success := pool.Submit(func() {
		executed = true
	})

	if !success {
		t.Error("Task submission failed")
	}

	pool.Close()

	if !executed {
		t.Error("Task was not executed")
	}
}

// TestWorkerPoolConcurrentSubmissions tests concurrent task submissions
func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool, err := NewWorkerPool(10, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() {
				atomic.AddInt64(&counter, 1)
			})
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// TestWorkerPoolSubmitAfterClose tests that a closed pool refuses tasks
func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool, err := NewWorkerPool(2, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	pool.Close()

	if pool.Submit(func() {}) {
		t.Error("Submit succeeded on a closed pool")
	}
}

// TestWorkerPoolCloseIdempotent tests double close safety
func TestWorkerPoolCloseIdempotent(t *testing.T) {
	pool, err := NewWorkerPool(2, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	pool.Close()
	pool.Close()
}

// TestWorkerPoolPanicRecovery tests that a panicking task doesn't kill workers
func TestWorkerPoolPanicRecovery(t *testing.T) {
	pool, err := NewWorkerPool(1, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	pool.Submit(func() {
		panic("task exploded")
	})

	// The single worker must survive to run this
	var ran atomic.Bool
	pool.Submit(func() {
		ran.Store(true)
	})
	pool.Close()

	if !ran.Load() {
		t.Error("Worker did not survive a panicking task")
	}
}

// TestWorkerPoolZeroWorkers tests the minimum worker floor
func TestWorkerPoolZeroWorkers(t *testing.T) {
	pool, err := NewWorkerPool(0, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	defer pool.Close()

	done := make(chan struct{})
	if !pool.Submit(func() { close(done) }) {
		t.Fatal("Submit failed on floored pool")
	}
	<-done
}

// TestWorkerPoolTooManyWorkers tests the overflow guard
func TestWorkerPoolTooManyWorkers(t *testing.T) {
	if _, err := NewWorkerPool(MaxWorkers+1, nil); err == nil {
		t.Error("Expected ErrTooManyWorkers")
	}
}
