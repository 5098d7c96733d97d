package concurrent

import (
	"sync"
	"testing"
)

func TestCounter_Inc(t *testing.T) {
	c := NewCounter()

	if v := c.Inc(); v != 1 {
		t.Errorf("Expected 1, got %d", v)
	}
	if v := c.Inc(); v != 2 {
		t.Errorf("Expected 2, got %d", v)
	}
	if v := c.Load(); v != 2 {
		t.Errorf("Expected 2, got %d", v)
	}
}

func TestCounter_Concurrent(t *testing.T) {
	c := NewCounter()
	iterations := 1000
	goroutines := 10

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				c.Inc()
			}
		}()
	}

	wg.Wait()

	expected := uint64(goroutines * iterations)
	if v := c.Load(); v != expected {
		t.Errorf("Expected %d, got %d", expected, v)
	}
}

