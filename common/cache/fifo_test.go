package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestFIFOEvictsOldestFirst(t *testing.T) {
	c := NewFIFO(3)
	c.Set("https://a.example/1.jpg", []byte("a"))
	c.Set("https://a.example/2.jpg", []byte("b"))
	c.Set("https://a.example/3.jpg", []byte("c"))

	// A read must not refresh the entry's position.
	if _, ok := c.Get("https://a.example/1.jpg"); !ok {
		t.Fatal("expected first entry to be present before overflow")
	}

	c.Set("https://a.example/4.jpg", []byte("d"))

	if _, ok := c.Get("https://a.example/1.jpg"); ok {
		t.Error("expected earliest inserted entry to be evicted")
	}
	for _, url := range []string{"https://a.example/2.jpg", "https://a.example/3.jpg", "https://a.example/4.jpg"} {
		if _, ok := c.Get(url); !ok {
			t.Errorf("expected %s to survive eviction", url)
		}
	}
	if size, capacity := c.Stats(); size != 3 || capacity != 3 {
		t.Errorf("unexpected stats: size=%d capacity=%d", size, capacity)
	}
}

func TestFIFOOverwriteKeepsPosition(t *testing.T) {
	c := NewFIFO(2)
	c.Set("u1", []byte("old"))
	c.Set("u2", []byte("x"))
	c.Set("u1", []byte("new"))

	data, ok := c.Get("u1")
	if !ok || string(data) != "new" {
		t.Fatalf("expected overwritten value, got %q ok=%v", data, ok)
	}

	// u1 is still the oldest entry, so the next insert evicts it.
	c.Set("u3", []byte("y"))
	if _, ok := c.Get("u1"); ok {
		t.Error("expected overwritten entry to keep its insertion position")
	}
	if _, ok := c.Get("u2"); !ok {
		t.Error("expected u2 to survive")
	}
}

func TestFIFOConcurrentAccess(t *testing.T) {
	c := NewFIFO(100)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				url := fmt.Sprintf("https://img.example/%d/%d.png", worker, j)
				c.Set(url, []byte{byte(worker), byte(j)})
				c.Get(url)
			}
		}(i)
	}
	wg.Wait()

	if size, capacity := c.Stats(); size != capacity {
		t.Errorf("expected cache full after overflow, size=%d capacity=%d", size, capacity)
	}
}

func TestHashIsHexMD5(t *testing.T) {
	// md5("hello") reference digest
	if got := Hash("hello"); got != "5d41402abc4b2a76b9719d911017c592" {
		t.Errorf("unexpected hash: %s", got)
	}
	if Hash("a") == Hash("b") {
		t.Error("distinct URLs must hash to distinct keys")
	}
}
