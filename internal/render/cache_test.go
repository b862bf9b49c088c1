package render

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestOptionsKey(t *testing.T) {
	a := DefaultOptions()
	b := DefaultOptions()
	if a.key() != b.key() {
		t.Error("equal options should share a key")
	}

	variants := []Options{
		a.WithWidth(100),
		a.WithStyle(StyleLight),
		func() Options { o := a; o.EnableEmoji = false; return o }(),
		func() Options { o := a; o.InlineTableLinks = true; return o }(),
	}
	for i, v := range variants {
		if v.key() == a.key() {
			t.Errorf("variant %d should have its own key", i)
		}
	}
}

func TestCache_ReusesRenderer(t *testing.T) {
	ClearCache()
	opts := DefaultOptions()

	first, err := renderers.lookup(opts)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	second, err := renderers.lookup(opts)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if first != second {
		t.Error("same options should return the cached renderer")
	}
	if CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", CacheSize())
	}

	if _, err := renderers.lookup(opts.WithWidth(60)); err != nil {
		t.Fatal(err)
	}
	if CacheSize() != 2 {
		t.Errorf("CacheSize() = %d, want 2", CacheSize())
	}
}

func TestCache_Bounded(t *testing.T) {
	ClearCache()
	for w := 0; w < maxRenderers+4; w++ {
		if _, err := Markdown("x", DefaultOptions().WithWidth(minWidth+w)); err != nil {
			t.Fatalf("render at width %d failed: %v", minWidth+w, err)
		}
	}
	if n := CacheSize(); n > maxRenderers {
		t.Errorf("CacheSize() = %d, exceeds %d", n, maxRenderers)
	}
}

func TestCache_Concurrent(t *testing.T) {
	ClearCache()
	opts := DefaultOptions()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := Markdown("**Model Y** range", opts)
			if err != nil {
				errs <- err
				return
			}
			if !strings.Contains(plain(out), "Model Y") {
				errs <- fmt.Errorf("output missing text: %q", out)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render failed: %v", err)
	}
	if CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", CacheSize())
	}
}

func TestClearCache(t *testing.T) {
	if _, err := Markdown("x", DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	ClearCache()
	if CacheSize() != 0 {
		t.Errorf("CacheSize() = %d after ClearCache", CacheSize())
	}
}

func TestNewRenderer_MissingStyleFile(t *testing.T) {
	ClearCache()
	_, err := Markdown("x", DefaultOptions().WithStyle("/nonexistent/style.json"))
	if err == nil {
		t.Error("expected error for a missing style file")
	}
	if CacheSize() != 0 {
		t.Error("failed renderers should not be cached")
	}
}
