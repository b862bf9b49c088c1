package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxRenderers bounds the cache. Every terminal resize produces a new
// width, so old entries are dropped wholesale once the bound is hit.
const maxRenderers = 16

// entry serializes use of one renderer; glamour.TermRenderer is not safe
// for concurrent Render calls
type entry struct {
	mu sync.Mutex
	r  *glamour.TermRenderer
}

type rendererCache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

var renderers = &rendererCache{entries: make(map[string]*entry)}

// lookup returns the renderer for opts, building it on first use
func (c *rendererCache) lookup(opts Options) (*entry, error) {
	key := opts.key()

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		return e, nil
	}

	r, err := newRenderer(opts)
	if err != nil {
		return nil, err
	}
	if len(c.entries) >= maxRenderers {
		c.entries = make(map[string]*entry)
	}
	e := &entry{r: r}
	c.entries[key] = e
	return e, nil
}

func (c *rendererCache) render(content string, opts Options) (string, error) {
	e, err := c.lookup(opts)
	if err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.r.Render(content)
}

// newRenderer builds a TermRenderer. Built-in glamour styles are used
// directly; anything else is a JSON style path.
func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	style := glamour.WithStylePath(opts.Style)
	if IsBuiltinStyle(opts.Style) {
		style = glamour.WithStandardStyle(opts.Style)
	}

	ropts := []glamour.TermRendererOption{
		style,
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}

// ClearCache drops every cached renderer
func ClearCache() {
	renderers.mu.Lock()
	renderers.entries = make(map[string]*entry)
	renderers.mu.Unlock()
}

// CacheSize reports how many renderers are cached
func CacheSize() int {
	renderers.mu.Lock()
	defer renderers.mu.Unlock()
	return len(renderers.entries)
}
