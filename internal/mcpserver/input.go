package mcpserver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/erraggy/wsdedupe/depgraph"
)

// stateInput represents the two ways a resolution state can be provided to a
// tool. Exactly one of File or Content must be set.
type stateInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a resolution state file (YAML or JSON)"`
	Content string `json:"content,omitempty" jsonschema:"Inline resolution state (YAML or JSON)"`
}

// stateCache holds parsed states for the session. File inputs are keyed by
// (absolutePath, modTime) so edits invalidate them; content inputs are keyed
// by a SHA-256 hash. Cached states are never handed out directly.
var stateCache = newStateCache(cfg)

func newStateCache(c *serverConfig) *expirable.LRU[string, *depgraph.State] {
	return expirable.NewLRU[string, *depgraph.State](c.CacheMaxSize, nil, c.CacheTTL)
}

// configure installs c as the active configuration and resets the cache.
func configure(c *serverConfig) {
	cfg = c
	stateCache = newStateCache(c)
}

// makeCacheKey creates a cache key for the given state input, or "" when the
// input cannot be cached.
func makeCacheKey(s stateInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:])
	default:
		return ""
	}
}

// resolve parses the state from whichever input was provided, using the cache
// when enabled. The returned state is a private copy the caller may mutate.
func (s stateInput) resolve() (*depgraph.State, error) {
	if (s.File == "") == (s.Content == "") {
		return nil, fmt.Errorf("exactly one of file or content must be provided")
	}
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set WSDEDUPE_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	if cfg.CacheEnabled {
		key = makeCacheKey(s)
	}
	if key != "" {
		if cached, ok := stateCache.Get(key); ok {
			return cached.Clone(), nil
		}
	}

	var state *depgraph.State
	var err error
	if s.File != "" {
		state, err = depgraph.LoadState(s.File)
	} else {
		state, err = depgraph.ParseState([]byte(s.Content), "<content>")
	}
	if err != nil {
		return nil, err
	}

	if key != "" {
		stateCache.Add(key, state)
		return state.Clone(), nil
	}
	return state, nil
}
