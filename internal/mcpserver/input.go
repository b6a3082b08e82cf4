package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/restcodec"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/options"
)

// descriptionInput represents the three ways a service description can be
// provided to a tool. Exactly one of File, URL, or Content must be set.
type descriptionInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a service description file (YAML or JSON) on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch a service description from"`
	Content string `json:"content,omitempty" jsonschema:"Inline service description content (YAML or JSON)"`
}

// cachePolicy returns the cache key and lifetime for the input. File
// inputs are keyed by absolute path and modification time, content by its
// SHA-256 and URLs by the URL itself. The key is empty when the input
// cannot be cached.
func (s descriptionInput) cachePolicy() (string, time.Duration) {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return "", 0
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "", 0
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano()), cfg.CacheFileTTL
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:]), cfg.CacheContentTTL
	case s.URL != "":
		return "url:" + s.URL, cfg.CacheURLTTL
	}
	return "", 0
}

// resolve loads the description from whichever input was provided, going
// through the session cache when it is enabled.
func (s descriptionInput) resolve(ctx context.Context) (*description.Description, error) {
	if err := options.RequireOne([]string{"file", "url", "content"}, s.File != "", s.URL != "", s.Content != ""); err != nil {
		return nil, err
	}
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set RESTCODEC_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key, ttl = s.cachePolicy()
	}
	return descCache.load(key, ttl, func() (*description.Description, error) {
		return s.parse(ctx)
	})
}

func (s descriptionInput) parse(ctx context.Context) (*description.Description, error) {
	var opt description.Option
	switch {
	case s.File != "":
		opt = description.WithFilePath(s.File)
	case s.URL != "":
		data, err := fetch(ctx, s.URL)
		if err != nil {
			return nil, err
		}
		opt = description.WithBytes(data)
	default:
		opt = description.WithReader(strings.NewReader(s.Content))
	}
	return description.ParseWithOptions(opt)
}

// fetch downloads a description, refusing private addresses unless
// RESTCODEC_ALLOW_PRIVATE_IPS is set.
func fetch(ctx context.Context, rawURL string) ([]byte, error) {
	client := http.DefaultClient
	if !cfg.AllowPrivateIPs {
		client = newSafeHTTPClient()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid description URL: %w", err)
	}
	req.Header.Set("User-Agent", restcodec.UserAgent())
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch description: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch description: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, cfg.MaxInlineSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}
	if int64(len(data)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("description at %s exceeds maximum %d bytes", rawURL, cfg.MaxInlineSize)
	}
	return data, nil
}
