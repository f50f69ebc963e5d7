package source

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	cacheEnvVar        = "DEDUPE_CACHE_DIR"
	cacheSubdir        = "dedupe/inputs"
	cacheTTL           = time.Hour
	defaultHTTPTimeout = 90 * time.Second
)

// IsRemote reports whether ref names an http(s) document rather than a local file.
func IsRemote(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Open loads ref, downloading it first when it is an http(s) URL.
func Open(ctx context.Context, ref string) (string, error) {
	if !IsRemote(ref) {
		return Load(ref)
	}
	cache, err := NewCache("", nil)
	if err != nil {
		return "", err
	}
	local, err := cache.Fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	return Load(local)
}

// Cache keeps downloaded inputs on disk and revalidates them with
// If-None-Match / If-Modified-Since once they are older than an hour.
type Cache struct {
	dir    string
	client *http.Client
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// NewCache uses dir, $DEDUPE_CACHE_DIR or the user cache directory, in that order.
func NewCache(dir string, client *http.Client) (*Cache, error) {
	if dir == "" {
		dir = os.Getenv(cacheEnvVar)
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "dedupe-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Cache{dir: dir, client: client}, nil
}

// Fetch returns a local path holding the document at rawURL. A stale copy is
// served when revalidation fails.
func (c *Cache) Fetch(ctx context.Context, rawURL string) (string, error) {
	docPath, metaPath := c.pathsFor(rawURL)

	info, statErr := os.Stat(docPath)
	if statErr == nil && info.Size() > 0 && time.Since(info.ModTime()) < cacheTTL {
		return docPath, nil
	}

	meta, _ := readMeta(metaPath)
	if statErr != nil {
		meta = cacheMeta{}
	}
	err := c.download(ctx, rawURL, docPath, metaPath, meta)
	if err == nil {
		return docPath, nil
	}
	if statErr == nil && info.Size() > 0 {
		log.Printf("[source] serving cached %s after refresh failed: %v", rawURL, err)
		return docPath, nil
	}
	return "", err
}

func (c *Cache) download(ctx context.Context, rawURL, docPath, metaPath string, meta cacheMeta) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		now := time.Now()
		_ = os.Chtimes(docPath, now, now)
		meta.CachedAt = now.UTC()
		return writeMeta(metaPath, meta)
	case http.StatusOK:
		return c.saveBody(resp, docPath, metaPath)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("download %s failed: %s (%s)", rawURL, resp.Status, strings.TrimSpace(string(body)))
	}
}

func (c *Cache) saveBody(resp *http.Response, docPath, metaPath string) error {
	partial := docPath + ".part"
	file, err := os.Create(partial)
	if err != nil {
		return err
	}
	n, err := io.Copy(file, io.LimitReader(resp.Body, MaxFileSize+1))
	if err != nil {
		file.Close()
		os.Remove(partial)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(partial)
		return err
	}
	if n > MaxFileSize {
		os.Remove(partial)
		return fmt.Errorf("%s: %w", resp.Request.URL, ErrTooLarge)
	}
	if err := os.Rename(partial, docPath); err != nil {
		return err
	}
	return writeMeta(metaPath, cacheMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
		Size:         n,
	})
}

// pathsFor keys the cache by URL hash and keeps the URL's extension so Load
// can tell PDFs from text.
func (c *Cache) pathsFor(rawURL string) (string, string) {
	sum := sha1.Sum([]byte(rawURL))
	key := hex.EncodeToString(sum[:])
	ext := ".txt"
	if u, err := url.Parse(rawURL); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); e != "" && len(e) <= 5 {
			ext = e
		}
	}
	return filepath.Join(c.dir, key+ext), filepath.Join(c.dir, key+".meta")
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
