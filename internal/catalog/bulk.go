package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const downloadChunkSize = 8192

var ErrEntryNotFound = errors.New("bulk data entry not found")

// Manifest is the bulk-data index published by the catalog provider.
type Manifest struct {
	Data []ManifestEntry `json:"data"`
}

type ManifestEntry struct {
	Type        string `json:"type"`
	DownloadURI string `json:"download_uri"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// Bulk talks to the bulk-data provider.
type Bulk struct {
	Client      *http.Client
	ManifestURL string
	UserAgent   string
}

func NewBulk(manifestURL string) *Bulk {
	return &Bulk{
		// downloads run for minutes; the caller's context bounds them
		Client:      &http.Client{Timeout: 0},
		ManifestURL: manifestURL,
		UserAgent:   "cardvault/1.0",
	}
}

func (b *Bulk) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", b.UserAgent)
	req.Header.Set("Accept", "application/json")
	return b.Client.Do(req)
}

// Locate fetches the manifest and returns the entry of the given type.
func (b *Bulk) Locate(ctx context.Context, entryType string) (ManifestEntry, error) {
	resp, err := b.get(ctx, b.ManifestURL)
	if err != nil {
		return ManifestEntry{}, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ManifestEntry{}, fmt.Errorf("fetch manifest: status %d: %s", resp.StatusCode, string(body))
	}

	var m Manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return ManifestEntry{}, fmt.Errorf("decode manifest: %w", err)
	}
	for _, e := range m.Data {
		if e.Type == entryType {
			return e, nil
		}
	}
	return ManifestEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryType)
}

// Download streams uri into dst and returns the number of bytes written.
// A partial file is removed on failure.
func (b *Bulk) Download(ctx context.Context, uri, dst string) (int64, error) {
	resp, err := b.get(ctx, uri)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s: status %d", uri, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("ensure scratch dir: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}

	n, err := io.CopyBuffer(f, resp.Body, make([]byte, downloadChunkSize))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}
	return n, nil
}

// ArchiveKey names the object a downloaded catalog is archived under.
func ArchiveKey(prefix string, at time.Time) string {
	return fmt.Sprintf("%s/%s.json", prefix, at.UTC().Format("2006-01-02T15-04-05Z"))
}
