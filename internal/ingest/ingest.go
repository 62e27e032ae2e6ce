// Package ingest brings catalogs into storage, either from an uploaded file
// or by fetching a URL. URL fetches go through an SSRF guard and a download
// size cap before any content is stored.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"net/url"
	"time"

	"github.com/coursewise/prereqscope/internal/catalog"
	"github.com/coursewise/prereqscope/internal/config"
	"github.com/coursewise/prereqscope/internal/store"
)

var (
	// ErrUnsafeURL indicates the URL failed the SSRF screen.
	ErrUnsafeURL = errors.New("invalid or unsafe URL")
	// ErrTooLarge indicates the catalog exceeds the configured size limit.
	ErrTooLarge = errors.New("catalog exceeds size limit")
	// ErrUpstream indicates the remote source could not be fetched.
	ErrUpstream = errors.New("failed to fetch upstream URL")
)

// Ingestor validates and stores incoming catalogs.
type Ingestor struct {
	files             *store.Store
	client            *http.Client
	maxUpload         int64
	maxDownload       int64
	allowPrivateHosts bool
}

// New creates an Ingestor from the ingest config section.
func New(files *store.Store, cfg config.IngestConf) *Ingestor {
	return &Ingestor{
		files: files,
		client: &http.Client{
			Timeout: time.Duration(cfg.FetchTimeoutMs) * time.Millisecond,
		},
		maxUpload:         int64(cfg.MaxUploadMB) << 20,
		maxDownload:       int64(cfg.MaxDownloadMB) << 20,
		allowPrivateHosts: cfg.AllowPrivateHosts,
	}
}

// MaxUploadBytes returns the upload size cap, for request body limiting.
func (ing *Ingestor) MaxUploadBytes() int64 {
	return ing.maxUpload
}

// Upload checks the shape of raw catalog bytes and stores them. Returns the
// new catalog id.
func (ing *Ingestor) Upload(content []byte) (string, error) {
	if int64(len(content)) > ing.maxUpload {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(content))
	}
	if _, err := catalog.Parse(content); err != nil {
		return "", err
	}
	return ing.files.SaveCatalog(content)
}

// FetchURL downloads a catalog from rawURL, screens the URL first and caps
// the download size. The body is validated and stored like an upload.
func (ing *Ingestor) FetchURL(ctx context.Context, rawURL string) (string, error) {
	if !ing.safeURL(rawURL) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsafeURL, err)
	}
	resp, err := ing.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, ing.maxDownload+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if int64(len(body)) > ing.maxDownload {
		return "", fmt.Errorf("%w: download over %d bytes", ErrTooLarge, ing.maxDownload)
	}
	return ing.Upload(body)
}

// safeURL rejects non-HTTP schemes and hosts that resolve into the caller's
// own network: loopback, RFC 1918, link-local and unspecified addresses.
// Hostname-based targets are allowed through aside from well-known localhost
// names; the fetch itself is still bounded by timeout and size caps.
func (ing *Ingestor) safeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
			addr.IsLinkLocalMulticast() || addr.IsUnspecified() {
			return ing.allowPrivateHosts
		}
		return true
	}
	if host == "localhost" {
		return ing.allowPrivateHosts
	}
	return true
}
