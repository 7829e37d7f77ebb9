package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/simartin/geoleaderboard/internal/logger"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultSnapshotURL is the published leaderboard snapshot
const DefaultSnapshotURL = "https://media.githubusercontent.com/media/simartin/geoleaderboard/refs/heads/gzip_csv/leaderboard.csv.gz"

// ErrLoadInProgress is returned when Load is called while another load is
// still running. The call is dropped, not queued.
var ErrLoadInProgress = errors.New("load already in progress")

// FetchError reports a non-success HTTP response
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
}

// Options configures a Loader
type Options struct {
	Client      *http.Client
	Compression Compression
	UserAgent   string
	// Timeout bounds a whole load; zero means no limit
	Timeout time.Duration
	Logger  *logger.Logger
}

// Loader fetches a compressed snapshot and returns its decoded text
type Loader struct {
	client      *http.Client
	compression Compression
	userAgent   string
	timeout     time.Duration
	log         *logger.Logger

	loading atomic.Bool
}

// NewLoader creates a loader
func NewLoader(opts Options) *Loader {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	compression := opts.Compression
	if compression == "" {
		compression = CompressionAuto
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Loader{
		client:      client,
		compression: compression,
		userAgent:   opts.UserAgent,
		timeout:     opts.Timeout,
		log:         log.WithComponent("fetch"),
	}
}

// Loading reports whether a load is in flight
func (l *Loader) Loading() bool {
	return l.loading.Load()
}

// Load reads source, which may be an http(s) URL, a file:// URL or a local
// path, decompresses it and decodes it as UTF-8.
func (l *Loader) Load(ctx context.Context, source string) (string, error) {
	if !l.loading.CompareAndSwap(false, true) {
		l.log.Debug("dropping load of %s: another load is in flight", source)
		return "", ErrLoadInProgress
	}
	defer l.loading.Store(false)

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	body, err := l.open(ctx, source)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := body.Close(); closeErr != nil {
			l.log.Debug("failed to close %s: %v", source, closeErr)
		}
	}()

	text, err := l.decode(body)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", source, err)
	}

	l.log.InfoWithFields("snapshot loaded", []logger.Field{
		logger.F("source", source),
		logger.F("bytes", len(text)),
		logger.Duration(time.Since(start)),
	})
	return text, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if path, ok := localPath(source); ok {
		// #nosec G304 - reading a user-selected snapshot is the point
		file, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot: %w", err)
		}
		return file, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot url: %w", err)
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	l.log.Debug("GET %s", source)
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &FetchError{URL: source, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, nil
}

// decode streams r through the codec and a UTF-8 decoder that strips a
// leading byte order mark and replaces invalid sequences with U+FFFD.
func (l *Loader) decode(r io.Reader) (string, error) {
	plain, closeCodec, err := Decompress(r, l.compression)
	if err != nil {
		return "", err
	}
	defer func() { _ = closeCodec() }()

	var b strings.Builder
	decoder := transform.NewReader(plain, unicode.UTF8BOM.NewDecoder())
	if _, err := io.Copy(&b, decoder); err != nil {
		return "", err
	}
	return b.String(), nil
}

func localPath(source string) (string, bool) {
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// bare paths, and Windows drive letters parsed as a scheme
		return source, true
	}
	if u.Scheme == "file" {
		return u.Path, true
	}
	return "", false
}

// IsLocal reports whether source refers to a file on disk
func IsLocal(source string) bool {
	_, ok := localPath(source)
	return ok
}

// LocalPath returns the filesystem path for a local source
func LocalPath(source string) string {
	path, _ := localPath(source)
	return path
}
