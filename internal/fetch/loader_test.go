package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

const sampleCSV = "nick,rating\nalice,1500\n"

func compress(t *testing.T, c Compression, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	var w io.WriteCloser
	var err error

	switch c {
	case CompressionGZ:
		w = gzip.NewWriter(&buf)
	case CompressionZSTD:
		w, err = zstd.NewWriter(&buf)
	case CompressionXZ:
		w, err = xz.NewWriter(&buf)
	case CompressionLZ4:
		w = lz4.NewWriter(&buf)
	default:
		return payload
	}
	if err != nil {
		t.Fatalf("failed to create %s writer: %v", c, err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("failed to write %s payload: %v", c, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close %s writer: %v", c, err)
	}
	return buf.Bytes()
}

func TestLoadDecompressesAutomatically(t *testing.T) {
	codecs := []Compression{CompressionNone, CompressionGZ, CompressionZSTD, CompressionXZ, CompressionLZ4}

	for _, codec := range codecs {
		t.Run(string(codec), func(t *testing.T) {
			body := compress(t, codec, []byte(sampleCSV))
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/octet-stream")
				_, _ = w.Write(body)
			}))
			defer server.Close()

			loader := NewLoader(Options{Client: server.Client()})
			text, err := loader.Load(context.Background(), server.URL+"/leaderboard.csv")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if text != sampleCSV {
				t.Errorf("Expected %q, got %q", sampleCSV, text)
			}
		})
	}
}

func TestLoadExplicitCompression(t *testing.T) {
	body := compress(t, CompressionGZ, []byte(sampleCSV))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer server.Close()

	loader := NewLoader(Options{Client: server.Client(), Compression: CompressionGZ})
	text, err := loader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if text != sampleCSV {
		t.Errorf("Expected %q, got %q", sampleCSV, text)
	}

	mismatched := NewLoader(Options{Client: server.Client(), Compression: CompressionZSTD})
	if _, err := mismatched.Load(context.Background(), server.URL); err == nil {
		t.Error("Expected error decoding gzip body as zstd")
	}
}

func TestLoadFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	loader := NewLoader(Options{Client: server.Client()})
	_, err := loader.Load(context.Background(), server.URL)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", fetchErr.StatusCode)
	}
	if loader.Loading() {
		t.Error("Expected loader to be idle after failure")
	}
}

func TestLoadDropsConcurrentRequest(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-release
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	loader := NewLoader(Options{Client: server.Client()})

	done := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background(), server.URL)
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first load never reached the server")
	}

	if _, err := loader.Load(context.Background(), server.URL); !errors.Is(err, ErrLoadInProgress) {
		t.Errorf("Expected ErrLoadInProgress, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first load failed: %v", err)
	}

	// the guard is released once the first load finishes
	if _, err := loader.Load(context.Background(), server.URL); err != nil && !errors.Is(err, ErrLoadInProgress) {
		t.Errorf("Expected follow-up load to run, got %v", err)
	}
}

func TestLoadUTF8Handling(t *testing.T) {
	payload := append([]byte("\xef\xbb\xbf"), []byte("nick\nJos\xc3\xa9\nbad\xff\n")...)
	path := filepath.Join(t.TempDir(), "leaderboard.csv.gz")
	if err := os.WriteFile(path, compress(t, CompressionGZ, payload), 0o600); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	loader := NewLoader(Options{})
	text, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := "nick\nJos\u00e9\nbad\ufffd\n"
	if text != want {
		t.Errorf("Expected %q, got %q", want, text)
	}
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		source    string
		wantLocal bool
		wantPath  string
	}{
		{source: "data/leaderboard.csv.gz", wantLocal: true, wantPath: "data/leaderboard.csv.gz"},
		{source: "file:///tmp/leaderboard.csv", wantLocal: true, wantPath: "/tmp/leaderboard.csv"},
		{source: "https://example.com/leaderboard.csv.gz", wantLocal: false},
	}

	for _, tt := range tests {
		if got := IsLocal(tt.source); got != tt.wantLocal {
			t.Errorf("IsLocal(%q) = %v, want %v", tt.source, got, tt.wantLocal)
		}
		if tt.wantLocal && LocalPath(tt.source) != tt.wantPath {
			t.Errorf("LocalPath(%q) = %q, want %q", tt.source, LocalPath(tt.source), tt.wantPath)
		}
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in      string
		want    Compression
		wantErr bool
	}{
		{in: "", want: CompressionAuto},
		{in: "GZ", want: CompressionGZ},
		{in: "zstd", want: CompressionZSTD},
		{in: "bz2", want: CompressionBZ2},
		{in: "rar", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCompression(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCompression(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
