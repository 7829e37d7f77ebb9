package fetch

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Compression identifies the codec applied to a snapshot
type Compression string

const (
	CompressionAuto  Compression = "auto"
	CompressionNone  Compression = "none"
	CompressionGZ    Compression = "gzip"
	CompressionZSTD  Compression = "zstd"
	CompressionXZ    Compression = "xz"
	CompressionLZ4   Compression = "lz4"
	CompressionBZ2   Compression = "bzip2"
	sniffHeaderBytes             = 6
)

// ParseCompression maps a configuration value to a Compression
func ParseCompression(name string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(name))); c {
	case "", CompressionAuto:
		return CompressionAuto, nil
	case CompressionNone, CompressionGZ, CompressionZSTD, CompressionXZ, CompressionLZ4, CompressionBZ2:
		return c, nil
	case "gz":
		return CompressionGZ, nil
	case "zst":
		return CompressionZSTD, nil
	case "bz2":
		return CompressionBZ2, nil
	default:
		return "", fmt.Errorf("unsupported compression: %s (must be one of: auto, none, gzip, zstd, xz, lz4, bzip2)", name)
	}
}

var magicNumbers = []struct {
	magic       []byte
	compression Compression
}{
	{[]byte{0x1f, 0x8b}, CompressionGZ},
	{[]byte{0x28, 0xb5, 0x2f, 0xfd}, CompressionZSTD},
	{[]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, CompressionXZ},
	{[]byte{0x04, 0x22, 0x4d, 0x18}, CompressionLZ4},
	{[]byte("BZh"), CompressionBZ2},
}

// Sniff inspects the leading bytes of a stream and reports its codec. The
// returned reader replays the inspected bytes.
func Sniff(r io.Reader) (Compression, io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(sniffHeaderBytes)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", nil, fmt.Errorf("failed to read stream header: %w", err)
	}

	for _, m := range magicNumbers {
		if bytes.HasPrefix(head, m.magic) {
			return m.compression, br, nil
		}
	}
	return CompressionNone, br, nil
}

// Decompress wraps r with a reader for the given codec. CompressionAuto
// sniffs the stream first. The returned close function releases codec
// resources; it does not close r.
func Decompress(r io.Reader, c Compression) (io.Reader, func() error, error) {
	if c == CompressionAuto || c == "" {
		detected, replay, err := Sniff(r)
		if err != nil {
			return nil, nil, err
		}
		c, r = detected, replay
	}

	noop := func() error { return nil }

	switch c {
	case CompressionNone:
		return r, noop, nil

	case CompressionGZ:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gz, gz.Close, nil

	case CompressionZSTD:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil

	case CompressionXZ:
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, noop, nil

	case CompressionLZ4:
		return lz4.NewReader(r), noop, nil

	case CompressionBZ2:
		return bzip2.NewReader(r), noop, nil

	default:
		return nil, nil, fmt.Errorf("unsupported compression type for reading: %s", c)
	}
}
