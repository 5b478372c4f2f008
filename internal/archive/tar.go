package archive

import (
	"archive/tar"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression defines supported compression algorithms.
type Compression string

const (
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionNone Compression = "none"
)

// ParseCompression maps a config string to a Compression.
// An empty string defaults to gzip.
func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "":
		return CompressionGzip, nil
	case CompressionGzip, CompressionZstd, CompressionNone:
		return Compression(s), nil
	default:
		return "", fmt.Errorf("unsupported compression type: %s", s)
	}
}

// Extension returns the file extension for archives using this compression.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".tar.gz"
	case CompressionZstd:
		return ".tar.zst"
	default:
		return ".tar"
	}
}

// Writer streams files into a compressed tar archive. Entry sizes must be
// known up front; data is copied through without buffering whole files.
type Writer struct {
	compressor io.WriteCloser
	tarWriter  *tar.Writer
	closed     bool
}

// NewWriter creates a tar writer emitting to w with the given compression.
func NewWriter(w io.Writer, compression Compression) (*Writer, error) {
	var compressor io.WriteCloser
	var err error

	switch compression {
	case CompressionGzip:
		compressor = gzip.NewWriter(w)
	case CompressionZstd:
		compressor, err = zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
	case CompressionNone:
		compressor = &nopWriteCloser{w}
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", compression)
	}

	return &Writer{
		compressor: compressor,
		tarWriter:  tar.NewWriter(compressor),
	}, nil
}

// WriteFile adds a single entry to the archive. The entry carries a fixed
// 0644 mode and a zero modification time so payload bytes alone determine
// the tar stream.
func (w *Writer) WriteFile(name string, size int64, data io.Reader) error {
	if w.closed {
		return fmt.Errorf("archive writer is closed")
	}

	header := &tar.Header{
		Name: name,
		Mode: 0644,
		Size: size,
	}

	if err := w.tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", name, err)
	}

	written, err := io.Copy(w.tarWriter, data)
	if err != nil {
		return fmt.Errorf("failed to write tar content for %s: %w", name, err)
	}
	if written != size {
		return fmt.Errorf("short write for %s: wrote %d of %d bytes", name, written, size)
	}

	return nil
}

// Close finalizes the tar stream and flushes the compressor. It does not
// close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return fmt.Errorf("archive writer already closed")
	}
	w.closed = true

	if err := w.tarWriter.Close(); err != nil {
		return fmt.Errorf("failed to close tar writer: %w", err)
	}

	if err := w.compressor.Close(); err != nil {
		return fmt.Errorf("failed to close compressor: %w", err)
	}

	return nil
}

// nopWriteCloser wraps a Writer to provide a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (n *nopWriteCloser) Close() error {
	return nil
}
