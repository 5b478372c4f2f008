package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readTarEntries decompresses the data (gzip, zstd, or none) and returns a map of filename -> content.
func readTarEntries(data []byte, compression Compression) (map[string]string, error) {
	var decompressed io.Reader
	switch compression {
	case CompressionGzip:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer lo.Must0(gr.Close())
		decompressed = gr
	case CompressionZstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		decompressed = zr
	case CompressionNone:
		decompressed = bytes.NewReader(data)
	default:
		return nil, fmt.Errorf("unknown compression: %s", compression)
	}
	tr := tar.NewReader(decompressed)
	found := make(map[string]string)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		found[h.Name] = string(content)
	}
	return found, nil
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Compression
		wantExt string
		wantErr bool
	}{
		{
			name:    "gzip",
			input:   "gzip",
			want:    CompressionGzip,
			wantExt: ".tar.gz",
		},
		{
			name:    "zstd",
			input:   "zstd",
			want:    CompressionZstd,
			wantExt: ".tar.zst",
		},
		{
			name:    "none",
			input:   "none",
			want:    CompressionNone,
			wantExt: ".tar",
		},
		{
			name:    "empty defaults to gzip",
			input:   "",
			want:    CompressionGzip,
			wantExt: ".tar.gz",
		},
		{
			name:    "unsupported",
			input:   "bzip2",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCompression(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantExt, got.Extension())
		})
	}
}

func TestWriter_SingleFile(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, CompressionGzip)
	require.NoError(t, err)

	content := "hello, world!"
	err = w.WriteFile("greeting.ogg", int64(len(content)), bytes.NewReader([]byte(content)))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	found, err := readTarEntries(buf.Bytes(), CompressionGzip)
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, content, found["greeting.ogg"])
}

func TestWriter_MultipleFiles(t *testing.T) {
	for _, compression := range []Compression{CompressionGzip, CompressionZstd, CompressionNone} {
		t.Run(string(compression), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, compression)
			require.NoError(t, err)

			files := map[string]string{
				"a.ogg": "ABC",
				"b.ogg": "",
				"c.ogg": "third file",
			}
			for name, content := range files {
				err = w.WriteFile(name, int64(len(content)), bytes.NewReader([]byte(content)))
				require.NoError(t, err)
			}
			require.NoError(t, w.Close())

			found, err := readTarEntries(buf.Bytes(), compression)
			require.NoError(t, err)
			assert.Len(t, found, len(files))
			for name, content := range files {
				assert.Equal(t, content, found[name], "file %s", name)
			}
		})
	}
}

func TestWriter_SizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, CompressionGzip)
	require.NoError(t, err)

	err = w.WriteFile("short.ogg", 10, bytes.NewReader([]byte("abc")))
	require.Error(t, err)
}

func TestWriter_CloseTwice(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, CompressionGzip)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.Error(t, w.Close(), "second close should error")
}

func TestWriter_WriteAfterClose(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, CompressionGzip)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	err = w.WriteFile("late.ogg", 3, bytes.NewReader([]byte("abc")))
	require.Error(t, err)
}

func TestWriter_UnsupportedCompression(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf, Compression("bzip2"))
	require.Error(t, err)
}
