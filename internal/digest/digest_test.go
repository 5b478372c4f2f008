package digest

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumFile(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
	}{
		{
			name:    "known vector",
			content: []byte("abc"),
			want:    "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
		{
			name:    "empty file",
			content: nil,
			want:    "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "voice.tar.gz", tt.content, 0644))

			sum, err := SumFile(fs, "voice.tar.gz")
			require.NoError(t, err)
			assert.Equal(t, tt.want, sum)
		})
	}
}

func TestSumFile_Missing(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := SumFile(fs, "nope.tar.gz")
	require.Error(t, err)
}

func TestLine(t *testing.T) {
	got := Line("ba7816bf", "voice.tar.gz")
	assert.Equal(t, "ba7816bf  voice.tar.gz", got)
}
