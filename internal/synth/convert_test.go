package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "wav", input: "wav", want: FormatWAV},
		{name: "mp3", input: "mp3", want: FormatMP3},
		{name: "ogg", input: "ogg", want: FormatOGG},
		{name: "empty defaults to ogg", input: "", want: FormatOGG},
		{name: "unsupported", input: "flac", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_NeedsTranscode(t *testing.T) {
	assert.False(t, FormatWAV.NeedsTranscode())
	assert.True(t, FormatMP3.NeedsTranscode())
	assert.True(t, FormatOGG.NeedsTranscode())
}

func TestConverter_Args(t *testing.T) {
	c := NewConverter(zap.NewNop())

	tests := []struct {
		name   string
		format Format
		want   []string
	}{
		{
			name:   "wav passthrough",
			format: FormatWAV,
			want:   []string{"-y", "-i", "in.wav", "-c:a", "pcm_s16le", "out.wav"},
		},
		{
			name:   "mp3",
			format: FormatMP3,
			want:   []string{"-y", "-i", "in.wav", "-codec:a", "libmp3lame", "-q:a", "2", "out.wav"},
		},
		{
			name:   "ogg",
			format: FormatOGG,
			want:   []string{"-y", "-i", "in.wav", "-codec:a", "libvorbis", "-q:a", "5", "out.wav"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.args("in.wav", "out.wav", tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := c.args("in.wav", "out.wav", Format("flac"))
	require.Error(t, err)
}

func TestConverter_Available(t *testing.T) {
	missing := NewConverter(zap.NewNop(), WithProgram("definitely-not-a-real-transcoder"))
	assert.False(t, missing.Available())
}

func TestConverter_Convert_MissingProgram(t *testing.T) {
	c := NewConverter(zap.NewNop(), WithProgram("definitely-not-a-real-transcoder"))
	err := c.Convert(t.Context(), "in.wav", "out.ogg", FormatOGG)
	require.Error(t, err)
}
