package synth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name        string
		cfg         ClientConfig
		wantErr     bool
		errContains string
	}{
		{
			name:        "error when api key missing",
			cfg:         ClientConfig{},
			wantErr:     true,
			errContains: "api key is required",
		},
		{
			name:        "error on non-http endpoint",
			cfg:         ClientConfig{APIKey: "k", Endpoint: "ftp://example.com"},
			wantErr:     true,
			errContains: "http or https",
		},
		{
			name: "accepts defaults",
			cfg:  ClientConfig{APIKey: "k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClient_Synthesize(t *testing.T) {
	wav := []byte("RIFF fake wav payload")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var req synthesizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "<speak>hi</speak>", req.Input.SSML)
		assert.Equal(t, "en-GB", req.Voice.LanguageCode)
		assert.Equal(t, DefaultVoice, req.Voice.Name)
		assert.Equal(t, "LINEAR16", req.AudioConfig.AudioEncoding)

		_ = json.NewEncoder(w).Encode(synthesizeResponse{
			AudioContent: base64.StdEncoding.EncodeToString(wav),
		})
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{APIKey: "secret", Endpoint: server.URL})
	require.NoError(t, err)

	got, err := client.Synthesize(t.Context(), "<speak>hi</speak>")
	require.NoError(t, err)
	assert.Equal(t, wav, got)
}

func TestClient_Synthesize_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":"PERMISSION_DENIED"}}`, http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{APIKey: "bad", Endpoint: server.URL})
	require.NoError(t, err)

	_, err = client.Synthesize(t.Context(), "<speak>hi</speak>")
	require.Error(t, err)
	assert.ErrorContains(t, err, "status 403")
	assert.ErrorContains(t, err, "PERMISSION_DENIED")
}

func TestClient_Synthesize_EmptyAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(synthesizeResponse{})
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{APIKey: "k", Endpoint: server.URL})
	require.NoError(t, err)

	_, err = client.Synthesize(t.Context(), "<speak>hi</speak>")
	require.Error(t, err)
	assert.ErrorContains(t, err, "no audio content")
}
