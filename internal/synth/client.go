// Package synth turns transcript lines into audio files via a cloud
// text-to-speech backend, with optional ffmpeg transcoding.
package synth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	// DefaultEndpoint is the Google Cloud TTS synthesize URL.
	DefaultEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"

	DefaultVoice    = "en-GB-Chirp3-HD-Leda"
	DefaultLanguage = "en-GB"

	defaultTimeout = 60 * time.Second
)

// ClientConfig configures the TTS client.
type ClientConfig struct {
	// APIKey authenticates the request, passed as a query parameter.
	APIKey string

	// Voice is the TTS voice name (default: en-GB-Chirp3-HD-Leda).
	Voice string

	// Language is the BCP-47 language code (default: en-GB).
	Language string

	// Endpoint overrides the synthesize URL, mainly for tests.
	Endpoint string

	// Timeout bounds a single synthesize call (default: 60s).
	Timeout time.Duration
}

// Client calls the text-to-speech REST API and returns LINEAR16 WAV bytes.
type Client struct {
	endpoint   *url.URL
	apiKey     string
	voice      string
	language   string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(cfg ClientConfig, opts ...ClientOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse endpoint '%s': %w", endpoint, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("endpoint must use http or https scheme, got: %s", parsedURL.Scheme)
	}

	voice := cfg.Voice
	if voice == "" {
		voice = DefaultVoice
	}

	language := cfg.Language
	if language == "" {
		language = DefaultLanguage
	}

	client := &Client{
		endpoint: parsedURL,
		apiKey:   cfg.APIKey,
		voice:    voice,
		language: language,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}

		client.httpClient = &http.Client{
			Transport: cleanhttp.DefaultPooledTransport(),
			Timeout:   timeout,
		}
	}

	return client, nil
}

type synthesizeRequest struct {
	Input       synthesizeInput  `json:"input"`
	Voice       synthesizeVoice  `json:"voice"`
	AudioConfig synthesizeConfig `json:"audioConfig"`
}

type synthesizeInput struct {
	SSML string `json:"ssml"`
}

type synthesizeVoice struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
}

type synthesizeConfig struct {
	AudioEncoding string `json:"audioEncoding"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize renders one SSML document into LINEAR16 WAV bytes.
func (c *Client) Synthesize(ctx context.Context, ssml string) ([]byte, error) {
	payload := synthesizeRequest{
		Input:       synthesizeInput{SSML: ssml},
		Voice:       synthesizeVoice{LanguageCode: c.language, Name: c.voice},
		AudioConfig: synthesizeConfig{AudioEncoding: "LINEAR16"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesize request: %w", err)
	}

	reqURL := *c.endpoint
	query := reqURL.Query()
	query.Set("key", c.apiKey)
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("synthesize request failed with status %d: %s", resp.StatusCode, string(excerpt))
	}

	var parsed synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse synthesize response: %w", err)
	}

	if parsed.AudioContent == "" {
		return nil, fmt.Errorf("synthesize response has no audio content")
	}

	audio, err := base64.StdEncoding.DecodeString(parsed.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}

	return audio, nil
}
