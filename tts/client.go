// Package tts drives an HTTP text-to-speech service, turning text
// files into concatenated MP3 audio.
package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Params controls a single synthesis request. Speed, volume and pitch
// are service-native 0-100 values.
type Params struct {
	Speed  int
	Volume int
	Pitch  int
	Voice  string
}

// DefaultParams returns the service midpoints with no voice override.
func DefaultParams() Params {
	return Params{Speed: 50, Volume: 50, Pitch: 50}
}

// Client talks to a TTS forwarding service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the service at host:port.
func NewClient(host string, port int) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    fmt.Sprintf("http://%s:%d", host, port),
	}
}

// Voices probes the service voice listing, reporting whether the
// service is reachable.
func (c *Client) Voices(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tts service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts service returned status %d", resp.StatusCode)
	}
	return nil
}

// Synthesize converts one piece of text to MP3 bytes.
func (c *Client) Synthesize(ctx context.Context, text string, params Params) ([]byte, error) {
	query := url.Values{}
	query.Set("text", text)
	query.Set("speed", strconv.Itoa(params.Speed))
	query.Set("volume", strconv.Itoa(params.Volume))
	query.Set("pitch", strconv.Itoa(params.Pitch))
	if params.Voice != "" {
		query.Set("voice", params.Voice)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forward?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
