package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"capgen/internal/config"
	"capgen/internal/services"
)

// Client calls an OpenAI-compatible audio transcription endpoint. It is the
// network half of the fallback transcription strategy: one request per
// silence-split chunk, plain text back.
type Client struct {
	url        string
	model      string
	apiKey     string
	language   string
	httpClient *http.Client
}

// NewClient builds a recognition client from configuration. The endpoint URL
// is required; everything else has defaults.
func NewClient(cfg config.Recognition) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "recognition", "new", "recognition.url is not set", nil)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return &Client{
		url:        cfg.URL,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type response struct {
	Text string `json:"text"`
}

// Recognize uploads the WAV file at audioPath and returns the recognized
// text. An empty transcript maps to ErrUnrecognizedSpeech so callers can
// skip the chunk silently; transport and API failures map to
// ErrRecognitionService.
func (c *Client) Recognize(ctx context.Context, audioPath string) (string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrRecognitionService, "recognition", "recognize", "open audio chunk", err)
	}
	defer file.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", services.Wrap(services.ErrRecognitionService, "recognition", "recognize", "build form", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", services.Wrap(services.ErrRecognitionService, "recognition", "recognize", "copy audio data", err)
	}
	if c.model != "" {
		_ = form.WriteField("model", c.model)
	}
	if c.language != "" {
		_ = form.WriteField("language", c.language)
	}
	_ = form.WriteField("response_format", "json")
	if err := form.Close(); err != nil {
		return "", services.Wrap(services.ErrRecognitionService, "recognition", "recognize", "finalize form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return "", services.Wrap(services.ErrRecognitionService, "recognition", "recognize", "build request", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrRecognitionService, "recognition", "recognize", "request failed", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", services.Wrap(services.ErrRecognitionService, "recognition", "recognize", "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
		return "", services.Wrap(services.ErrRecognitionService, "recognition", "recognize", detail, nil)
	}

	var decoded response
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", services.Wrap(services.ErrRecognitionService, "recognition", "recognize", "decode response", err)
	}

	text := strings.TrimSpace(decoded.Text)
	if text == "" {
		return "", services.Wrap(services.ErrUnrecognizedSpeech, "recognition", "recognize", "no recognizable speech in chunk", nil)
	}
	return text, nil
}
