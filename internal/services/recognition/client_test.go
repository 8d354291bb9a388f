package recognition_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"capgen/internal/config"
	"capgen/internal/services"
	"capgen/internal/services/recognition"
)

func writeChunk(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunk-000.wav")
	if err := os.WriteFile(path, []byte("RIFF fake wav payload"), 0o644); err != nil {
		t.Fatalf("write chunk: %v", err)
	}
	return path
}

func newClient(t *testing.T, url string) *recognition.Client {
	t.Helper()
	client, err := recognition.NewClient(config.Recognition{
		URL:            url,
		Model:          "whisper-1",
		APIKey:         "secret",
		Language:       "en",
		TimeoutSeconds: 5,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := recognition.NewClient(config.Recognition{Model: "whisper-1"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRecognizeSendsMultipartForm(t *testing.T) {
	var gotAuth string
	var gotModel, gotLanguage, gotFormat, gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		gotFormat = r.FormValue("response_format")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFilename = header.Filename
		}
		w.Write([]byte(`{"text":" hello world "}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	text, err := client.Recognize(context.Background(), writeChunk(t))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotModel != "whisper-1" || gotLanguage != "en" || gotFormat != "json" {
		t.Fatalf("unexpected form fields: model=%q language=%q format=%q", gotModel, gotLanguage, gotFormat)
	}
	if gotFilename != "chunk-000.wav" {
		t.Fatalf("unexpected filename: %q", gotFilename)
	}
}

func TestRecognizeEmptyTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"   "}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.Recognize(context.Background(), writeChunk(t))
	if !errors.Is(err, services.ErrUnrecognizedSpeech) {
		t.Fatalf("expected unrecognized speech error, got %v", err)
	}
}

func TestRecognizeServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.Recognize(context.Background(), writeChunk(t))
	if !errors.Is(err, services.ErrRecognitionService) {
		t.Fatalf("expected recognition service error, got %v", err)
	}
}

func TestRecognizeTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newClient(t, server.URL)
	_, err := client.Recognize(context.Background(), writeChunk(t))
	if !errors.Is(err, services.ErrRecognitionService) {
		t.Fatalf("expected recognition service error, got %v", err)
	}
}

func TestRecognizeMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.Recognize(context.Background(), writeChunk(t))
	if !errors.Is(err, services.ErrRecognitionService) {
		t.Fatalf("expected recognition service error, got %v", err)
	}
}
