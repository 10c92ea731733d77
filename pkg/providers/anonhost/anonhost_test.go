package anonhost

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/tovald/linkdrop/internal/logging"
	"github.com/tovald/linkdrop/internal/providers"
)

func init() {
	// Initialize logging for tests
	logging.Init(false, os.Stderr)
}

func TestProvider_New(t *testing.T) {
	tests := []struct {
		name     string
		config   map[string]interface{}
		expected string
	}{
		{
			name:     "default config",
			config:   map[string]interface{}{},
			expected: DefaultUploadURL,
		},
		{
			name: "custom config",
			config: map[string]interface{}{
				"upload_url": "https://custom.example.com",
				"timeout":    "5m",
			},
			expected: "https://custom.example.com",
		},
		{
			name: "invalid timeout falls back to default",
			config: map[string]interface{}{
				"timeout": "not-a-duration",
			},
			expected: DefaultUploadURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := New(tt.config)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			if provider.UploadURL != tt.expected {
				t.Errorf("UploadURL = %v, want %v", provider.UploadURL, tt.expected)
			}
		})
	}
}

func TestProvider_Name(t *testing.T) {
	provider, err := New(map[string]interface{}{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	expected := "anonhost"
	if got := provider.Name(); got != expected {
		t.Errorf("Name() = %v, want %v", got, expected)
	}
}

func TestProvider_Upload_Success(t *testing.T) {
	content := []byte("10 bytes!!")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %v, want %v", r.Method, http.MethodPost)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}

		file, header, err := r.FormFile(FieldName)
		if err != nil {
			t.Fatalf("FormFile(%q) error = %v", FieldName, err)
		}
		defer file.Close()

		if header.Filename != "test.txt" {
			t.Errorf("Filename = %v, want test.txt", header.Filename)
		}

		body, err := io.ReadAll(file)
		if err != nil {
			t.Fatalf("Error reading form file: %v", err)
		}
		if !bytes.Equal(body, content) {
			t.Errorf("Body = %q, want %q", body, content)
		}

		// Hosts of this kind answer with the URL surrounded by
		// whitespace
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("  https://host.example/abc123\n"))
	}))
	defer ts.Close()

	provider, err := New(map[string]interface{}{
		"upload_url": ts.URL,
		"timeout":    "5s",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	url, err := provider.Upload(context.Background(), "test.txt", bytes.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if url != "https://host.example/abc123" {
		t.Errorf("Upload() url = %q, want trimmed %q", url, "https://host.example/abc123")
	}
}

func TestProvider_Upload_NonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("try again later"))
	}))
	defer ts.Close()

	provider, err := New(map[string]interface{}{
		"upload_url": ts.URL,
		"timeout":    "5s",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = provider.Upload(context.Background(), "test.txt", bytes.NewReader([]byte("data")), 4)
	if err == nil {
		t.Fatal("Upload() expected error, got nil")
	}

	var upErr *providers.UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("Upload() error type = %T, want *providers.UploadError", err)
	}
	if upErr.Kind != providers.KindNetwork {
		t.Errorf("Kind = %v, want %v", upErr.Kind, providers.KindNetwork)
	}
	if upErr.Code != "503" {
		t.Errorf("Code = %v, want 503", upErr.Code)
	}
}

func TestProvider_Upload_EmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("  \n"))
	}))
	defer ts.Close()

	provider, err := New(map[string]interface{}{
		"upload_url": ts.URL,
		"timeout":    "5s",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = provider.Upload(context.Background(), "test.txt", bytes.NewReader([]byte("data")), 4)
	if err == nil {
		t.Fatal("Upload() expected error for empty body, got nil")
	}

	if providers.GetKind(err) != providers.KindNetwork {
		t.Errorf("Kind = %v, want %v", providers.GetKind(err), providers.KindNetwork)
	}
}

func TestProvider_Upload_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // Closed before the upload

	provider, err := New(map[string]interface{}{
		"upload_url": ts.URL,
		"timeout":    "2s",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = provider.Upload(context.Background(), "test.txt", bytes.NewReader([]byte("data")), 4)
	if err == nil {
		t.Fatal("Upload() expected error, got nil")
	}

	if providers.GetKind(err) != providers.KindNetwork {
		t.Errorf("Kind = %v, want %v", providers.GetKind(err), providers.KindNetwork)
	}
}
