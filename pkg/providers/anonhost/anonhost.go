package anonhost

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/tovald/linkdrop/internal/logging"
	"github.com/tovald/linkdrop/internal/providers"
)

// DefaultUploadURL is the public endpoint files are posted to
const DefaultUploadURL = "https://0x0.st"

// FieldName is the multipart form field carrying the file bytes
const FieldName = "file"

// Provider uploads to an anonymous public host. The host takes a
// single multipart form submission and answers with the shareable URL
// as its raw response body.
type Provider struct {
	UploadURL  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// New creates a new anonymous host provider
func New(config map[string]interface{}) (*Provider, error) {
	uploadURL, ok := config["upload_url"].(string)
	if !ok || uploadURL == "" {
		uploadURL = DefaultUploadURL
	}

	timeoutStr, ok := config["timeout"].(string)
	if !ok {
		timeoutStr = "10m"
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 10 * time.Minute // Default timeout
		logging.ErrorContext("provider_config", err, map[string]interface{}{
			"provider": "anonhost",
			"setting":  "timeout",
			"value":    timeoutStr,
		})
	}

	logging.ProviderConfig("anonhost", map[string]interface{}{
		"upload_url": uploadURL,
		"timeout":    timeout.String(),
	})

	return &Provider{
		UploadURL: uploadURL,
		Timeout:   timeout,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "anonhost"
}

// Upload posts the file as a multipart form and returns the trimmed
// response body as the shareable URL, verbatim.
func (p *Provider) Upload(ctx context.Context, filename string, file io.Reader, size int64) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(FieldName, filename)
	if err != nil {
		return "", providers.NewUnknownError("failed to build multipart form", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		p.logProviderError("file_read", err, map[string]interface{}{
			"file": filename,
			"size": size,
		})
		return "", providers.NewUnknownError("failed to read file", err)
	}
	if err := writer.Close(); err != nil {
		return "", providers.NewUnknownError("failed to finalize multipart form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.UploadURL, &body)
	if err != nil {
		p.logProviderError("http_request_create", err, map[string]interface{}{
			"method": http.MethodPost,
			"url":    p.UploadURL,
		})
		return "", providers.NewNetworkError("", "failed to create request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	logging.HTTPRequest(http.MethodPost, p.UploadURL, map[string]string{
		"Content-Type": writer.FormDataContentType(),
	})

	start := time.Now()
	resp, err := p.HTTPClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		p.logProviderError("http_request", err, map[string]interface{}{
			"url": p.UploadURL,
		})
		return "", providers.NewNetworkError("", "failed to upload file", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logProviderError("http_response_read", err, map[string]interface{}{
			"status_code": resp.StatusCode,
		})
		return "", providers.NewNetworkError("", "failed to read response body", err)
	}

	logging.HTTPResponse(resp.StatusCode, string(responseBody), duration)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", providers.NewNetworkError(
			fmt.Sprintf("%d", resp.StatusCode),
			fmt.Sprintf("upload failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody))),
			nil,
		)
	}

	// The host answers with the URL as plain text. Nothing is parsed
	// beyond whitespace trimming.
	url := strings.TrimSpace(string(responseBody))
	if url == "" {
		return "", providers.NewNetworkError("EMPTY_BODY", "upload response missing URL", nil)
	}

	logging.UploadComplete(filename, url, duration)

	return url, nil
}

// logProviderError logs provider errors with context
func (p *Provider) logProviderError(operation string, err error, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["provider"] = "anonhost"
	logging.ErrorContext(operation, err, fields)
}
