// Package museum is a minimal ChartMuseum API client for pushing charts and
// checking server health.
package museum

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
)

const (
	healthPath = "/health"
	chartsPath = "/api/charts"

	// Multipart field names the chart server reads uploads from.
	chartFormField = "chart"
	provFormField  = "prov"
)

// Client talks to one ChartMuseum instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the chart server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Health checks the chart server's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chart server unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chart server unhealthy (status %d)", resp.StatusCode)
	}
	return nil
}

// Upload pushes a packaged chart, and optionally its provenance file, to the
// chart API in a single multipart request.
func (c *Client) Upload(ctx context.Context, chartPath, provPath string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := addFormFile(writer, chartFormField, chartPath); err != nil {
		return err
	}
	if provPath != "" {
		if err := addFormFile(writer, provFormField, provPath); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chartsPath, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, apiErrorMessage(resp.Body))
	}
	return nil
}

func addFormFile(writer *multipart.Writer, field, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// apiErrorMessage extracts the server's error message from a failed response.
func apiErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "no error detail"
	}

	var apiError struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &apiError); err == nil && apiError.Error != "" {
		return apiError.Error
	}
	return string(data)
}
