package routestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxFileSize bounds the bytes read for a single route file.
const maxFileSize = 8 << 20

// HTTPStore reads and writes route files on a plain HTTP file host under
// baseURL/prefix. Listing expects a JSON index {"files": [...]} at the
// prefix itself.
type HTTPStore struct {
	baseURL    string
	prefix     string
	token      string
	httpClient *http.Client
}

func NewHTTPStore(baseURL, prefix, token string) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  strings.Trim(prefix, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *HTTPStore) url(name string) string {
	segments := strings.Split(name, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	u := s.baseURL + "/"
	if s.prefix != "" {
		u += s.prefix + "/"
	}
	return u + strings.Join(segments, "/")
}

func (s *HTTPStore) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return req, nil
}

// statusError maps a failed response to an error. 5xx and 429 are retryable.
func statusError(op, name string, resp *http.Response) error {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", op, name, ErrNotFound)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	return fmt.Errorf("%s %s: status %d: %s", op, name, resp.StatusCode, string(respBody))
}

// Fetch retrieves a route file by name.
func (s *HTTPStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	req, err := s.newRequest(ctx, http.MethodGet, s.url(name), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("fetch", name, resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Save stores content under name, replacing any previous version.
func (s *HTTPStore) Save(ctx context.Context, name string, content []byte) error {
	req, err := s.newRequest(ctx, http.MethodPut, s.url(name), bytes.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/yaml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	}
	return statusError("save", name, resp)
}

// Delete removes a route file.
func (s *HTTPStore) Delete(ctx context.Context, name string) error {
	req, err := s.newRequest(ctx, http.MethodDelete, s.url(name), nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError("delete", name, resp)
	}
	return nil
}

// List returns the index published at the prefix.
func (s *HTTPStore) List(ctx context.Context) ([]FileInfo, error) {
	u := s.baseURL + "/"
	if s.prefix != "" {
		u += s.prefix + "/"
	}
	req, err := s.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list", s.prefix, resp)
	}

	var result struct {
		Files []FileInfo `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return result.Files, nil
}

// Close releases idle connections.
func (s *HTTPStore) Close() {
	s.httpClient.CloseIdleConnections()
}
