package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dgallion1/flowguide/internal/flowchart"
)

// ErrFetchFailure matches every FetchError via errors.Is.
var ErrFetchFailure = errors.New("flowchart fetch failed")

// FetchError reports that a data source could not be retrieved or answered
// with a non-success status.
type FetchError struct {
	Locator string
	Status  int    // HTTP status, 0 for transport and file errors
	Body    string // first bytes of an error response, for diagnostics
	Err     error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("fetch %s: status %d: %s", e.Locator, e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v", e.Locator, e.Err)
	}
	return "fetch " + e.Locator + ": failed"
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailure }

// Fetcher retrieves flowchart documents from http(s) URLs or local files.
// Each call is a single attempt; there is no retry.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
}

// NewFetcher creates a Fetcher with the given per-request timeout and body
// size limit.
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBytes: maxBytes,
	}
}

// IsRemote reports whether locator names an http(s) resource.
func IsRemote(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

// Fetch retrieves and decodes the document at locator.
func (f *Fetcher) Fetch(ctx context.Context, locator string) (*flowchart.Document, error) {
	var (
		data        []byte
		contentType string
		err         error
	)
	if IsRemote(locator) {
		data, contentType, err = f.get(ctx, locator)
	} else {
		data, err = f.readFile(strings.TrimPrefix(locator, "file://"))
	}
	if err != nil {
		return nil, err
	}

	doc, err := Decode(data, FormatFor(locator, contentType))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", locator, err)
	}
	return doc, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", &FetchError{Locator: url, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", &FetchError{Locator: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, "", &FetchError{Locator: url, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	data, err := f.readLimited(url, resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &FetchError{Locator: path, Err: err}
	}
	defer file.Close()
	return f.readLimited(path, file)
}

func (f *Fetcher) readLimited(locator string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{Locator: locator, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, &FetchError{Locator: locator, Err: fmt.Errorf("document exceeds max size (%d bytes)", f.maxBytes)}
	}
	return data, nil
}
