// Package client talks to a remote form service: it lists descriptors,
// fetches dynamic option lists, and posts submissions.
package client

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

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/submit"
)

// DependentValueParam is the query parameter carrying the dependee field's
// value on option-fetch requests.
const DependentValueParam = "dependentValue"

// Client is a form service HTTP client. It satisfies options.Fetcher.
type Client struct {
	base string
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New returns a Client rooted at baseURL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Forms fetches the full descriptor catalog.
func (c *Client) Forms(ctx context.Context) ([]schema.FormDescriptor, error) {
	var forms []schema.FormDescriptor
	if err := c.getJSON(ctx, "/api/insurance/forms", &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// Form fetches the catalog and returns the descriptor with the given id.
func (c *Client) Form(ctx context.Context, formID string) (schema.FormDescriptor, error) {
	forms, err := c.Forms(ctx)
	if err != nil {
		return schema.FormDescriptor{}, err
	}
	for _, form := range forms {
		if form.FormID == formID {
			return form, nil
		}
	}
	return schema.FormDescriptor{}, fmt.Errorf("client: form %q not found", formID)
}

// FetchOptions resolves a dynamic option list from endpoint. A non-empty
// dependeeValue is appended as the dependentValue query parameter. The
// response may be a bare array of strings or label/value objects, or an
// object wrapping that array under "data".
func (c *Client) FetchOptions(ctx context.Context, endpoint, dependeeValue string) ([]schema.Option, error) {
	target := endpoint
	if dependeeValue != "" {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		target = endpoint + sep + DependentValueParam + "=" + url.QueryEscape(dependeeValue)
	}

	var raw json.RawMessage
	if err := c.getJSON(ctx, target, &raw); err != nil {
		return nil, err
	}
	return decodeOptions(raw)
}

// SubmissionError reports a rejected or failed submission.
type SubmissionError struct {
	Status int
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("client: submission rejected with status %d", e.Status)
	}
	return fmt.Sprintf("client: submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Submit posts the submission envelope to the service.
func (c *Client) Submit(ctx context.Context, sub submit.Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("client: encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve("/api/insurance/forms/submit"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &SubmissionError{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &SubmissionError{Status: resp.StatusCode}
	}
	return nil
}

// Submissions fetches past submission envelopes from the service.
func (c *Client) Submissions(ctx context.Context) ([]submit.Submission, error) {
	var subs []submit.Submission
	if err := c.getJSON(ctx, "/api/insurance/forms/submissions", &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *Client) resolve(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	return c.base + pathOrURL
}

func (c *Client) getJSON(ctx context.Context, pathOrURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(pathOrURL), nil)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: request %s: %w", pathOrURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("client: request %s: unexpected status %d", pathOrURL, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func decodeOptions(raw json.RawMessage) ([]schema.Option, error) {
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		return schema.NormalizeOptionList(list), nil
	}
	var wrapped struct {
		Data []any `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("client: decode options: %w", err)
	}
	return schema.NormalizeOptionList(wrapped.Data), nil
}
