package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"iontrap-job-client/internal/domain"
	"iontrap-job-client/internal/domain/model"
	"iontrap-job-client/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.QuantumBackendAdapter = (*Client)(nil)

const (
	defaultBaseURL = "https://qapi.honeywell.com/v1"
	jobPath        = "job"
	language       = "OPENQASM 2.0"
	priority       = "normal"
	apiHeaderKey   = "x-api-key"
	userAgent      = "iontrap-job-client/1.0"
)

// Client implements adapter.QuantumBackendAdapter against the vendor's
// job-submission API. The credential is read-only after construction.
type Client struct {
	apiKey string
	base   string // e.g., https://qapi.honeywell.com/v1
	client *http.Client
}

func NewClient(apiKey, base string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: no API key provided", domain.ErrAuthentication)
	}
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type submitRequest struct {
	Machine  string `json:"machine"`
	Language string `json:"language"`
	Priority string `json:"priority"`
	Count    int    `json:"count"`
	Options  any    `json:"options"`
	Program  string `json:"program"`
}

// jobDocument is the vendor's status/submission response. Unknown fields
// are ignored; the schema is the vendor's to evolve.
type jobDocument struct {
	Job          string `json:"job"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error-message"`
	Results      *struct {
		C []string `json:"c"`
	} `json:"results"`
}

func (c *Client) SubmitJob(ctx context.Context, circuit model.Circuit, shots int, machine string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: no API key provided", domain.ErrAuthentication)
	}
	if shots <= 0 {
		return "", fmt.Errorf("%w: shots must be positive, got %d", domain.ErrValidation, shots)
	}
	if machine == "" {
		return "", fmt.Errorf("%w: empty machine name", domain.ErrValidation)
	}

	program, err := ToOpenQASM(circuit)
	if err != nil {
		return "", err
	}

	body := submitRequest{
		Machine:  machine,
		Language: language,
		Priority: priority,
		Count:    shots,
		Options:  nil,
		Program:  program,
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+jobPath, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", c.statusError(resp)
	}

	var doc jobDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("%w: decoding submission response: %v", domain.ErrTransport, err)
	}
	if doc.Job == "" {
		return "", fmt.Errorf("%w: submission response carried no job handle", domain.ErrTransport)
	}
	return doc.Job, nil
}

func (c *Client) JobStatus(ctx context.Context, handle string) (adapter.JobSnapshot, error) {
	if handle == "" {
		return adapter.JobSnapshot{}, fmt.Errorf("%w: empty job handle", domain.ErrValidation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+jobPath+"/"+handle, nil)
	if err != nil {
		return adapter.JobSnapshot{}, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return adapter.JobSnapshot{}, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return adapter.JobSnapshot{}, c.statusError(resp)
	}

	var doc jobDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return adapter.JobSnapshot{}, fmt.Errorf("%w: decoding status response: %v", domain.ErrTransport, err)
	}

	snap := adapter.JobSnapshot{
		Handle: handle,
		Status: model.JobStatus(doc.Status),
		Reason: doc.ErrorMessage,
	}
	if doc.Results != nil && len(doc.Results.C) > 0 {
		snap.Result = &model.ResultPayload{Bitstrings: doc.Results.C}
	}
	return snap, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(apiHeaderKey, c.apiKey)
}

// statusError maps HTTP status codes onto the domain taxonomy. The first
// kilobyte of the body is kept for diagnostics.
func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: http %d: %s", domain.ErrAuthentication, resp.StatusCode, detail)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: http %d: %s", domain.ErrValidation, resp.StatusCode, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: http %d: %s", domain.ErrNotFound, resp.StatusCode, detail)
	default:
		return fmt.Errorf("%w: http %d: %s", domain.ErrTransport, resp.StatusCode, detail)
	}
}
