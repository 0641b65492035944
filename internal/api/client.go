package api

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

	"github.com/tenderfit/tenderctl/internal/logger"
	"github.com/tenderfit/tenderctl/internal/pipeline"
	tenderrors "github.com/tenderfit/tenderctl/pkg/errors"
)

// Client submits jobs to the TenderFit server and retrieves artifacts. It
// covers every endpoint except the per-job event stream, which has its own
// adapter because streams outlive the request timeout used here.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// New creates a Client for the given base URL. The timeout bounds individual
// submission and file requests only.
func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// BaseURL returns the server base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ScanParams is the submission payload for a discovery job.
type ScanParams struct {
	Keywords         string `json:"keywords"`
	Days             int    `json:"days"`
	Top              int    `json:"top"`
	MaxPages         int    `json:"max_pages"`
	LLMFilter        bool   `json:"llm_filter"`
	LLMMaxCandidates int    `json:"llm_max_candidates"`
	LLMBatchSize     int    `json:"llm_batch_size"`
	ForceRefresh     bool   `json:"force_refresh"`
}

// FetchParams is the submission payload for a per-bid document fetch job.
type FetchParams struct {
	BidID    string `json:"bid_id"`
	CacheDir string `json:"cache_dir,omitempty"`
}

// EvaluateParams is the submission payload for a per-bid evaluation job.
type EvaluateParams struct {
	BidID       string `json:"bid_id"`
	CompanyPath string `json:"company_path"`
}

// ShortlistParams is the submission payload for the ranking job.
type ShortlistParams struct {
	CompanyPath string `json:"company_path"`
	Top         int    `json:"top"`
}

// Health probes the server before a run starts.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server health check returned %d", resp.StatusCode)
	}
	return nil
}

// SubmitScan starts a discovery job and returns its job id.
func (c *Client) SubmitScan(ctx context.Context, params ScanParams) (string, error) {
	return c.submit(ctx, pipeline.JobScan, params)
}

// SubmitFetch starts a document-collection job for one bid.
func (c *Client) SubmitFetch(ctx context.Context, params FetchParams) (string, error) {
	return c.submit(ctx, pipeline.JobFetch, params)
}

// SubmitEvaluate starts a multi-agent evaluation job for one bid.
func (c *Client) SubmitEvaluate(ctx context.Context, params EvaluateParams) (string, error) {
	return c.submit(ctx, pipeline.JobEvaluate, params)
}

// SubmitShortlist starts the final ranking job.
func (c *Client) SubmitShortlist(ctx context.Context, params ShortlistParams) (string, error) {
	return c.submit(ctx, pipeline.JobShortlist, params)
}

// ReadFile fetches a server-side artifact (report markdown, shortlist CSV)
// through the files endpoint.
func (c *Client) ReadFile(ctx context.Context, path string) (string, error) {
	endpoint := c.baseURL + "/api/files?path=" + url.QueryEscape(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("read file %s: %s", path, errorDetail(body, resp.StatusCode))
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("read file %s: %w", path, err)
	}
	return payload.Content, nil
}

func (c *Client) submit(ctx context.Context, kind pipeline.JobKind, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", tenderrors.NewSubmissionError(string(kind), 0, "", err)
	}

	endpoint := fmt.Sprintf("%s/api/jobs/%s", c.baseURL, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", tenderrors.NewSubmissionError(string(kind), 0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", tenderrors.NewSubmissionError(string(kind), 0, "", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", tenderrors.NewSubmissionError(string(kind), resp.StatusCode, "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", tenderrors.NewSubmissionError(string(kind), resp.StatusCode, errorDetail(respBody, resp.StatusCode), nil)
	}

	var result struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", tenderrors.NewSubmissionError(string(kind), resp.StatusCode, "", err)
	}
	if result.JobID == "" {
		return "", tenderrors.NewSubmissionError(string(kind), resp.StatusCode, "server returned no job_id", nil)
	}

	c.log.WithJob(string(kind), result.JobID).Debug("job submitted")
	return result.JobID, nil
}

// errorDetail extracts the server's {"detail": ...} message, falling back to
// the HTTP status when the body is not in that shape.
func errorDetail(body []byte, status int) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return fmt.Sprintf("status %d", status)
}
