package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/repoaudit/repoaudit/pkg/audit"
)

// JobResult is one observation of a job's state from the backend.
// While running only Stage is populated; on error only Error; any other
// status carries the full analysis payload inline.
type JobResult struct {
	Status audit.JobStatus
	Stage  string // backend's textual progress, e.g. "Analyzing with AI..."
	Error  string
	Result *audit.AnalysisResult
}

// AnalyzeParams are the optional knobs shared by both submission paths.
type AnalyzeParams struct {
	Token           string
	HostingProvider string
	AIAPIKey        string
	ModelPreference string
}

// analyzeRequest is the wire shape of both analysis submissions. The
// backend distinguishes them by endpoint, not by body shape.
type analyzeRequest struct {
	RepoURL         string `json:"repo_url,omitempty"`
	RepoFullName    string `json:"repo_full_name,omitempty"`
	AccessToken     string `json:"access_token"`
	AutoIssue       bool   `json:"auto_issue"`
	AutoPR          bool   `json:"auto_pr"`
	HostingProvider string `json:"hosting_provider,omitempty"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`
	ModelPreference string `json:"model_preference,omitempty"`
}

type analyzeResponse struct {
	JobID string `json:"job_id"`
}

// Analyze submits a public repository for analysis by clone URL and
// returns the job id.
func (c *Client) Analyze(ctx context.Context, repoURL string, p AnalyzeParams) (string, error) {
	body := analyzeRequest{
		RepoURL:         repoURL,
		AccessToken:     p.Token,
		HostingProvider: p.HostingProvider,
		GeminiAPIKey:    p.AIAPIKey,
		ModelPreference: p.ModelPreference,
	}
	var resp analyzeResponse
	if err := c.postJSON(ctx, "/api/analyze", body, &resp); err != nil {
		return "", err
	}
	return resp.JobID, nil
}

// AnalyzeRepo submits one of the user's own repositories by full name
// ("owner/name") and returns the job id.
func (c *Client) AnalyzeRepo(ctx context.Context, fullName string, p AnalyzeParams) (string, error) {
	body := analyzeRequest{
		RepoFullName:    fullName,
		AccessToken:     p.Token,
		HostingProvider: p.HostingProvider,
		GeminiAPIKey:    p.AIAPIKey,
		ModelPreference: p.ModelPreference,
	}
	var resp analyzeResponse
	if err := c.postJSON(ctx, "/api/analyze-repo", body, &resp); err != nil {
		return "", err
	}
	return resp.JobID, nil
}

// Results fetches the current state of a job. The response envelope is
// keyed on the status field: a running or error payload carries only
// stage/error text, while a completed payload carries the analysis
// result fields inline next to the status.
func (c *Client) Results(ctx context.Context, jobID string) (*JobResult, error) {
	path := "/api/results/" + url.PathEscape(jobID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: fetching job %s: %w", jobID, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api: reading response: %w", err)
	}
	if err := checkResponse(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var envelope struct {
		Status   audit.JobStatus `json:"status"`
		Progress string          `json:"progress"`
		Error    string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("api: decoding job status: %w", err)
	}

	jr := &JobResult{Status: envelope.Status}
	switch envelope.Status {
	case audit.JobRunning:
		jr.Stage = envelope.Progress
	case audit.JobError:
		jr.Error = envelope.Error
	default:
		var result audit.AnalysisResult
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("api: decoding analysis result: %w", err)
		}
		jr.Result = &result
	}
	return jr, nil
}
