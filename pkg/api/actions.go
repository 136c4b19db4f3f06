package api

import (
	"context"
	"net/url"
)

// IssueParams describes a tracking issue to open on the analyzed repo.
type IssueParams struct {
	JobID string
	Title string
	Body  string
	Token string
}

type issueRequest struct {
	JobID       string `json:"job_id"`
	IssueTitle  string `json:"issue_title"`
	IssueBody   string `json:"issue_body"`
	AccessToken string `json:"access_token"`
}

// CreateIssue asks the backend to open a tracking issue and returns its URL.
func (c *Client) CreateIssue(ctx context.Context, p IssueParams) (string, error) {
	body := issueRequest{
		JobID:       p.JobID,
		IssueTitle:  p.Title,
		IssueBody:   p.Body,
		AccessToken: p.Token,
	}
	var resp struct {
		IssueURL string `json:"issue_url"`
	}
	if err := c.postJSON(ctx, "/api/issue", body, &resp); err != nil {
		return "", err
	}
	return resp.IssueURL, nil
}

type prRequest struct {
	JobID       string `json:"job_id"`
	AccessToken string `json:"access_token"`
}

func (c *Client) createPR(ctx context.Context, path, jobID, token string) (string, error) {
	var resp struct {
		PRURL string `json:"pr_url"`
	}
	if err := c.postJSON(ctx, path, prRequest{JobID: jobID, AccessToken: token}, &resp); err != nil {
		return "", err
	}
	return resp.PRURL, nil
}

// CreateFixPR opens a pull request applying the job's fix patch.
func (c *Client) CreateFixPR(ctx context.Context, jobID, token string) (string, error) {
	return c.createPR(ctx, "/api/pr", jobID, token)
}

// CreateEnhancementPR opens a pull request with enhancement suggestions.
func (c *Client) CreateEnhancementPR(ctx context.Context, jobID, token string) (string, error) {
	return c.createPR(ctx, "/api/pr-enhancements", jobID, token)
}

// CreateDeploymentPR opens a pull request adding deployment configuration.
func (c *Client) CreateDeploymentPR(ctx context.Context, jobID, token string) (string, error) {
	return c.createPR(ctx, "/api/pr-deployment", jobID, token)
}

// Report is the downloadable PDF report payload. PDFHex carries the
// document as a hex-encoded string.
type Report struct {
	PDFHex   string `json:"pdf"`
	Filename string `json:"filename"`
}

// DownloadReport fetches the PDF audit report for a completed job.
func (c *Client) DownloadReport(ctx context.Context, jobID string) (*Report, error) {
	var resp Report
	if err := c.postJSON(ctx, "/api/download-report/"+url.PathEscape(jobID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
