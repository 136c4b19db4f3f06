package actions

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/repoaudit/repoaudit/pkg/api"
	"github.com/repoaudit/repoaudit/pkg/audit"
)

var testSession = audit.Session{Token: "gho_token", User: "octocat"}

func TestPRPreconditions(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	d := NewDispatcher(api.New(server.URL))
	withPatch := &audit.AnalysisResult{Patch: "diff --git a/main.go b/main.go"}

	tests := []struct {
		name    string
		call    func() (string, error)
		wantErr error
	}{
		{
			name: "fix PR without credential",
			call: func() (string, error) {
				return d.CreateFixPR(context.Background(), audit.Session{}, "job-1", withPatch)
			},
			wantErr: ErrNotAuthenticated,
		},
		{
			name: "fix PR without patch",
			call: func() (string, error) {
				return d.CreateFixPR(context.Background(), testSession, "job-1", &audit.AnalysisResult{})
			},
			wantErr: ErrNoPatch,
		},
		{
			name: "fix PR with nil result",
			call: func() (string, error) {
				return d.CreateFixPR(context.Background(), testSession, "job-1", nil)
			},
			wantErr: ErrNoPatch,
		},
		{
			name: "enhancement PR without enhancement patch",
			call: func() (string, error) {
				return d.CreateEnhancementPR(context.Background(), testSession, "job-1", withPatch)
			},
			wantErr: ErrNoEnhancementPatch,
		},
		{
			name: "deployment PR without deployment patch",
			call: func() (string, error) {
				return d.CreateDeploymentPR(context.Background(), testSession, "job-1", withPatch)
			},
			wantErr: ErrNoDeploymentPatch,
		},
		{
			name: "issue without title",
			call: func() (string, error) {
				return d.CreateIssue(context.Background(), testSession, "job-1", "", "body")
			},
			wantErr: ErrNoIssueTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if n := atomic.LoadInt32(&requests); n != 0 {
		t.Errorf("precondition failures must not reach the network, saw %d requests", n)
	}
}

func TestCreateFixPR(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pr" {
			t.Errorf("expected path /api/pr, got %q", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body["job_id"] != "job-1" || body["access_token"] != "gho_token" {
			t.Errorf("unexpected request body: %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"pr_url": "https://github.com/octocat/hello/pull/7"})
	}))
	defer server.Close()

	d := NewDispatcher(api.New(server.URL))
	result := &audit.AnalysisResult{Patch: "diff --git a/main.go b/main.go"}

	url, err := d.CreateFixPR(context.Background(), testSession, "job-1", result)
	if err != nil {
		t.Fatalf("CreateFixPR() error = %v", err)
	}
	if url != "https://github.com/octocat/hello/pull/7" {
		t.Errorf("unexpected PR url: %q", url)
	}

	state := d.State(OpFixPR)
	if state.Phase != PhaseSucceeded || state.URL != url {
		t.Errorf("unexpected state after success: %+v", state)
	}
}

func TestOperationsAreIndependent(t *testing.T) {
	// The fix PR handler blocks until released; the enhancement PR
	// handler answers immediately. A second fix PR must be rejected
	// while the first is in flight, but the enhancement PR proceeds.
	entered := make(chan struct{})
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/pr":
			close(entered)
			<-release
			_ = json.NewEncoder(w).Encode(map[string]string{"pr_url": "https://example.com/pull/1"})
		case "/api/pr-enhancements":
			_ = json.NewEncoder(w).Encode(map[string]string{"pr_url": "https://example.com/pull/2"})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	d := NewDispatcher(api.New(server.URL))
	result := &audit.AnalysisResult{
		Patch:            "fix patch",
		EnhancementPatch: "enhancement patch",
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := d.CreateFixPR(context.Background(), testSession, "job-1", result)
		firstDone <- err
	}()
	<-entered

	if got := d.State(OpFixPR).Phase; got != PhaseInFlight {
		t.Errorf("expected fix PR in flight, got %s", got)
	}

	if _, err := d.CreateFixPR(context.Background(), testSession, "job-1", result); !errors.Is(err, ErrOperationInFlight) {
		t.Errorf("concurrent re-trigger: error = %v, want ErrOperationInFlight", err)
	}

	url, err := d.CreateEnhancementPR(context.Background(), testSession, "job-1", result)
	if err != nil {
		t.Fatalf("enhancement PR must not be blocked by the fix PR: %v", err)
	}
	if url != "https://example.com/pull/2" {
		t.Errorf("unexpected enhancement PR url: %q", url)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first fix PR failed: %v", err)
	}
}

func TestDispatchFailureIsRecorded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail": "GitHub rejected the pull request"}`))
	}))
	defer server.Close()

	d := NewDispatcher(api.New(server.URL))
	result := &audit.AnalysisResult{Patch: "patch"}

	_, err := d.CreateFixPR(context.Background(), testSession, "job-1", result)
	if err == nil {
		t.Fatal("expected an error")
	}

	state := d.State(OpFixPR)
	if state.Phase != PhaseFailed || state.Err == nil {
		t.Errorf("unexpected state after failure: %+v", state)
	}

	// A failed operation may be triggered again.
	if err := d.begin(OpFixPR); err != nil {
		t.Errorf("retrigger after failure: %v", err)
	}
}

func TestDownloadReport(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake report body")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/download-report/job-9" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"pdf":      hex.EncodeToString(pdf),
			"filename": "audit_report_hello-world.pdf",
		})
	}))
	defer server.Close()

	d := NewDispatcher(api.New(server.URL))
	dir := t.TempDir()

	path, err := d.DownloadReport(context.Background(), "job-9", dir)
	if err != nil {
		t.Fatalf("DownloadReport() error = %v", err)
	}
	if filepath.Base(path) != "audit_report_hello-world.pdf" {
		t.Errorf("unexpected filename: %q", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if string(got) != string(pdf) {
		t.Errorf("report bytes do not round-trip")
	}
}

func TestDownloadReportSanitizesFilename(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"pdf":      hex.EncodeToString([]byte("pdf")),
			"filename": "../../etc/report.pdf",
		})
	}))
	defer server.Close()

	d := NewDispatcher(api.New(server.URL))
	dir := t.TempDir()

	path, err := d.DownloadReport(context.Background(), "job-10", dir)
	if err != nil {
		t.Fatalf("DownloadReport() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("report escaped the target directory: %q", path)
	}
	if filepath.Base(path) != "report.pdf" {
		t.Errorf("unexpected filename: %q", path)
	}
}

func TestDownloadReportBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"pdf":      "not hex at all",
			"filename": "report.pdf",
		})
	}))
	defer server.Close()

	d := NewDispatcher(api.New(server.URL))

	_, err := d.DownloadReport(context.Background(), "job-11", t.TempDir())
	if err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
	if d.State(OpReport).Phase != PhaseFailed {
		t.Errorf("expected failed state, got %+v", d.State(OpReport))
	}
}
