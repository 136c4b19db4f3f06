package report

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/repoaudit/repoaudit/pkg/audit"
)

func sampleResult() *audit.AnalysisResult {
	return &audit.AnalysisResult{
		Owner:      "octocat",
		Repo:       "hello-world",
		TotalLines: 420,
		Files: []audit.RepoFile{
			{Path: "app.py", Size: 9000},
			{Path: "util.py", Size: 3600},
		},
		Issues: []audit.Issue{
			{Title: "Unused import", Severity: audit.SeverityLow, File: "util.py", Line: 3},
			{Title: "SQL injection", Severity: audit.SeverityHigh, File: "app.py", Line: 42},
			{Title: "Broad except clause", Severity: audit.SeverityMedium, File: "app.py", Line: 88},
		},
		Enhancements: []audit.Enhancement{
			{Title: "Cache database lookups", Type: audit.EnhancementPerformance},
		},
		FileSuggestions: []audit.FileSuggestion{
			{File: "util.py", Priority: audit.SeverityLow},
			{File: "app.py", Priority: audit.SeverityHigh},
		},
	}
}

func TestGenerateSortsWithoutMutating(t *testing.T) {
	result := sampleResult()
	originalIssues := append([]audit.Issue(nil), result.Issues...)

	summary := NewGenerator().Generate("job-1", result)

	got := summary.Result.Issues
	if got[0].Severity != audit.SeverityHigh || got[1].Severity != audit.SeverityMedium || got[2].Severity != audit.SeverityLow {
		t.Errorf("issues not sorted high-first: %+v", got)
	}
	if summary.Result.FileSuggestions[0].Priority != audit.SeverityHigh {
		t.Errorf("file suggestions not sorted: %+v", summary.Result.FileSuggestions)
	}

	if !reflect.DeepEqual(result.Issues, originalIssues) {
		t.Error("Generate reordered the caller's result")
	}
}

func TestHeadline(t *testing.T) {
	tests := []struct {
		name   string
		result *audit.AnalysisResult
		want   string
	}{
		{
			name:   "findings",
			result: sampleResult(),
			want:   "octocat/hello-world — 3 issues (1 high, 1 medium, 1 low), 1 enhancements across 2 files",
		},
		{
			name: "clean repo",
			result: &audit.AnalysisResult{
				Owner: "octocat",
				Repo:  "spotless",
				Files: []audit.RepoFile{{Path: "main.go"}},
			},
			want: "octocat/spotless — no issues found in 1 files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := NewGenerator().Generate("job-1", tt.result)
			if summary.Headline != tt.want {
				t.Errorf("headline = %q, want %q", summary.Headline, tt.want)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	summary := NewGenerator().Generate("job-1", sampleResult())

	var buf bytes.Buffer
	if err := NewJSONFormatter().Format(&buf, summary); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.JobID != "job-1" || decoded.Stats.TotalIssues != 3 {
		t.Errorf("unexpected decoded summary: %+v", decoded)
	}
}

func TestTerminalFormatter(t *testing.T) {
	summary := NewGenerator().Generate("job-1", sampleResult())

	var buf bytes.Buffer
	if err := NewTerminalFormatter().Format(&buf, summary); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"octocat/hello-world",
		"SQL injection",
		"Cache database lookups",
		"app.py",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal output missing %q", want)
		}
	}

	// High-severity issues render before low ones.
	if strings.Index(out, "SQL injection") > strings.Index(out, "Unused import") {
		t.Error("issues not rendered in severity order")
	}
}

func TestMarkdownFormatter(t *testing.T) {
	summary := NewGenerator().Generate("job-1", sampleResult())

	var buf bytes.Buffer
	if err := NewMarkdownFormatter().Format(&buf, summary); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "# Audit Report — octocat/hello-world") {
		t.Errorf("unexpected markdown header: %q", firstLine(out))
	}
	for _, want := range []string{
		"| Metric | Value |",
		"SQL injection",
		"3 issues",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
