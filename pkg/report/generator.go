// Package report renders completed analysis results for the terminal,
// JSON consumers and markdown (PR descriptions, docs).
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/repoaudit/repoaudit/pkg/audit"
	"github.com/repoaudit/repoaudit/pkg/stats"
)

// severityOrder defines the sort priority for issues (high first).
var severityOrder = map[audit.Severity]int{
	audit.SeverityHigh:   0,
	audit.SeverityMedium: 1,
	audit.SeverityLow:    2,
}

// Summary is the rendered view of one completed job.
type Summary struct {
	JobID     string                `json:"job_id"`
	Timestamp time.Time             `json:"timestamp"`
	Result    *audit.AnalysisResult `json:"result"`
	Stats     stats.DerivedStats    `json:"stats"`
	Headline  string                `json:"headline"`
}

// Generator builds summaries from analysis results.
type Generator struct{}

// NewGenerator creates a report generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate produces a Summary for a completed job. Issues and file
// suggestions are sorted severity-first for display; the sort works on
// copies, the result itself is never reordered.
func (g *Generator) Generate(jobID string, result *audit.AnalysisResult) *Summary {
	derived := stats.Compute(result)

	display := *result
	display.Issues = sortedIssues(result.Issues)
	display.FileSuggestions = sortedSuggestions(result.FileSuggestions)

	return &Summary{
		JobID:     jobID,
		Timestamp: time.Now(),
		Result:    &display,
		Stats:     derived,
		Headline:  buildHeadline(result, derived),
	}
}

// sortedIssues returns a copy ordered high severity first, then by file.
func sortedIssues(issues []audit.Issue) []audit.Issue {
	sorted := make([]audit.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi := severityOrder[sorted[i].Severity]
		oj := severityOrder[sorted[j].Severity]
		if oi != oj {
			return oi < oj
		}
		return sorted[i].File < sorted[j].File
	})
	return sorted
}

// sortedSuggestions returns a copy ordered high priority first.
func sortedSuggestions(suggestions []audit.FileSuggestion) []audit.FileSuggestion {
	sorted := make([]audit.FileSuggestion, len(suggestions))
	copy(sorted, suggestions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return severityOrder[sorted[i].Priority] < severityOrder[sorted[j].Priority]
	})
	return sorted
}

// buildHeadline creates a one-line summary of the analysis.
func buildHeadline(result *audit.AnalysisResult, s stats.DerivedStats) string {
	repo := result.Owner + "/" + result.Repo
	if s.TotalIssues == 0 && s.TotalEnhancements == 0 {
		return fmt.Sprintf("%s — no issues found in %d files", repo, s.TotalFiles)
	}

	var parts []string
	if s.TotalIssues > 0 {
		parts = append(parts, fmt.Sprintf("%d issues (%s)", s.TotalIssues, formatSeverityCounts(s.IssuesBySeverity)))
	}
	if s.TotalEnhancements > 0 {
		parts = append(parts, fmt.Sprintf("%d enhancements", s.TotalEnhancements))
	}
	return fmt.Sprintf("%s — %s across %d files", repo, strings.Join(parts, ", "), s.TotalFiles)
}

// formatSeverityCounts produces a summary like "2 high, 1 low".
func formatSeverityCounts(c stats.SeverityCounts) string {
	var parts []string
	if c.High > 0 {
		parts = append(parts, fmt.Sprintf("%d high", c.High))
	}
	if c.Medium > 0 {
		parts = append(parts, fmt.Sprintf("%d medium", c.Medium))
	}
	if c.Low > 0 {
		parts = append(parts, fmt.Sprintf("%d low", c.Low))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
