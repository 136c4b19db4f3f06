package stats

import (
	"reflect"
	"testing"

	"github.com/repoaudit/repoaudit/pkg/audit"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		result *audit.AnalysisResult
		want   DerivedStats
	}{
		{
			name:   "nil result",
			result: nil,
			want:   DerivedStats{},
		},
		{
			name:   "empty result",
			result: &audit.AnalysisResult{},
			want:   DerivedStats{},
		},
		{
			name: "mixed severities",
			result: &audit.AnalysisResult{
				Issues: []audit.Issue{
					{Title: "SQL injection", Severity: audit.SeverityHigh},
					{Title: "Hardcoded secret", Severity: audit.SeverityHigh},
					{Title: "Unused import", Severity: audit.SeverityLow},
				},
			},
			want: DerivedStats{
				IssuesBySeverity: SeverityCounts{High: 2, Low: 1},
				TotalIssues:      3,
			},
		},
		{
			name: "unknown severity still counts toward total",
			result: &audit.AnalysisResult{
				Issues: []audit.Issue{
					{Title: "odd one", Severity: "critical"},
					{Title: "normal", Severity: audit.SeverityMedium},
				},
			},
			want: DerivedStats{
				IssuesBySeverity: SeverityCounts{Medium: 1},
				TotalIssues:      2,
			},
		},
		{
			name: "enhancements by type",
			result: &audit.AnalysisResult{
				Enhancements: []audit.Enhancement{
					{Type: audit.EnhancementPerformance},
					{Type: audit.EnhancementPerformance},
					{Type: audit.EnhancementSecurity},
					{Type: audit.EnhancementMaintainability},
				},
			},
			want: DerivedStats{
				EnhancementsByType: EnhancementCounts{Performance: 2, Security: 1, Maintainability: 1},
				TotalEnhancements:  4,
			},
		},
		{
			name: "files and lines",
			result: &audit.AnalysisResult{
				Files: []audit.RepoFile{
					{Path: "main.go", Size: 2048},
					{Path: "util.go", Size: 512},
				},
				TotalLines: 150,
				FileSuggestions: []audit.FileSuggestion{
					{File: "main.go", Priority: audit.SeverityHigh},
					{File: "util.go", Priority: audit.SeverityLow},
				},
			},
			want: DerivedStats{
				FilesByPriority: SeverityCounts{High: 1, Low: 1},
				TotalFiles:      2,
				AnalyzedLines:   150,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.result)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Compute() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	result := &audit.AnalysisResult{
		Owner: "octocat",
		Repo:  "hello-world",
		Issues: []audit.Issue{
			{Title: "Race condition", Severity: audit.SeverityHigh},
		},
		Enhancements: []audit.Enhancement{
			{Title: "Cache lookups", Type: audit.EnhancementPerformance},
		},
		TotalLines: 42,
	}

	before := *result
	beforeIssues := append([]audit.Issue(nil), result.Issues...)

	Compute(result)

	if !reflect.DeepEqual(*result, before) {
		t.Error("Compute mutated the result struct")
	}
	if !reflect.DeepEqual(result.Issues, beforeIssues) {
		t.Error("Compute mutated the issues slice")
	}
}
