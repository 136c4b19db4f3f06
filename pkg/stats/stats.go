// Package stats computes display summaries from analysis results.
package stats

import "github.com/repoaudit/repoaudit/pkg/audit"

// SeverityCounts partitions items by severity.
type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// EnhancementCounts partitions enhancements by type.
type EnhancementCounts struct {
	Performance     int `json:"performance"`
	Security        int `json:"security"`
	Maintainability int `json:"maintainability"`
}

// DerivedStats is a pure function of one AnalysisResult. It is
// recomputed on demand and never persisted.
type DerivedStats struct {
	IssuesBySeverity   SeverityCounts    `json:"issues_by_severity"`
	EnhancementsByType EnhancementCounts `json:"enhancements_by_type"`
	FilesByPriority    SeverityCounts    `json:"files_by_priority"`
	TotalIssues        int               `json:"total_issues"`
	TotalEnhancements  int               `json:"total_enhancements"`
	TotalFiles         int               `json:"total_files"`
	AnalyzedLines      int               `json:"analyzed_lines"`
}

// Compute derives summary counts from a result. It is total over any
// well-formed result: a nil result or absent slices yield all-zero
// counts, and the input is never mutated. Unknown category values fall
// outside the fixed buckets but still count toward the totals.
func Compute(result *audit.AnalysisResult) DerivedStats {
	var s DerivedStats
	if result == nil {
		return s
	}

	for _, issue := range result.Issues {
		s.TotalIssues++
		countSeverity(&s.IssuesBySeverity, issue.Severity)
	}

	for _, e := range result.Enhancements {
		s.TotalEnhancements++
		switch e.Type {
		case audit.EnhancementPerformance:
			s.EnhancementsByType.Performance++
		case audit.EnhancementSecurity:
			s.EnhancementsByType.Security++
		case audit.EnhancementMaintainability:
			s.EnhancementsByType.Maintainability++
		}
	}

	for _, fs := range result.FileSuggestions {
		countSeverity(&s.FilesByPriority, fs.Priority)
	}

	s.TotalFiles = len(result.Files)
	s.AnalyzedLines = result.TotalLines

	return s
}

func countSeverity(c *SeverityCounts, sev audit.Severity) {
	switch sev {
	case audit.SeverityHigh:
		c.High++
	case audit.SeverityMedium:
		c.Medium++
	case audit.SeverityLow:
		c.Low++
	}
}
