// Package audit defines the shared types for all repoaudit modules.
// This package has ZERO dependencies on any other pkg/ package.
// All cross-module communication goes through types defined here.
package audit

import (
	"errors"
	"fmt"
	"strings"
)

// Severity levels for issues and file suggestions.
type Severity string

const (
	SeverityHigh   Severity = "high"   // Must fix
	SeverityMedium Severity = "medium" // Should fix
	SeverityLow    Severity = "low"    // Informational
)

// IssueType classifies what kind of issue the backend found.
type IssueType string

const (
	IssueBug   IssueType = "bug"
	IssueVuln  IssueType = "vuln"
	IssueStyle IssueType = "style"
	IssueInfo  IssueType = "info"
)

// EnhancementType classifies an improvement opportunity.
type EnhancementType string

const (
	EnhancementPerformance     EnhancementType = "performance"
	EnhancementSecurity        EnhancementType = "security"
	EnhancementMaintainability EnhancementType = "maintainability"
)

// Session is the authenticated user's credential snapshot.
// Sessions are replaced wholesale on login and removed on logout,
// never mutated in place.
type Session struct {
	Token     string `json:"token"`
	User      string `json:"user"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Authenticated reports whether the session carries a credential.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// LocatorKind selects which form of repository reference is active.
type LocatorKind string

const (
	// LocatorOwned references a repository from the user's own listing.
	LocatorOwned LocatorKind = "owned"
	// LocatorPublic references any public repository by owner/name.
	LocatorPublic LocatorKind = "public"
)

// ErrEmptyLocator is returned when a locator carries no repository name.
var ErrEmptyLocator = errors.New("audit: no repository selected")

// RepositoryLocator references the repository to analyze. Exactly one
// kind is active per locator.
type RepositoryLocator struct {
	Kind     LocatorKind `json:"kind"`
	FullName string      `json:"full_name"` // "owner/name"
}

// Validate checks that the locator names a repository and carries a
// known kind.
func (l RepositoryLocator) Validate() error {
	if strings.TrimSpace(l.FullName) == "" {
		return ErrEmptyLocator
	}
	switch l.Kind {
	case LocatorOwned, LocatorPublic:
		return nil
	default:
		return fmt.Errorf("audit: unknown locator kind %q", l.Kind)
	}
}

// URL returns the clone URL the backend expects for public-repo analysis.
func (l RepositoryLocator) URL() string {
	return "https://github.com/" + strings.TrimSpace(l.FullName)
}

// DefaultModelPreference matches the backend's default model.
const DefaultModelPreference = "gemini-2.5-flash"

// AnalysisRequest describes one analysis submission.
type AnalysisRequest struct {
	Locator         RepositoryLocator
	HostingProvider string // optional, e.g. "vercel"
	AIAPIKey        string // optional user-supplied LLM key
	ModelPreference string // defaults to DefaultModelPreference
}

// JobStatus is the backend-reported state of an analysis job.
type JobStatus string

const (
	JobRunning JobStatus = "running"
	JobError   JobStatus = "error"
	JobDone    JobStatus = "done"
)

// Terminal reports whether no further transition can occur.
func (s JobStatus) Terminal() bool {
	return s == JobError || s == JobDone
}

// Job is one server-side analysis run. Transitions are forward-only:
// running → error | done.
type Job struct {
	ID     string          `json:"id"`
	Status JobStatus       `json:"status"`
	Error  string          `json:"error,omitempty"`
	Result *AnalysisResult `json:"result,omitempty"`
}

// RepoFile is one scanned file from the analyzed repository.
type RepoFile struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

// Issue is a single problem the backend found.
type Issue struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Type           IssueType `json:"type"`
	Severity       Severity  `json:"severity"`
	File           string    `json:"file"`
	Line           int       `json:"line"`
	Impact         string    `json:"impact,omitempty"`
	Recommendation string    `json:"recommendation,omitempty"`
}

// Enhancement is an improvement opportunity the backend found.
type Enhancement struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        EnhancementType `json:"type"`
	Suggestion  string          `json:"suggestion,omitempty"`
	File        string          `json:"file,omitempty"`
	Line        int             `json:"line,omitempty"`
}

// SuggestedChange is one change proposed for a file.
type SuggestedChange struct {
	Type        string `json:"type"` // "fix" or "enhancement"
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// FileSuggestion groups proposed changes for one file.
type FileSuggestion struct {
	File              string            `json:"file"`
	Priority          Severity          `json:"priority"`
	IssuesCount       int               `json:"issues_count"`
	EnhancementsCount int               `json:"enhancements_count"`
	SuggestedChanges  []SuggestedChange `json:"suggested_changes"`
}

// HostingConfigFile is one deployment configuration file.
type HostingConfigFile struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Content  string `json:"content"`
}

// HostingConfig describes deployment configuration for one provider.
type HostingConfig struct {
	Name            string              `json:"name"`
	Platform        string              `json:"platform,omitempty"`
	ConfigFiles     []HostingConfigFile `json:"config_files,omitempty"`
	EnvVars         map[string]string   `json:"env_vars,omitempty"`
	DeploymentSteps []string            `json:"deployment_steps,omitempty"`
	Suggestions     []string            `json:"suggestions,omitempty"`
}

// AnalysisResult is the payload of a completed job. Immutable once
// received.
type AnalysisResult struct {
	Owner            string           `json:"owner"`
	Repo             string           `json:"repo"`
	Files            []RepoFile       `json:"files"`
	Issues           []Issue          `json:"issues"`
	Enhancements     []Enhancement    `json:"enhancements"`
	FileSuggestions  []FileSuggestion `json:"file_suggestions"`
	Patch            string           `json:"patch,omitempty"`
	EnhancementPatch string           `json:"enhancement_patch,omitempty"`
	DeploymentPatch  string           `json:"deployment_patch,omitempty"`
	HostingConfig    *HostingConfig   `json:"hosting_config,omitempty"`
	TotalLines       int              `json:"total_lines,omitempty"`
	PRURL            string           `json:"pr_url,omitempty"`
	CreatedIssues    []string         `json:"created_issues,omitempty"`
}

// Repo is one entry from the user-repos or search listings.
type Repo struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	URL         string `json:"url"`
	CloneURL    string `json:"clone_url,omitempty"`
	Private     bool   `json:"isPrivate"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars"`
	Owner       string `json:"owner,omitempty"`
	OwnerAvatar string `json:"owner_avatar,omitempty"`
}
