package api

import (
	"context"
	"net/url"

	"github.com/repoaudit/repoaudit/pkg/audit"
)

// UserRepos lists the authenticated user's repositories, sorted by the
// backend most-starred first.
func (c *Client) UserRepos(ctx context.Context, token string) ([]audit.Repo, error) {
	var resp struct {
		Repos []audit.Repo `json:"repos"`
	}
	path := "/api/user/repos?access_token=" + url.QueryEscape(token)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Repos, nil
}

// SearchRepos searches public repositories. The token is optional and
// only raises the backend's GitHub rate limit.
func (c *Client) SearchRepos(ctx context.Context, query, token string) ([]audit.Repo, error) {
	var resp struct {
		Repos []audit.Repo `json:"repos"`
	}
	q := url.Values{"q": {query}}
	if token != "" {
		q.Set("access_token", token)
	}
	if err := c.getJSON(ctx, "/api/github/search?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Repos, nil
}

// CheckPRAccess reports whether the token can open pull requests on the
// given repository.
func (c *Client) CheckPRAccess(ctx context.Context, fullName, token string) (bool, error) {
	q := url.Values{
		"repo_full_name": {fullName},
		"access_token":   {token},
	}
	var resp struct {
		CanCreatePR bool `json:"can_create_pr"`
	}
	if err := c.postJSON(ctx, "/api/check-pr-access?"+q.Encode(), nil, &resp); err != nil {
		return false, err
	}
	return resp.CanCreatePR, nil
}

// HostingProviders lists every hosting provider the backend can generate
// deployment configuration for, keyed by provider id.
func (c *Client) HostingProviders(ctx context.Context) (map[string]audit.HostingConfig, error) {
	var resp map[string]audit.HostingConfig
	if err := c.getJSON(ctx, "/api/hosting/providers", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// HostingProvider fetches one provider's deployment configuration.
func (c *Client) HostingProvider(ctx context.Context, name string) (*audit.HostingConfig, error) {
	var resp audit.HostingConfig
	if err := c.getJSON(ctx, "/api/hosting/provider/"+url.PathEscape(name), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// User is the authenticated GitHub identity behind a token.
type User struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// AuthUser resolves the identity behind an access token.
func (c *Client) AuthUser(ctx context.Context, token string) (*User, error) {
	var resp User
	path := "/auth/user?access_token=" + url.QueryEscape(token)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
