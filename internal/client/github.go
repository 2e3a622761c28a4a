package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// RepositoryCreate links a GitHub repository to a project.
type RepositoryCreate struct {
	ProjectID int64  `json:"project_id"`
	Owner     string `json:"owner"`
	Name      string `json:"name"`
}

// ListRepositories returns the repositories linked to the user's projects.
func (c *Client) ListRepositories(ctx context.Context, projectID int64) ([]Repository, error) {
	path := "/github/"
	if projectID > 0 {
		path = fmt.Sprintf("/github/project/%d", projectID)
	}
	var out []Repository
	if err := c.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRepository fetches one linked repository.
func (c *Client) GetRepository(ctx context.Context, id int64) (*Repository, error) {
	var out Repository
	if err := c.Get(ctx, fmt.Sprintf("/github/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LinkRepository registers a repository against a project.
func (c *Client) LinkRepository(ctx context.Context, in RepositoryCreate) (*Repository, error) {
	var out Repository
	if err := c.Post(ctx, "/github/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnlinkRepository removes the link; the GitHub repository itself is untouched.
func (c *Client) UnlinkRepository(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/github/%d", id))
}

// SyncRepository triggers a server-side pull of repository metadata and commits.
func (c *Client) SyncRepository(ctx context.Context, id int64) (*Repository, error) {
	var out Repository
	if err := c.Post(ctx, fmt.Sprintf("/github/%d/sync", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RepositoryCommits lists synced commits, newest first.
func (c *Client) RepositoryCommits(ctx context.Context, id int64, limit int) ([]Commit, error) {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	var out []Commit
	if err := c.Get(ctx, fmt.Sprintf("/github/%d/commits", id), values, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RepositoryStats returns commit and language statistics.
func (c *Client) RepositoryStats(ctx context.Context, id int64) (*RepositoryStats, error) {
	var out RepositoryStats
	if err := c.Get(ctx, fmt.Sprintf("/github/%d/stats", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
