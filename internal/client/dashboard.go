package client

import (
	"context"
	"net/url"
	"strconv"
)

// DashboardStats returns the headline counters for the current user.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.Get(ctx, "/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentActivities returns the activity timeline, newest first.
func (c *Client) RecentActivities(ctx context.Context, limit int) (*ActivityTimeline, error) {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	var out ActivityTimeline
	if err := c.Get(ctx, "/dashboard/activities", values, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PopularProjects returns the most viewed projects.
func (c *Client) PopularProjects(ctx context.Context, limit int) ([]Project, error) {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Projects []Project `json:"projects"`
	}
	if err := c.Get(ctx, "/dashboard/projects/popular", values, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// TechStackBreakdown returns project counts per technology.
func (c *Client) TechStackBreakdown(ctx context.Context) ([]BreakdownItem, error) {
	return c.breakdown(ctx, "/dashboard/stats/tech-stack")
}

// CategoryBreakdown returns project counts per category.
func (c *Client) CategoryBreakdown(ctx context.Context) ([]BreakdownItem, error) {
	return c.breakdown(ctx, "/dashboard/stats/categories")
}

// NoteTypeBreakdown returns note counts per note type.
func (c *Client) NoteTypeBreakdown(ctx context.Context) ([]BreakdownItem, error) {
	return c.breakdown(ctx, "/dashboard/notes/stats")
}

func (c *Client) breakdown(ctx context.Context, path string) ([]BreakdownItem, error) {
	var out struct {
		Items []BreakdownItem `json:"items"`
	}
	if err := c.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
