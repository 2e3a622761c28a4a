package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gosimple/slug"
)

// ProjectCreate is the payload for creating a project. A missing slug
// is derived from the title.
type ProjectCreate struct {
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Content     map[string]any `json:"content,omitempty"`
	TechStack   []string       `json:"tech_stack,omitempty"`
	Categories  []string       `json:"categories,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Status      string         `json:"status,omitempty"`
	Visibility  string         `json:"visibility,omitempty"`
	Featured    bool           `json:"featured,omitempty"`
}

// ProjectUpdate is a partial update; nil fields are left unchanged.
type ProjectUpdate struct {
	Slug        *string         `json:"slug,omitempty"`
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Content     *map[string]any `json:"content,omitempty"`
	TechStack   *[]string       `json:"tech_stack,omitempty"`
	Categories  *[]string       `json:"categories,omitempty"`
	Tags        *[]string       `json:"tags,omitempty"`
	Status      *string         `json:"status,omitempty"`
	Visibility  *string         `json:"visibility,omitempty"`
	Featured    *bool           `json:"featured,omitempty"`
}

// ProjectFilter narrows and pages the project listing.
type ProjectFilter struct {
	OwnerID    int64
	Status     string
	Visibility string
	Featured   *bool
	TechStack  []string
	Categories []string
	Tags       []string
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

func (f *ProjectFilter) query() url.Values {
	q := url.Values{}
	if f == nil {
		return q
	}
	if f.OwnerID > 0 {
		q.Set("owner_id", strconv.FormatInt(f.OwnerID, 10))
	}
	setNonEmpty(q, "status", f.Status)
	setNonEmpty(q, "visibility", f.Visibility)
	if f.Featured != nil {
		q.Set("featured", strconv.FormatBool(*f.Featured))
	}
	addAll(q, "tech_stack", f.TechStack)
	addAll(q, "categories", f.Categories)
	addAll(q, "tags", f.Tags)
	setNonEmpty(q, "search", f.Search)
	setNonEmpty(q, "sort_by", f.SortBy)
	setNonEmpty(q, "sort_order", f.SortOrder)
	setPage(q, f.Page, f.PageSize)
	return q
}

// CreateProject creates a project owned by the current user.
func (c *Client) CreateProject(ctx context.Context, in ProjectCreate) (*Project, error) {
	if in.Slug == "" {
		in.Slug = slug.Make(in.Title)
	}
	var out Project
	if err := c.Post(ctx, "/projects/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProject fetches a project by id.
func (c *Client) GetProject(ctx context.Context, id int64) (*Project, error) {
	var out Project
	if err := c.Get(ctx, fmt.Sprintf("/projects/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProjectBySlug fetches a project by owner and URL slug.
func (c *Client) GetProjectBySlug(ctx context.Context, ownerID int64, projectSlug string) (*Project, error) {
	var out Project
	path := fmt.Sprintf("/projects/slug/%d/%s", ownerID, url.PathEscape(projectSlug))
	if err := c.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProjects returns a filtered, paged project listing.
func (c *Client) ListProjects(ctx context.Context, filter *ProjectFilter) (*ProjectList, error) {
	var out ProjectList
	if err := c.Get(ctx, "/projects/", filter.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProject applies a partial update.
func (c *Client) UpdateProject(ctx context.Context, id int64, in ProjectUpdate) (*Project, error) {
	var out Project
	if err := c.Put(ctx, fmt.Sprintf("/projects/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProject removes a project and its notes.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/projects/%d", id))
}

// ProjectStats returns per-status and per-visibility counters.
func (c *Client) ProjectStats(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.Get(ctx, "/projects/stats/overview", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordProjectView increments a project's view counter.
func (c *Client) RecordProjectView(ctx context.Context, id int64) error {
	return c.Post(ctx, fmt.Sprintf("/projects/%d/views", id), nil, nil)
}

func setNonEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func addAll(q url.Values, key string, values []string) {
	for _, v := range values {
		if v != "" {
			q.Add(key, v)
		}
	}
}

func setPage(q url.Values, page, pageSize int) {
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
}
