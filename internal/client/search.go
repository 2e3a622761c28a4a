package client

import (
	"context"
	"net/url"
	"strconv"
)

// SearchOptions tunes a search query. ContentTypes limits the global
// search to a subset of "project", "note", and "user".
type SearchOptions struct {
	Categories   []string
	ContentTypes []string
	Limit        int
	Offset       int
}

func searchQuery(q string, opts *SearchOptions) url.Values {
	values := url.Values{}
	values.Set("q", q)
	if opts == nil {
		return values
	}
	addAll(values, "categories", opts.Categories)
	addAll(values, "content_types", opts.ContentTypes)
	if opts.Limit > 0 {
		values.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		values.Set("offset", strconv.Itoa(opts.Offset))
	}
	return values
}

// Search runs a global search across projects, notes, and users.
func (c *Client) Search(ctx context.Context, q string, opts *SearchOptions) (*SearchResults, error) {
	var out SearchResults
	if err := c.Get(ctx, "/search/", searchQuery(q, opts), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchProjects searches projects only.
func (c *Client) SearchProjects(ctx context.Context, q string, opts *SearchOptions) (*SearchResults, error) {
	var out SearchResults
	if err := c.Get(ctx, "/search/projects", searchQuery(q, opts), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchNotes searches notes only.
func (c *Client) SearchNotes(ctx context.Context, q string, opts *SearchOptions) (*SearchResults, error) {
	var out SearchResults
	if err := c.Get(ctx, "/search/notes", searchQuery(q, opts), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers searches users only.
func (c *Client) SearchUsers(ctx context.Context, q string, opts *SearchOptions) (*SearchResults, error) {
	var out SearchResults
	if err := c.Get(ctx, "/search/users", searchQuery(q, opts), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Autocomplete suggests completions for a query prefix.
func (c *Client) Autocomplete(ctx context.Context, q string) (*Autocomplete, error) {
	values := url.Values{}
	values.Set("q", q)
	var out Autocomplete
	if err := c.Get(ctx, "/search/autocomplete", values, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PopularSearches lists the most frequent recent queries.
func (c *Client) PopularSearches(ctx context.Context, limit int) (*PopularSearches, error) {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	var out PopularSearches
	if err := c.Get(ctx, "/search/popular", values, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
