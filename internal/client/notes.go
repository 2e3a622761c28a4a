package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// NoteCreate is the payload for creating a note under a project.
type NoteCreate struct {
	ProjectID int64  `json:"project_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	NoteType  string `json:"note_type,omitempty"`
	Tags      string `json:"tags,omitempty"`
}

// NoteUpdate is a partial update; nil fields are left unchanged.
type NoteUpdate struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	NoteType *string `json:"note_type,omitempty"`
	Tags     *string `json:"tags,omitempty"`
}

// NoteFilter narrows and pages the note listing.
type NoteFilter struct {
	ProjectID  int64
	NoteType   string
	Tags       []string
	Search     string
	IsPinned   *bool
	IsArchived *bool
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

func (f *NoteFilter) query() url.Values {
	q := url.Values{}
	if f == nil {
		return q
	}
	if f.ProjectID > 0 {
		q.Set("project_id", strconv.FormatInt(f.ProjectID, 10))
	}
	setNonEmpty(q, "type", f.NoteType)
	addAll(q, "tags", f.Tags)
	setNonEmpty(q, "search", f.Search)
	if f.IsPinned != nil {
		q.Set("is_pinned", strconv.FormatBool(*f.IsPinned))
	}
	if f.IsArchived != nil {
		q.Set("is_archived", strconv.FormatBool(*f.IsArchived))
	}
	setNonEmpty(q, "sort_by", f.SortBy)
	setNonEmpty(q, "sort_order", f.SortOrder)
	setPage(q, f.Page, f.PageSize)
	return q
}

// CreateNote creates a note under a project the user owns.
func (c *Client) CreateNote(ctx context.Context, in NoteCreate) (*Note, error) {
	var out Note
	if err := c.Post(ctx, "/notes/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetNote fetches a note by id.
func (c *Client) GetNote(ctx context.Context, id int64) (*Note, error) {
	var out Note
	if err := c.Get(ctx, fmt.Sprintf("/notes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListNotes returns a filtered, paged note listing. Pinned notes sort
// first regardless of the requested order.
func (c *Client) ListNotes(ctx context.Context, filter *NoteFilter) (*NoteList, error) {
	var out NoteList
	if err := c.Get(ctx, "/notes/", filter.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateNote applies a partial update.
func (c *Client) UpdateNote(ctx context.Context, id int64, in NoteUpdate) (*Note, error) {
	var out Note
	if err := c.Put(ctx, fmt.Sprintf("/notes/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/notes/%d", id))
}

// PinNote toggles a note's pinned flag.
func (c *Client) PinNote(ctx context.Context, id int64) (*Note, error) {
	var out Note
	if err := c.Post(ctx, fmt.Sprintf("/notes/%d/pin", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ArchiveNote toggles a note's archived flag.
func (c *Client) ArchiveNote(ctx context.Context, id int64) (*Note, error) {
	var out Note
	if err := c.Post(ctx, fmt.Sprintf("/notes/%d/archive", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NoteStats returns per-type and per-project note counters.
func (c *Client) NoteStats(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.Get(ctx, "/notes/stats/overview", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
