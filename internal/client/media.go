package client

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

// MediaUpload describes a file upload bound to a project or note.
type MediaUpload struct {
	TargetType string // "project" or "note"
	TargetID   int64
	AltText    string
	IsPublic   bool
	Filename   string
	Reader     io.Reader
}

// MediaPatch updates media metadata; nil fields are left unchanged.
type MediaPatch struct {
	AltText  *string `json:"alt_text,omitempty"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

// MediaFilter narrows and pages the media listing.
type MediaFilter struct {
	TargetType string
	TargetID   int64
	MediaType  string
	Page       int
	PageSize   int
}

func (f *MediaFilter) query() url.Values {
	q := url.Values{}
	if f == nil {
		return q
	}
	setNonEmpty(q, "target_type", f.TargetType)
	if f.TargetID > 0 {
		q.Set("target_id", strconv.FormatInt(f.TargetID, 10))
	}
	setNonEmpty(q, "type", f.MediaType)
	setPage(q, f.Page, f.PageSize)
	return q
}

// UploadMedia sends the file as a multipart form. Metadata travels as
// form fields next to the file part.
func (c *Client) UploadMedia(ctx context.Context, in MediaUpload) (*Media, error) {
	form := NewForm().
		Set("target_type", in.TargetType).
		Set("target_id", strconv.FormatInt(in.TargetID, 10)).
		Set("alt_text", in.AltText).
		Set("is_public", strconv.FormatBool(in.IsPublic)).
		File("file", in.Filename, in.Reader)

	var out Media
	if err := c.Upload(ctx, "/media/upload", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMedia fetches one media record.
func (c *Client) GetMedia(ctx context.Context, id int64) (*Media, error) {
	var out Media
	if err := c.Get(ctx, fmt.Sprintf("/media/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMedia returns a filtered, paged media listing.
func (c *Client) ListMedia(ctx context.Context, filter *MediaFilter) (*MediaList, error) {
	var out MediaList
	if err := c.Get(ctx, "/media/", filter.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMedia patches media metadata.
func (c *Client) UpdateMedia(ctx context.Context, id int64, in MediaPatch) (*Media, error) {
	var out Media
	if err := c.Patch(ctx, fmt.Sprintf("/media/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMedia removes one media record and its file.
func (c *Client) DeleteMedia(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/media/%d", id))
}

// BulkDeleteMedia removes several media records in one call.
func (c *Client) BulkDeleteMedia(ctx context.Context, ids []int64) error {
	payload := struct {
		IDs []int64 `json:"media_ids"`
	}{IDs: ids}
	return c.Post(ctx, "/media/bulk-delete", payload, nil)
}

// MediaStats returns storage usage broken down by media type.
func (c *Client) MediaStats(ctx context.Context) (*MediaStorageStats, error) {
	var out MediaStorageStats
	if err := c.Get(ctx, "/media/stats/storage", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
