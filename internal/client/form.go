package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Form is a multipart upload payload: ordinary string fields plus one
// file part. Fields are written in insertion order so the wire form is
// deterministic.
type Form struct {
	fields []formField
	file   *formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	filename string
	reader   io.Reader
}

// NewForm creates an empty multipart form.
func NewForm() *Form {
	return &Form{}
}

// Set appends a string field. Empty values are omitted, matching the
// query-parameter convention.
func (f *Form) Set(name, value string) *Form {
	if value != "" {
		f.fields = append(f.fields, formField{name: name, value: value})
	}
	return f
}

// File attaches the file part.
func (f *Form) File(field, filename string, r io.Reader) *Form {
	f.file = &formFile{field: field, filename: filename, reader: r}
	return f
}

// encode buffers the multipart body. Buffering keeps the request
// descriptor replayable for the post-refresh retry.
func (f *Form) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("writing field %q: %w", field.name, err)
		}
	}
	if f.file != nil {
		part, err := w.CreateFormFile(f.file.field, f.file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("creating file part: %w", err)
		}
		if _, err := io.Copy(part, f.file.reader); err != nil {
			return nil, "", fmt.Errorf("copying file contents: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
