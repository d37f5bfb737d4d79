package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Mode selects how a response body is handed back.
type Mode int

const (
	// ModeJSON returns the body and decodes it into the caller's target.
	ModeJSON Mode = iota
	// ModeBlob returns the raw payload without decoding.
	ModeBlob
	// ModeStream returns the live response; only the streaming fetcher honours it.
	ModeStream
)

func (m Mode) String() string {
	switch m {
	case ModeJSON:
		return "json"
	case ModeBlob:
		return "blob"
	case ModeStream:
		return "stream"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// FormField is one part of a multipart body. File parts carry a FileName.
type FormField struct {
	Name     string
	Value    string
	FileName string
	Content  io.Reader
}

// IsFile reports whether the part is a file upload.
func (f FormField) IsFile() bool { return f.Content != nil }

// Request describes one outbound call. Builders produce it; Do executes it.
type Request struct {
	Method string
	Path   string
	// Endpoint is the path template used as a metrics label, e.g.
	// "/copyright/{id}". Path is used when empty.
	Endpoint string
	Query  url.Values
	// Body is JSON-encoded when non-nil. Mutually exclusive with Form.
	Body any
	// Form is sent as multipart/form-data, parts in order.
	Form []FormField
	Mode Mode
}

// Label returns the metrics label of the request.
func (r Request) Label() string {
	if r.Endpoint != "" {
		return r.Endpoint
	}
	return r.Path
}

// encodeBody renders the request body and its content type.
func (r Request) encodeBody() (io.Reader, string, error) {
	switch {
	case len(r.Form) > 0:
		return encodeMultipart(r.Form)
	case r.Body != nil:
		raw, err := json.Marshal(r.Body)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(raw), "application/json", nil
	default:
		return nil, "", nil
	}
}

func encodeMultipart(fields []FormField) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if f.IsFile() {
			part, err := w.CreateFormFile(f.Name, f.FileName)
			if err != nil {
				return nil, "", err
			}
			if _, err := io.Copy(part, f.Content); err != nil {
				return nil, "", err
			}
			continue
		}
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// URL joins base and the request path and query.
func (r Request) URL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u = u.JoinPath(r.Path)
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}
	return u.String(), nil
}

// Build creates the *http.Request against base without sending it.
func (r Request) Build(ctx context.Context, base string) (*http.Request, error) {
	target, err := r.URL(base)
	if err != nil {
		return nil, err
	}
	body, contentType, err := r.encodeBody()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}
