package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
)

// Request describes one API call relative to the executor's base URL.
type Request struct {
	Method   string
	Endpoint string
	Query    url.Values

	// Body is JSON-encoded for POST, PUT and PATCH. Ignored when Form is set.
	Body any
	// Form sends a multipart body instead of JSON.
	Form *Multipart

	// Auth attaches the stored access token and enables refresh-on-401.
	Auth bool
	// Bearer, when set, is sent instead of the stored access token.
	Bearer string
	// NoRetry disables refresh-on-401 for this call.
	NoRetry bool
}

// Multipart is a form with a single file field. Content is kept in memory so
// the request can be sent a second time after a refresh.
type Multipart struct {
	Field       string
	FileName    string
	ContentType string
	Content     []byte
}

// NewMultipart reads r fully into a Multipart.
func NewMultipart(field, fileName string, r io.Reader) (*Multipart, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}
	return &Multipart{Field: field, FileName: fileName, Content: content}, nil
}

// encode writes the form and returns the body with its Content-Type.
func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	ct := m.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(filepath.Ext(m.FileName))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, m.Field, filepath.Base(m.FileName)))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(m.Content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func hasJSONBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// body returns the encoded request body and its Content-Type.
func (r Request) body() (io.Reader, string, error) {
	if r.Form != nil {
		return r.Form.encode()
	}
	if r.Body == nil || !hasJSONBody(r.Method) {
		return nil, "application/json", nil
	}
	b, err := json.Marshal(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode body: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}

func (r Request) url(base string) string {
	u := base + r.Endpoint
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}
