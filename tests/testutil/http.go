package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PNG is the smallest byte sequence sniffed as image/png
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

// Request describes one call against the App
type Request struct {
	Method  string
	Path    string
	Body    any // marshalled as JSON unless it is a *Form
	Token   string
	Session string
	Headers map[string]string
}

// Form is a multipart body with optional image
type Form struct {
	Fields map[string]string
	Image  []byte
}

// Response wraps the recorder with envelope helpers
type Response struct {
	*httptest.ResponseRecorder
	t *testing.T
}

// Do runs req through the engine
func (a *App) Do(t *testing.T, req Request) *Response {
	t.Helper()

	var body io.Reader
	contentType := ""
	switch b := req.Body.(type) {
	case nil:
	case *Form:
		var ct string
		body, ct = encodeForm(t, b)
		contentType = ct
	default:
		body = ToJSONReader(t, b)
		contentType = "application/json"
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq := httptest.NewRequest(method, req.Path, body)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if req.Session != "" {
		httpReq.Header.Set("X-Session-ID", req.Session)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	a.Engine.ServeHTTP(rec, httpReq)
	return &Response{ResponseRecorder: rec, t: t}
}

func encodeForm(t *testing.T, f *Form) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range f.Fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if f.Image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.Image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// Envelope decodes the response into the standard envelope
func (r *Response) Envelope() dto.Response {
	r.t.Helper()

	var env dto.Response
	require.NoError(r.t, json.Unmarshal(r.Body.Bytes(), &env), "body: %s", r.Body.String())
	return env
}

// RequireStatus fails the test unless the status matches
func (r *Response) RequireStatus(status int) *Response {
	r.t.Helper()
	require.Equal(r.t, status, r.Code, "body: %s", r.Body.String())
	return r
}

// AssertError asserts an error envelope with code
func (r *Response) AssertError(status int, code string) {
	r.t.Helper()

	assert.Equal(r.t, status, r.Code, "body: %s", r.Body.String())
	env := r.Envelope()
	assert.False(r.t, env.Success)
	if assert.NotNil(r.t, env.Error) {
		assert.Equal(r.t, code, env.Error.Code)
	}
}

// DataAs decodes the data member of a success envelope into T
func DataAs[T any](t *testing.T, r *Response) T {
	t.Helper()

	var env struct {
		Success bool      `json:"success"`
		Data    T         `json:"data"`
		Meta    *dto.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &env), "body: %s", r.Body.String())
	require.True(t, env.Success, "body: %s", r.Body.String())
	return env.Data
}

// ToJSONReader converts a value to a JSON io.Reader
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
