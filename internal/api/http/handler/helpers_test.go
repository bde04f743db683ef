package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	httpcontext "github.com/dtroode/obituary-server/internal/api/http/context"
	"github.com/dtroode/obituary-server/internal/api/http/web"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxUpload = 1 << 20

type testRequest struct {
	method      string
	target      string
	body        io.Reader
	contentType string
	principal   *model.Principal
	params      map[string]string
	cookies     []*http.Cookie
}

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	return e
}

func newTestContext(t *testing.T, r testRequest) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(r.method, r.target, r.body)
	if r.contentType != "" {
		req.Header.Set(echo.HeaderContentType, r.contentType)
	}
	for _, cookie := range r.cookies {
		req.AddCookie(cookie)
	}
	if r.principal != nil {
		req = req.WithContext(httpcontext.NewManager().SetPrincipalToContext(req.Context(), *r.principal))
	}

	rec := httptest.NewRecorder()
	c := newEcho(t).NewContext(req, rec)
	if len(r.params) > 0 {
		names := make([]string, 0, len(r.params))
		values := make([]string, 0, len(r.params))
		for name, value := range r.params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func TestNewTestContext_PathParams(t *testing.T) {
	t.Parallel()

	c, _ := newTestContext(t, testRequest{
		method: http.MethodGet,
		target: "/api/obituaries/abc/x",
		params: map[string]string{"id": "abc", "part": "x"},
	})

	assert.Equal(t, "abc", c.Param("id"))
	assert.Equal(t, "x", c.Param("part"))
}

func jsonBody(s string) (io.Reader, string) {
	return strings.NewReader(s), echo.MIMEApplicationJSON
}

func formBody(values url.Values) (io.Reader, string) {
	return strings.NewReader(values.Encode()), echo.MIMEApplicationForm
}

func multipartBody(t *testing.T, values map[string]string, fileName string, file []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile(photoField, fileName)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}
