package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-markcv"
	"github.com/alnah/go-markcv/internal/assets"
	"github.com/alnah/go-markcv/internal/pipeline"
	"github.com/alnah/go-markcv/internal/server"
	"github.com/alnah/go-markcv/internal/server/respond"
	"github.com/alnah/go-markcv/internal/store"
)

type fakeRenderer struct {
	got   []markcv.RenderRequest
	art   *markcv.Artifact
	err   error
	panic bool
}

func (f *fakeRenderer) Render(ctx context.Context, req markcv.RenderRequest) (*markcv.Artifact, error) {
	if f.panic {
		panic("boom")
	}
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.art != nil {
		return f.art, nil
	}
	return &markcv.Artifact{
		Filename:   markcv.ArtifactFilename,
		MediaType:  markcv.ArtifactMediaType,
		Content:    []byte("<html><body>cv</body></html>"),
		Path:       markcv.PathTemplate,
		TemplateID: "europass",
	}, nil
}

type fakeTemplates struct{}

func (fakeTemplates) List() []assets.Descriptor {
	return []assets.Descriptor{assets.BuiltinDescriptor()}
}

type testServer struct {
	router   *gin.Engine
	docs     *store.MemoryDocumentStore
	images   *store.MemoryImageStore
	renderer *fakeRenderer
}

func newTestServer(t *testing.T, opts server.Options) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		docs:     store.NewMemoryDocumentStore("# Jane"),
		images:   store.NewMemoryImageStore(),
		renderer: &fakeRenderer{},
	}
	ts.router = server.NewRouter(server.Deps{
		Documents: ts.docs,
		Images:    ts.images,
		Templates: fakeTemplates{},
		Renderer:  ts.renderer,
	}, opts)
	return ts
}

func (ts *testServer) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()
	var resp respond.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func multipartImage(t *testing.T, filename, contentType, altText string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	if altText != "" {
		require.NoError(t, w.WriteField("alt_text", altText))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

// ---------------------------------------------------------------------------
// Health, request ids and routing
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	rec := ts.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}

func TestNoRoute(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	rec := ts.do(http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, respond.CodeNotFound, decodeError(t, rec).Code)
}

func TestCORS(t *testing.T) {
	t.Run("allow-listed origin", func(t *testing.T) {
		ts := newTestServer(t, server.Options{CORSOrigins: []string{"http://localhost:5173"}})

		req := httptest.NewRequest(http.MethodOptions, "/api/markdown", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		ts.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		ts := newTestServer(t, server.Options{CORSOrigins: []string{"http://localhost:5173"}})

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		ts.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("empty allow-list admits any origin", func(t *testing.T) {
		ts := newTestServer(t, server.Options{})

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "http://anywhere.example")
		rec := httptest.NewRecorder()
		ts.router.ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestIndex(t *testing.T) {
	t.Run("serves editor page", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>editor</h1>"), 0o600))
		ts := newTestServer(t, server.Options{StaticDir: dir})

		rec := ts.do(http.MethodGet, "/", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "editor")
	})

	t.Run("missing editor page", func(t *testing.T) {
		ts := newTestServer(t, server.Options{StaticDir: t.TempDir()})

		rec := ts.do(http.MethodGet, "/", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// ---------------------------------------------------------------------------
// Markdown document
// ---------------------------------------------------------------------------

func TestMarkdown(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	rec := ts.do(http.MethodGet, "/api/markdown", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"content":"# Jane"}`, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/markdown", strings.NewReader(`{"markdown":"# John\n- Go"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())

	got, err := ts.docs.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "# John\n- Go", got)
}

func TestMarkdown_EmptyDocumentIsAllowed(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	rec := ts.do(http.MethodPost, "/api/markdown", strings.NewReader(`{"markdown":""}`), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMarkdown_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"markdown":`},
		{"missing field", `{"content":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, server.Options{})

			rec := ts.do(http.MethodPost, "/api/markdown", strings.NewReader(tt.body), "application/json")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, respond.CodeValidation, decodeError(t, rec).Code)
		})
	}
}

func TestMarkdown_ReadFailure(t *testing.T) {
	ts := newTestServer(t, server.Options{})
	ts.docs.ReadErr = errors.New("disk gone")

	rec := ts.do(http.MethodGet, "/api/markdown", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, respond.CodeInternal, decodeError(t, rec).Code)
}

// ---------------------------------------------------------------------------
// Templates
// ---------------------------------------------------------------------------

func TestTemplates(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	rec := ts.do(http.MethodGet, "/api/templates", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "default", got[0]["id"])
	assert.Contains(t, got[0], "paperSizes")
	assert.Contains(t, got[0], "recommendedFonts")
	assert.NotContains(t, got[0], "LayoutPath")
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

func TestImages_UploadListAndFetch(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	body, ct := multipartImage(t, "me.png", "image/png", "Portrait", []byte("png-bytes"))
	rec := ts.do(http.MethodPost, "/api/images/upload", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var uploaded struct {
		ID      string `json:"id"`
		URL     string `json:"url"`
		AltText string `json:"alt_text"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	assert.NotEmpty(t, uploaded.ID)
	assert.Equal(t, "/data/images/"+uploaded.ID, uploaded.URL)
	assert.Equal(t, "Portrait", uploaded.AltText)

	rec = ts.do(http.MethodGet, "/api/images", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, uploaded.ID, list[0]["id"])
	assert.Equal(t, uploaded.URL, list[0]["url"])
	assert.EqualValues(t, 0, list[0]["x_offset"])
	assert.NotEmpty(t, list[0]["created_at"])

	rec = ts.do(http.MethodGet, "/api/images/"+uploaded.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestImages_UploadRejectsNonImages(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	body, ct := multipartImage(t, "cv.pdf", "application/pdf", "", []byte("%PDF"))
	rec := ts.do(http.MethodPost, "/api/images/upload", body, ct)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeError(t, rec)
	assert.Equal(t, respond.CodeValidation, errBody.Code)
	assert.Equal(t, "Only image files are allowed", errBody.Message)
}

func TestImages_UploadWithoutFile(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("alt_text", "x"))
	require.NoError(t, w.Close())

	rec := ts.do(http.MethodPost, "/api/images/upload", body, w.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImages_FetchUnknown(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	rec := ts.do(http.MethodGet, "/api/images/missing.png", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, respond.CodeNotFound, decodeError(t, rec).Code)
}

func TestImages_DataRouteServesOnlyImages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dataDir := t.TempDir()
	images := store.NewFileImageStore(filepath.Join(dataDir, "images"), "")
	img, err := images.Save(context.Background(), store.Upload{
		Filename:    "a.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)

	// A stray metadata copy inside the image directory stays private too.
	require.NoError(t, os.WriteFile(filepath.Join(images.Dir(), store.MetadataFile), []byte("[]"), 0o600))

	router := server.NewRouter(server.Deps{
		Documents: store.NewMemoryDocumentStore(""),
		Images:    images,
		Templates: fakeTemplates{},
		Renderer:  &fakeRenderer{},
	}, server.Options{})

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	rec := get("/data/images/" + img.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = get("/data/images/" + store.MetadataFile)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), img.ID)

	rec = get("/data/images/missing.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImages_Position(t *testing.T) {
	ts := newTestServer(t, server.Options{})
	img, err := ts.images.Save(context.Background(), store.Upload{
		Filename: "a.png", ContentType: "image/png", Body: strings.NewReader("x"),
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		target   string
		wantCode int
	}{
		{"update", "/api/images/" + img.ID + "/position?x_offset=12&y_offset=-4", http.StatusOK},
		{"defaults to zero", "/api/images/" + img.ID + "/position", http.StatusOK},
		{"unknown image", "/api/images/nope.png/position?x_offset=1", http.StatusNotFound},
		{"bad integer", "/api/images/" + img.ID + "/position?x_offset=abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, tt.target, nil, "")
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}

	images, err := ts.images.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, images[0].XOffset)
	assert.Equal(t, 0, images[0].YOffset)
}

func TestImages_PositionPersists(t *testing.T) {
	ts := newTestServer(t, server.Options{})
	img, err := ts.images.Save(context.Background(), store.Upload{
		Filename: "a.png", ContentType: "image/png", Body: strings.NewReader("x"),
	})
	require.NoError(t, err)

	rec := ts.do(http.MethodPost, "/api/images/"+img.ID+"/position?x_offset=12&y_offset=-4", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())

	images, err := ts.images.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, images[0].XOffset)
	assert.Equal(t, -4, images[0].YOffset)
}

// ---------------------------------------------------------------------------
// Render
// ---------------------------------------------------------------------------

func TestRender(t *testing.T) {
	ts := newTestServer(t, server.Options{DefaultPaperSize: "letter", DefaultThemeColor: "green"})

	rec := ts.do(http.MethodGet, "/api/pdf?template_id=modern&theme_color=red", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "<html><body>cv</body></html>", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=cv.html`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "europass", rec.Header().Get(server.HeaderTemplate))
	assert.Equal(t, "template", rec.Header().Get(server.HeaderRenderPath))

	require.Len(t, ts.renderer.got, 1)
	assert.Equal(t, markcv.RenderRequest{TemplateID: "modern", PaperSize: "letter", ThemeColor: "red"}, ts.renderer.got[0])
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
		wantDetails string
	}{
		{
			name:        "converter stderr is surfaced",
			err:         &pipeline.ConversionError{Stderr: "pandoc: could not find template\n", Err: errors.New("exit status 5")},
			wantCode:    respond.CodeConversionFailed,
			wantMessage: "HTML generation failed",
			wantDetails: "pandoc: could not find template",
		},
		{
			name:        "missing output is a conversion failure",
			err:         markcv.ErrNoOutput,
			wantCode:    respond.CodeConversionFailed,
			wantMessage: "HTML generation failed",
			wantDetails: markcv.ErrNoOutput.Error(),
		},
		{
			name:        "document read failure",
			err:         markcv.ErrDocumentRead,
			wantCode:    respond.CodeInternal,
			wantMessage: "reading document failed",
			wantDetails: markcv.ErrDocumentRead.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, server.Options{})
			ts.renderer.err = tt.err

			rec := ts.do(http.MethodGet, "/api/pdf", nil, "")
			assert.Equal(t, http.StatusInternalServerError, rec.Code)

			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantDetails, body.Details)
		})
	}
}

func TestRender_PanicIsRecovered(t *testing.T) {
	ts := newTestServer(t, server.Options{})
	ts.renderer.panic = true

	rec := ts.do(http.MethodGet, "/api/pdf", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, respond.CodeInternal, decodeError(t, rec).Code)
}
