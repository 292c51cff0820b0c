package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ds124wfegd/flux-ideal-size/internal/database"
	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/kafka"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/node"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/processor"
	"github.com/ds124wfegd/flux-ideal-size/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBroker reports a fixed health status
type stubBroker struct {
	err error
}

func (b stubBroker) HealthCheck() error {
	return b.err
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newTestRouterWith(t, kafka.NewMockProducer(), 8<<20)
}

func newTestRouterWith(t *testing.T, broker HealthChecker, maxUploadSize int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := node.Default()
	sizeService := service.NewSizeService(registry, database.NewNoopResultCache(),
		database.NewMemoryInvocationRepository(), kafka.NewMockProducer())
	imageService := service.NewImageService(registry, processor.NewImageProcessor(), 1<<22)

	return InitRoutes(NewNodeHandler(sizeService), NewImageHandler(imageService, maxUploadSize), broker, 5*time.Second)
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := doRequest(newTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"broker":"ok"`)
}

func TestHealthBrokerDown(t *testing.T) {
	router := newTestRouterWith(t, stubBroker{err: errors.New("connection refused")}, 8<<20)

	w := doRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestNodeRoutes(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/nodes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Nodes []node.Info `json:"nodes"`
		Count int         `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, node.IdealSizeType, list.Nodes[0].Type)

	w = doRequest(router, http.MethodGet, "/api/v1/nodes/flux_kontext_ideal_size", "")
	require.Equal(t, http.StatusOK, w.Code)

	var info node.Info
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "flux_kontext_ideal_size_output", info.Output.Type)

	w = doRequest(router, http.MethodGet, "/api/v1/nodes/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestInvokeRoute checks results and error status codes
func TestInvokeRoute(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name     string
		path     string
		body     string
		status   int
		expected entity.Size
	}{
		{name: "defaults with empty body", path: "/api/v1/nodes/flux_ideal_size/invoke", body: "", status: http.StatusOK, expected: entity.Size{Width: 1360, Height: 768}},
		{name: "explicit fields", path: "/api/v1/nodes/flux_ideal_size/invoke", body: `{"width":1024,"height":1024,"multiplier":1.0}`, status: http.StatusOK, expected: entity.Size{Width: 1024, Height: 1024}},
		{name: "kontext", path: "/api/v1/nodes/flux_kontext_ideal_size/invoke", body: `{"width":900,"height":900}`, status: http.StatusOK, expected: entity.Size{Width: 1024, Height: 1024}},
		{name: "zero height", path: "/api/v1/nodes/flux_ideal_size/invoke", body: `{"height":0}`, status: http.StatusUnprocessableEntity},
		{name: "fractional width", path: "/api/v1/nodes/flux_ideal_size/invoke", body: `{"width":10.5}`, status: http.StatusBadRequest},
		{name: "width overflows int", path: "/api/v1/nodes/flux_ideal_size/invoke", body: `{"width":9223372036854775807,"height":1}`, status: http.StatusBadRequest},
		{name: "not an object", path: "/api/v1/nodes/flux_ideal_size/invoke", body: `[1,2]`, status: http.StatusBadRequest},
		{name: "unknown node", path: "/api/v1/nodes/nope/invoke", body: `{}`, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())

			if tt.status != http.StatusOK {
				assert.Contains(t, w.Body.String(), `"error"`)
				return
			}

			var inv entity.Invocation
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
			assert.Equal(t, tt.expected, inv.Result)
			assert.NotEmpty(t, inv.ID)
		})
	}
}

func TestInvocationRoutes(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/nodes/flux_ideal_size/invoke", `{"multiplier":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	var inv entity.Invocation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))

	w = doRequest(router, http.MethodGet, "/api/v1/invocations/"+inv.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var stored entity.Invocation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, entity.Size{Width: 2720, Height: 1536}, stored.Result)

	w = doRequest(router, http.MethodGet, "/api/v1/invocations?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list entity.InvocationListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	w = doRequest(router, http.MethodGet, "/api/v1/invocations?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/invocations/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func uploadImage(t *testing.T, router http.Handler, query string, width, height int) *httptest.ResponseRecorder {
	t.Helper()
	return uploadImageRequest(t, router, query, width, height, nil)
}

// uploadImageRequest lets the caller adjust the request before it is served.
func uploadImageRequest(t *testing.T, router http.Handler, query string, width, height int, edit func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, width, height))))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "init.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/images/fit"+query, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if edit != nil {
		edit(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFitImageRoute(t *testing.T) {
	router := newTestRouter(t)

	w := uploadImage(t, router, "", 1024, 576)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "1360", w.Header().Get("X-Ideal-Width"))
	assert.Equal(t, "768", w.Header().Get("X-Ideal-Height"))

	fitted, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 1360, fitted.Bounds().Dx())

	w = uploadImage(t, router, "?node=flux_kontext_ideal_size", 800, 600)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, strconv.Itoa(1184), w.Header().Get("X-Ideal-Width"))

	w = uploadImage(t, router, "?multiplier=-1", 100, 100)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/images/fit", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 1x4000 maps to 512x2048000, above the output pixel cap
	w = uploadImage(t, router, "", 1, 4000)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestFitImageRouteTooLarge checks uploads over the limit get 413 with and without a Content-Length
func TestFitImageRouteTooLarge(t *testing.T) {
	router := newTestRouterWith(t, kafka.NewMockProducer(), 64)

	w := uploadImage(t, router, "", 64, 64)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = uploadImageRequest(t, router, "", 64, 64, func(req *http.Request) {
		req.ContentLength = -1
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	w := doRequest(newTestRouter(t), http.MethodOptions, "/api/v1/nodes", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
