package generationapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze/api"
	"github.com/beka-birhanu/vinom-maze/api/i"
	"github.com/beka-birhanu/vinom-maze/api/identity"
	"github.com/beka-birhanu/vinom-maze/infrastruture/token"
	"github.com/beka-birhanu/vinom-maze/logger"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	engine *gin.Engine
	bearer string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l, err := logger.New("TEST", "", io.Discard)
	require.NoError(t, err)
	manager, err := service.NewGenerationManager(&service.Config{Logger: l})
	require.NoError(t, err)
	t.Cleanup(manager.StopAll)

	controller, err := NewGenerationController(manager, Defaults{Width: 6, Height: 4, Rate: 30})
	require.NoError(t, err)

	tokenizer := token.NewJwtService("test-secret", "vinom-maze")
	bearer, err := tokenizer.Generate(map[string]interface{}{"operator": "test"}, time.Minute)
	require.NoError(t, err)

	router := api.NewRouter(api.Config{
		BaseURL:                 "/api",
		Controllers:             []i.Controller{controller},
		AuthorizationMiddleware: identity.Authoriz(tokenizer),
	})
	return &testServer{engine: router.Engine(), bearer: bearer}
}

func (s *testServer) do(t *testing.T, method, path, body string, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+s.bearer)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) GenerationResponse {
	t.Helper()
	var resp GenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *testServer) create(t *testing.T, body string) GenerationResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/generations", body, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)
}

func TestCreateGeneration(t *testing.T) {
	s := newTestServer(t)

	t.Run("requires a token", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/generations", "", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("applies defaults", func(t *testing.T) {
		resp := s.create(t, "")
		assert.Equal(t, 6, resp.Width)
		assert.Equal(t, 4, resp.Height)
		assert.Equal(t, maze.Position{X: 3, Y: 2}, resp.Current)
		assert.Equal(t, 30, resp.Rate)
		_, err := uuid.Parse(resp.ID)
		assert.NoError(t, err)
	})

	t.Run("honours explicit parameters", func(t *testing.T) {
		resp := s.create(t, `{"width":3,"height":2,"seed":5,"start_x":0,"start_y":1}`)
		assert.Equal(t, 3, resp.Width)
		assert.Equal(t, uint64(5), resp.Seed)
		assert.Equal(t, maze.Position{X: 0, Y: 1}, resp.Current)
		assert.Equal(t, maze.Open, resp.Cells[1][0].Mark)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		for _, body := range []string{
			`{"width":-1}`,
			`{"width":3,"height":3,"start_x":3}`,
			`{"width":5000}`,
			`{"width":"wide"}`,
		} {
			rec := s.do(t, http.MethodPost, "/api/v1/generations", body, true)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		}
	})
}

func TestStepToCompletion(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, `{"width":1,"height":2,"seed":1,"start_x":0,"start_y":0}`)
	path := "/api/v1/generations/" + created.ID

	rec := s.do(t, http.MethodPost, path+"/step", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, 1, resp.Steps)
	assert.Equal(t, maze.Position{X: 0, Y: 1}, resp.Current)

	rec = s.do(t, http.MethodPost, path+"/step", `{"count":10}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode(t, rec)
	assert.Equal(t, 3, resp.Steps)
	assert.True(t, resp.Done)
	assert.True(t, resp.Carved)
	assert.False(t, resp.Cells[0][0].Walls[maze.West])
	assert.False(t, resp.Cells[1][0].Walls[maze.East])

	rec = s.do(t, http.MethodGet, path, "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, resp.Snapshot, decode(t, rec).Snapshot)

	rec = s.do(t, http.MethodPost, path+"/step", `{"count":0}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestControlRoutes(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, `{"width":4,"height":4,"seed":2}`)
	path := "/api/v1/generations/" + created.ID

	rec := s.do(t, http.MethodPost, path+"/rate", `{"delta":-100}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, decode(t, rec).Rate)

	rec = s.do(t, http.MethodPost, path+"/rate", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, path+"/run", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).Running)

	rec = s.do(t, http.MethodPost, path+"/pause", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode(t, rec).Running)

	rec = s.do(t, http.MethodPost, path+"/reset", `{"seed":77}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, uint64(77), resp.Seed)
	assert.Equal(t, 0, resp.Steps)

	rec = s.do(t, http.MethodDelete, path, "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, path, "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownAndMalformedIDs(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/generations/not-a-uuid", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/generations/"+uuid.NewString(), "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/generations/"+uuid.NewString()+"/step", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStream(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, `{"width":2,"height":2,"seed":3}`)

	srv := httptest.NewServer(s.engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/generations/" + created.ID + "/stream"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	var first GenerationResponse
	require.NoError(t, ws.ReadJSON(&first))
	assert.Equal(t, created.ID, first.ID)
	assert.Equal(t, 0, first.Steps)

	rec := s.do(t, http.MethodPost, "/api/v1/generations/"+created.ID+"/step", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var next GenerationResponse
	require.NoError(t, ws.ReadJSON(&next))
	assert.Equal(t, 1, next.Steps)
}
