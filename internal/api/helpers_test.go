package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/logging"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
)

const fundsCSV = `Fund Name,P1,P2,P3,P4,P5
M1,0.49,0.23,6.4,42.5,12.42
M2,0.7,0.4,4.1,36.0,9.79
M3,0.41,0.15,4.9,49.6,13.1
M4,0.44,0.15,5.7,44.3,12.52
M5,1.2,1.03,8.0,59.2,17.04
M6,0.79,0.36,7.6,53.5,14.61
M7,0.8,0.55,9.2,45.7,14.2
M8,1.22,1.2,3.9,34.6,10.94
`

type testServer struct {
	router   http.Handler
	registry *prometheus.Registry
	store    *store.MemoryStore
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := config.Default()
	for _, fn := range mutate {
		fn(cfg)
	}
	reg := prometheus.NewRegistry()
	ms := store.NewMemoryStore(0)
	svc := ranking.New(ms, nil, metrics.New(reg), cfg.Ranking, logging.Discard())
	return &testServer{
		router:   NewRouter(svc, cfg.Server, logging.Discard()),
		registry: reg,
		store:    ms,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// multipartUpload builds a POST /api/v1/topsis request. Empty fields are
// left out of the form.
func multipartUpload(t *testing.T, filename, content, weights, impacts string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	if weights != "" {
		require.NoError(t, mw.WriteField("weights", weights))
	}
	if impacts != "" {
		require.NoError(t, mw.WriteField("impacts", impacts))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/topsis", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
