package api_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/dnslens/internal/api"
	"github.com/jroosing/dnslens/internal/api/handlers"
	"github.com/jroosing/dnslens/internal/api/models"
	"github.com/jroosing/dnslens/internal/config"
	"github.com/jroosing/dnslens/internal/database"
	"github.com/jroosing/dnslens/internal/wire"
)

func newTestServer(t *testing.T, apiKey string) (*api.Server, *database.DB) {
	t.Helper()

	cfg := config.Default()
	cfg.API.APIKey = apiKey
	require.NoError(t, cfg.Validate())

	db, err := database.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	statsFn := func() handlers.DecodeStatsSnapshot {
		return handlers.DecodeStatsSnapshot{Total: 10, OK: 7, Rejected: 3, BadQuestion: 3}
	}
	return api.New(cfg, db, slog.Default(), statsFn), db
}

func doRequest(srv *api.Server, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := doRequest(srv, http.MethodGet, "/api/v1/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestAPIKeyEnforcement(t *testing.T) {
	srv, _ := newTestServer(t, "sekrit")

	// Health is always open.
	w := doRequest(srv, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Stats requires the key.
	w = doRequest(srv, http.MethodGet, "/api/v1/stats", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(srv, http.MethodGet, "/api/v1/stats", nil, map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(srv, http.MethodGet, "/api/v1/stats", nil, map[string]string{"X-API-Key": "sekrit"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStats(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := doRequest(srv, http.MethodGet, "/api/v1/stats", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ServerStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(10), resp.Decode.Total)
	assert.Equal(t, uint64(3), resp.Decode.Rejected)
	assert.GreaterOrEqual(t, resp.GoRoutines, 1)
}

func TestDecodeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")

	msg := append(wire.Header{ID: 0x1234, Flags: 0x0100, QDCount: 1}.Marshal(),
		0x00, 0x00, 0x01, 0x00, 0x01)
	body, _ := json.Marshal(models.DecodeRequest{Packet: base64.StdEncoding.EncodeToString(msg)})

	w := doRequest(srv, http.MethodPost, "/api/v1/decode", bytes.NewReader(body),
		map[string]string{"Content-Type": "application/json"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DecodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, uint16(0x1234), resp.Header.ID)
	assert.Equal(t, uint16(1), resp.Header.QDCount)
}

func TestDecodeEndpointMalformedPacket(t *testing.T) {
	srv, _ := newTestServer(t, "")

	// qdcount=1 but no question bytes: a structurally bad packet is
	// still a successful API call.
	msg := wire.Header{ID: 7, QDCount: 1}.Marshal()
	body, _ := json.Marshal(models.DecodeRequest{Packet: base64.StdEncoding.EncodeToString(msg)})

	w := doRequest(srv, http.MethodPost, "/api/v1/decode", bytes.NewReader(body),
		map[string]string{"Content-Type": "application/json"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DecodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, "bad_question", resp.Status)
}

func TestDecodeEndpointBadRequests(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := doRequest(srv, http.MethodPost, "/api/v1/decode", bytes.NewReader([]byte(`{}`)),
		map[string]string{"Content-Type": "application/json"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, _ := json.Marshal(models.DecodeRequest{Packet: "not-base64!!!"})
	w = doRequest(srv, http.MethodPost, "/api/v1/decode", bytes.NewReader(body),
		map[string]string{"Content-Type": "application/json"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func seedRejects(t *testing.T, db *database.DB, n int) {
	t.Helper()
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		require.NoError(t, db.InsertReject(database.Reject{
			ObservedAt: now.Add(time.Duration(i) * time.Second),
			Source:     "203.0.113.5:9999",
			Transport:  "udp",
			Length:     20 + i,
			Status:     "bad_answer",
		}))
	}
}

func TestListRejects(t *testing.T) {
	srv, db := newTestServer(t, "")
	seedRejects(t, db, 5)

	w := doRequest(srv, http.MethodGet, "/api/v1/rejects?limit=3", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RejectsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Rejects, 3)
	assert.Equal(t, "bad_answer", resp.Rejects[0].Status)

	// Bad limit is a 400.
	w = doRequest(srv, http.MethodGet, "/api/v1/rejects?limit=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPruneRejects(t *testing.T) {
	srv, db := newTestServer(t, "")
	seedRejects(t, db, 2)

	cutoff := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	w := doRequest(srv, http.MethodDelete, "/api/v1/rejects?before="+cutoff, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PruneResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Removed)
}

func TestExportRejects(t *testing.T) {
	srv, db := newTestServer(t, "")
	seedRejects(t, db, 4)

	w := doRequest(srv, http.MethodGet, "/api/v1/rejects/export", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zstd", w.Header().Get("Content-Type"))

	zr, err := zstd.NewReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer zr.Close()

	dec := json.NewDecoder(zr)
	var lines []database.Reject
	for dec.More() {
		var r database.Reject
		require.NoError(t, dec.Decode(&r))
		lines = append(lines, r)
	}
	require.Len(t, lines, 4)
	assert.Equal(t, "203.0.113.5:9999", lines[0].Source)
}
