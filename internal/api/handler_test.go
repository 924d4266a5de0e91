package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumerank/internal/decoder"
	"resumerank/internal/domain"
	"resumerank/internal/logging"
	"resumerank/internal/service"
)

func newTestServer(t *testing.T, r Ranker, opts Options) http.Handler {
	t.Helper()
	reg, err := decoder.NewRegistry(nil)
	require.NoError(t, err)
	if r == nil {
		r = service.NewRankingService(nil, "", logging.Discard())
	}
	h := NewHandler(logging.Discard(), r, reg, 1<<20)
	return NewServer(logging.Discard(), h, opts)
}

type upload struct {
	field, name, body string
}

func multipartRequest(t *testing.T, files []upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		w, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/rank", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeRank(t *testing.T, rec *httptest.ResponseRecorder) RankResponse {
	t.Helper()
	var resp RankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, nil, Options{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRankUpload(t *testing.T) {
	req := multipartRequest(t, []upload{
		{"job", "job.txt", "python developer with flask experience"},
		{"resume", "b.txt", "java developer spring"},
		{"resume", "a.md", "python developer flask"},
		{"resume", "c.pdf", "%PDF-1.4"},
		{"resume", "dir/b.txt", "duplicate"},
	})
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	newTestServer(t, nil, Options{}).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeRank(t, rec)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, "job.txt", resp.Job)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "a.md", resp.Results[0].ID)
	assert.Equal(t, "77.46", resp.Results[0].Percentage)
	assert.True(t, strings.HasPrefix(resp.Results[0].Summary, "Resume: a.md\nSimilarity score: 77.46%\n"))
	assert.Equal(t, "b.txt", resp.Results[1].ID)
	require.Len(t, resp.Skipped, 2)
	assert.Equal(t, "unsupported format", resp.Skipped[0].Reason)
	assert.Contains(t, resp.Skipped[1].Reason, "duplicate")
}

func TestRankUploadMissingJob(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, nil, Options{}).ServeHTTP(rec, multipartRequest(t, []upload{{"resume", "a.txt", "go"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please select a job description file.")
}

func TestRankUploadUnsupportedJob(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, nil, Options{}).ServeHTTP(rec, multipartRequest(t, []upload{{"job", "job.pdf", "%PDF"}}))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRankUploadNoResumes(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, nil, Options{}).ServeHTTP(rec, multipartRequest(t, []upload{{"job", "job.txt", "go"}}))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeRank(t, rec)
	assert.Empty(t, resp.Results)
	assert.NotNil(t, resp.Results)
}

func TestRankText(t *testing.T) {
	body := `{"reference":"","candidates":[{"id":"x","text":"go"},{"text":"rust"}]}`
	req := httptest.NewRequest(http.MethodPost, "/rank/text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestServer(t, nil, Options{}).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeRank(t, rec)
	assert.Equal(t, "reference", resp.Job)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "x", resp.Results[0].ID)
	assert.Equal(t, "candidate-2", resp.Results[1].ID)
	assert.Equal(t, 0.0, resp.Results[0].Score)
}

func TestRankTextErrors(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        int
	}{
		{"no reference", "application/json", `{"reference":null,"candidates":[{"id":"a","text":"go"}]}`, http.StatusBadRequest},
		{"empty corpus", "application/json", `{}`, http.StatusBadRequest},
		{"duplicate id", "application/json", `{"reference":"go","candidates":[{"id":"a"},{"id":"a"}]}`, http.StatusBadRequest},
		{"bad json", "application/json", `{`, http.StatusBadRequest},
		{"wrong content type", "text/plain", `{}`, http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/rank/text", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			newTestServer(t, nil, Options{}).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

type failingRanker struct{ err error }

func (f failingRanker) Rank(context.Context, *domain.Document, []domain.Document) (*service.Report, error) {
	return nil, f.err
}

type snapshotFailRanker struct{}

func (snapshotFailRanker) Rank(_ context.Context, ref *domain.Document, _ []domain.Document) (*service.Report, error) {
	return &service.Report{
		Results:     domain.RankedResult{{ID: "a", Score: 1, Percentage: "100.00"}},
		SnapshotErr: &domain.SnapshotWriteError{Path: "/ro/model.yaml", Err: errors.New("read-only")},
	}, nil
}

func TestRankInternalError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/rank/text", strings.NewReader(`{"reference":"go"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestServer(t, failingRanker{err: errors.New("boom")}, Options{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRankReportsSnapshotError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/rank/text", strings.NewReader(`{"reference":"go"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestServer(t, snapshotFailRanker{}, Options{}).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeRank(t, rec)
	require.Len(t, resp.Results, 1)
	assert.Contains(t, resp.SnapshotError, "read-only")
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, nil, Options{RateLimitRPS: 0.001, RateLimitBurst: 1})
	first := httptest.NewRecorder()
	srv.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	srv.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
