package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/admirror/internal/types"
)

const testSecret = "test-cron-secret"

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestServer(jobs Jobs, db Pinger) *Server {
	return New(Config{Port: 0, CronSecret: testSecret}, db, jobs, testLogger())
}

func bearerToken(t *testing.T, job string) string {
	t.Helper()
	token, err := NewCronAuth(testSecret).GenerateToken(job, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func triggerRequest(path, authHeader string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return req
}

func TestHealth_OK(t *testing.T) {
	s := newTestServer(Jobs{}, &fakePinger{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	s := newTestServer(Jobs{}, &fakePinger{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
}

func TestTrigger_RequiresToken(t *testing.T) {
	s := newTestServer(Jobs{}, &fakePinger{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, triggerRequest("/jobs/classify", ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTrigger_RejectsInvalidToken(t *testing.T) {
	s := newTestServer(Jobs{}, &fakePinger{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, triggerRequest("/jobs/classify", "Bearer bogus"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTrigger_RejectsTokenSignedWithOtherSecret(t *testing.T) {
	s := newTestServer(Jobs{}, &fakePinger{})
	token, err := NewCronAuth("other-secret").GenerateToken("classify", time.Minute)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, triggerRequest("/jobs/classify", "Bearer "+token))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTrigger_RunsClassifyJob(t *testing.T) {
	called := false
	s := newTestServer(Jobs{
		Classify: func(context.Context) types.ClassificationStats {
			called = true
			return types.ClassificationStats{Total: 5, Classified: 5, AdsScored: 40}
		},
	}, &fakePinger{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, triggerRequest("/jobs/classify", bearerToken(t, "classify")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)

	var body struct {
		Job   string                    `json:"job"`
		Stats types.ClassificationStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "classify", body.Job)
	assert.Equal(t, 5, body.Stats.Classified)
	assert.Equal(t, 40, body.Stats.AdsScored)
}

func TestTrigger_RunsTaggingJobs(t *testing.T) {
	s := newTestServer(Jobs{
		TagImages: func(context.Context) types.TaggingStats {
			return types.TaggingStats{Total: 3, Tagged: 2, Failed: 1, TotalCostUSD: 0.12}
		},
		TagVideos: func(context.Context) types.VideoTaggingStats {
			return types.VideoTaggingStats{Total: 2, Tagged: 1, NoAudio: 1}
		},
	}, &fakePinger{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, triggerRequest("/jobs/tag-images", bearerToken(t, "tag-images")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tag-images"`)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, triggerRequest("/jobs/tag-videos", bearerToken(t, "tag-videos")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tag-videos"`)
}

func TestTrigger_OverlappingRunsRefused(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s := newTestServer(Jobs{
		Classify: func(context.Context) types.ClassificationStats {
			close(started)
			<-release
			return types.ClassificationStats{}
		},
	}, &fakePinger{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, triggerRequest("/jobs/classify", bearerToken(t, "classify")))
		assert.Equal(t, http.StatusOK, rec.Code)
	}()

	<-started
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, triggerRequest("/jobs/classify", bearerToken(t, "classify")))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already running")

	close(release)
	wg.Wait()
}

func TestTrigger_UnwiredJobReturnsNotFound(t *testing.T) {
	s := newTestServer(Jobs{}, &fakePinger{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, triggerRequest("/jobs/tag-videos", bearerToken(t, "tag-videos")))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpointServes(t *testing.T) {
	s := newTestServer(Jobs{}, &fakePinger{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
