package server

import (
	"context"
	"net/http"
)

// JobResponse represents the response for a job trigger
type JobResponse struct {
	Job   string `json:"job"`
	Stats any    `json:"stats"`
}

// runJob runs one pipeline job under its overlap lock and writes the stats
func (s *Server) runJob(w http.ResponseWriter, r *http.Request, job string, run func(ctx context.Context) any) {
	if run == nil {
		err := &ErrUnknownJob{Job: job}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if !s.tryAcquire(job) {
		err := &ErrJobAlreadyRunning{Job: job}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	defer s.release(job)

	s.log.WithField("job", job).Info("job triggered")
	stats := run(r.Context())

	s.jsonResponse(w, http.StatusOK, JobResponse{Job: job, Stats: stats})
}

// handleClassify triggers the track classification job
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var run func(ctx context.Context) any
	if s.jobs.Classify != nil {
		run = func(ctx context.Context) any { return s.jobs.Classify(ctx) }
	}
	s.runJob(w, r, "classify", run)
}

// handleTagImages triggers the image tagging job
func (s *Server) handleTagImages(w http.ResponseWriter, r *http.Request) {
	var run func(ctx context.Context) any
	if s.jobs.TagImages != nil {
		run = func(ctx context.Context) any { return s.jobs.TagImages(ctx) }
	}
	s.runJob(w, r, "tag-images", run)
}

// handleTagVideos triggers the video tagging job
func (s *Server) handleTagVideos(w http.ResponseWriter, r *http.Request) {
	var run func(ctx context.Context) any
	if s.jobs.TagVideos != nil {
		run = func(ctx context.Context) any { return s.jobs.TagVideos(ctx) }
	}
	s.runJob(w, r, "tag-videos", run)
}

// handleHealth returns server health status including database reachability
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.log.WithError(err).Error("health check database ping failed")
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status":   "degraded",
				"database": "unreachable",
			})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
