package server

import (
	"fmt"
	"net/http"
)

// ErrJobAlreadyRunning indicates a trigger arrived while the same job was
// still in flight
type ErrJobAlreadyRunning struct {
	Job string
}

func (e *ErrJobAlreadyRunning) Error() string {
	return fmt.Sprintf("job already running: %s", e.Job)
}

// ErrUnauthorized indicates a missing or invalid trigger token
type ErrUnauthorized struct {
	Reason string
}

func (e *ErrUnauthorized) Error() string {
	return "unauthorized: " + e.Reason
}

// ErrUnknownJob indicates a trigger for a job name the server does not run
type ErrUnknownJob struct {
	Job string
}

func (e *ErrUnknownJob) Error() string {
	return "unknown job: " + e.Job
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrJobAlreadyRunning:
		return http.StatusConflict
	case *ErrUnauthorized:
		return http.StatusUnauthorized
	case *ErrUnknownJob:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
