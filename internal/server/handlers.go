package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"llm-market-analyst/internal/job"
	"llm-market-analyst/internal/logger"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "llm-market-analyst",
	})
}

// handleTrigger starts a batch if none is running. The batch itself runs in
// the background; the response is an acknowledgement, not the result.
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if err := s.job.TryStart(); err != nil {
		if errors.Is(err, job.ErrAlreadyRunning) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Detached from the request context: the batch outlives this request.
	go func() {
		ctx := context.Background()
		result, err := s.runner.RunBatch(ctx)
		if err != nil {
			logger.ErrorWithErr(ctx, "Batch failed", err)
			s.job.Fail(err)
			return
		}
		s.job.Complete(result)
	}()

	s.writeJSON(w, http.StatusAccepted, s.job.Status())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.job.Status())
}

// handleResult serves the latest persisted batch. Before the first completed
// batch there is nothing to serve.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.snapshots.LoadLatest()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.writeError(w, http.StatusNotFound, "no batch has completed yet")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.ErrorWithErr(context.Background(), "Failed to encode JSON response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
