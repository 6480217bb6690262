package api

import (
	"errors"
	"net/http"

	"github.com/dgallion1/examstyle/internal/content"
)

// handleSession compiles a full generator payload (passage plus problems)
// into a render-ready session.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	data, code, err := readBody(w, r, s.cfg.MaxUploadBytes)
	if err != nil {
		jsonError(w, err.Error(), code)
		return
	}

	raw, err := content.Decode(data)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, rep, err := s.builder.Build(r.Context(), raw)
	switch {
	case errors.Is(err, content.ErrMissingPassage):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "report": rep})
		return
	case err != nil:
		s.log.Error("session build failed", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if !rep.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]any{
		"session": sess,
		"report":  rep,
	})
}
