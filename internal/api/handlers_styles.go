package api

import (
	"net/http"

	"github.com/dgallion1/examstyle/internal/content"
	"github.com/dgallion1/examstyle/internal/styling"
)

// fieldRequest is one text field with its sibling style ranges.
type fieldRequest struct {
	Text        string                  `json:"text"`
	StyleRanges []content.RawStyleRange `json:"styleRanges"`
}

type validateResponse struct {
	styling.ValidationResult
	Balance *styling.Balance `json:"balance,omitempty"`
}

// coreRanges converts decoded ranges, collecting decoding problems as
// structural errors and notes as warnings.
func coreRanges(raw []content.RawStyleRange) (ranges []styling.StyleRange, errs, warnings []string) {
	ranges = make([]styling.StyleRange, 0, len(raw))
	for i, r := range raw {
		e, w := r.Diagnostics(i)
		errs = append(errs, e...)
		warnings = append(warnings, w...)
		ranges = append(ranges, r.Range())
	}
	return ranges, errs, warnings
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req fieldRequest
	if code, err := decodeJSON(w, r, s.cfg.MaxUploadBytes, &req); err != nil {
		jsonError(w, err.Error(), code)
		return
	}

	ranges, errs, warnings := coreRanges(req.StyleRanges)
	if len(errs) > 0 {
		writeJSON(w, http.StatusOK, validateResponse{ValidationResult: styling.ValidationResult{
			Errors:   errs,
			Warnings: append([]string{}, warnings...),
		}})
		return
	}

	resp := validateResponse{ValidationResult: styling.Validate(req.Text, ranges)}
	resp.Warnings = append(warnings, resp.Warnings...)
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	if resp.IsValid {
		bal := styling.CheckBalance(req.Text, resp.CorrectedRanges, s.cfg.BuildConfig().Balance)
		resp.Balance = &bal
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req fieldRequest
	if code, err := decodeJSON(w, r, s.cfg.MaxUploadBytes, &req); err != nil {
		jsonError(w, err.Error(), code)
		return
	}

	segments, report := s.builder.StyleField("request", req.Text, req.StyleRanges)
	writeJSON(w, http.StatusOK, map[string]any{
		"segments": segments,
		"report":   report,
	})
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StyleRanges []content.RawStyleRange `json:"styleRanges"`
	}
	if code, err := decodeJSON(w, r, s.cfg.MaxUploadBytes, &req); err != nil {
		jsonError(w, err.Error(), code)
		return
	}

	ranges, errs, _ := coreRanges(req.StyleRanges)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed style ranges", "errors": errs})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"styleRanges": styling.MergeOverlapping(ranges)})
}
