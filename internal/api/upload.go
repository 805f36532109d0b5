package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

// RunIDHeader carries the stored run id alongside a CSV download.
const RunIDHeader = "X-Run-ID"

type UploadHandler struct {
	svc      *ranking.Service
	maxBytes int64
}

func NewUploadHandler(svc *ranking.Service, maxBytes int64) *UploadHandler {
	return &UploadHandler{svc: svc, maxBytes: maxBytes}
}

// Upload ranks an uploaded CSV and returns the result table as a download.
// POST /api/v1/topsis (multipart: file, weights, impacts)
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxBytes {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", h.maxBytes))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", h.maxBytes))
			return
		}
		writeError(w, http.StatusBadRequest, "file, weights and impacts are required")
		return
	}

	file, header, err := r.FormFile("file")
	weights := strings.TrimSpace(r.FormValue("weights"))
	impacts := strings.TrimSpace(r.FormValue("impacts"))
	if err != nil || weights == "" || impacts == "" {
		writeError(w, http.StatusBadRequest, "file, weights and impacts are required")
		return
	}
	defer file.Close()

	table, err := dataset.Read(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ws, is, err := dataset.ParseParams(weights, impacts, len(table.Criteria()))
	switch {
	case errors.Is(err, topsis.ErrDimensionMismatch):
		writeError(w, http.StatusBadRequest, "number of weights and impacts must match number of criteria")
		return
	case errors.Is(err, topsis.ErrInvalidImpact):
		writeError(w, http.StatusBadRequest, "impacts must be + or -")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := h.svc.Rank(r.Context(), ranking.Request{
		Name:    header.Filename,
		Source:  store.SourceUpload,
		Table:   table,
		Weights: ws,
		Impacts: is,
	})
	if err != nil {
		writeRankError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", run.ResultFilename()))
	w.Header().Set(RunIDHeader, run.ID.String())
	w.WriteHeader(http.StatusOK)
	w.Write(run.ResultCSV)
}

func writeRankError(w http.ResponseWriter, err error) {
	if topsis.IsValidation(err) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
