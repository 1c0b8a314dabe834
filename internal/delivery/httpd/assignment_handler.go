package httpd

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andinetd/assignment-helper/internal/service"
)

func (h *Handler) UploadAssignment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "A file field is required")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	email := studentEmailFromContext(r.Context())

	response, err := h.uploadService.Upload(r.Context(), email, header.Filename, fileBytes)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			writeError(w, http.StatusUnauthorized, "Unknown student")
			return
		}
		h.logger.Error().Err(err).Msg("Upload failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(chi.URLParam(r, "job_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Job ID must be an integer")
		return
	}

	response, err := h.analysisService.GetAnalysis(r.Context(), jobID)
	if err != nil {
		h.logger.Error().Err(err).Int64("job_id", jobID).Msg("Failed to get analysis")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, response)
}
