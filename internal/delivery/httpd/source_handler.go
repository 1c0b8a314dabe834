package httpd

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/andinetd/assignment-helper/internal/models"
)

func (h *Handler) SearchSources(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	k := getIntQueryParam(r, "limit", 3)

	results, err := h.sourceService.Search(r.Context(), query, k)
	if err != nil {
		h.logger.Error().Err(err).Msg("Source search failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) IngestSources(w http.ResponseWriter, r *http.Request) {
	var records []models.SourceRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(records) == 0 {
		writeError(w, http.StatusBadRequest, "At least one source record is required")
		return
	}

	response, err := h.sourceService.Ingest(r.Context(), records)
	if err != nil {
		if strings.Contains(err.Error(), "malformed ingestion record") {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("Source ingestion failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, response)
}
