package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/sahayak-ai/sahayak/internal/rag"
)

// maxQuestionLen caps the accepted question length in runes.
const maxQuestionLen = 2000

// maxBodyBytes caps the request body size.
const maxBodyBytes = 64 << 10

type handler struct {
	service RAGService
	logger  *slog.Logger
}

type queryRequest struct {
	Question string `json:"question"`
}

type queryResponse struct {
	Answer string `json:"answer"`
}

func (h *handler) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if utf8.RuneCountInString(question) > maxQuestionLen {
		writeError(w, http.StatusBadRequest, "question is too long")
		return
	}

	answer, err := h.service.Query(r.Context(), question)
	if err != nil {
		h.logger.Error("query failed",
			"error", err,
			"request_id", requestID(r.Context()),
		)
		writeError(w, http.StatusBadGateway, "failed to answer the question")
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{Answer: answer})
}

type ingestRequest struct {
	Directory string `json:"directory"`
}

type ingestResponse struct {
	RunID        string           `json:"run_id"`
	Documents    int              `json:"documents"`
	Done         int              `json:"done"`
	Failed       int              `json:"failed"`
	ChunksStored int              `json:"chunks_stored"`
	Duration     string           `json:"duration"`
	Reports      []documentReport `json:"reports"`
}

type documentReport struct {
	Source       string `json:"source"`
	Status       string `json:"status"`
	Pages        int    `json:"pages"`
	ChunksStored int    `json:"chunks_stored"`
	Error        string `json:"error,omitempty"`
}

func (h *handler) ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if !decodeBody(w, r, &req) {
		return
	}

	dir := strings.TrimSpace(req.Directory)
	if dir == "" {
		writeError(w, http.StatusBadRequest, "directory is required")
		return
	}

	report, err := h.service.Ingest(r.Context(), dir)
	if err != nil {
		h.logger.Error("ingestion failed",
			"error", err,
			"directory", dir,
			"request_id", requestID(r.Context()),
		)
		writeError(w, http.StatusBadGateway, "ingestion failed")
		return
	}

	writeJSON(w, http.StatusOK, toIngestResponse(report))
}

func toIngestResponse(report *rag.Report) ingestResponse {
	resp := ingestResponse{
		RunID:        report.RunID,
		Documents:    len(report.Documents),
		Done:         report.Done(),
		Failed:       report.Failed(),
		ChunksStored: report.ChunksStored(),
		Duration:     report.Duration.String(),
		Reports:      make([]documentReport, 0, len(report.Documents)),
	}
	for _, doc := range report.Documents {
		dr := documentReport{
			Source:       doc.Source,
			Status:       string(doc.Status),
			Pages:        doc.Pages,
			ChunksStored: doc.ChunksStored,
		}
		if doc.Err != nil {
			dr.Error = doc.Err.Error()
		}
		resp.Reports = append(resp.Reports, dr)
	}
	return resp
}

// decodeBody decodes the JSON body into v, writing an error response
// and returning false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
