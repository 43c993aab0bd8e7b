package api

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/datalens-io/datalens/internal/ai"
	"github.com/datalens-io/datalens/internal/ingest"
	"github.com/datalens-io/datalens/internal/store"
)

// maxUploadBytes bounds in-memory multipart parsing.
const maxUploadBytes = 32 << 20

type handler struct {
	store   *store.Store
	analyst *ai.Analyst
	log     *zap.SugaredLogger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// uploadDataset ingests a multipart CSV/JSON upload and persists the
// resulting dataset. Ingestion failures are client errors with a specific
// reason; anything else is a 500.
func (h *handler) uploadDataset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Errorw("read upload", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process file")
		return
	}

	payload, err := ingest.Ingest(data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		if ingest.IsUserError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Errorw("ingest upload", "file", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process file")
		return
	}

	dataset := h.store.CreateDataset(store.InsertDataset{
		Name:     payload.Name,
		Data:     payload.Rows,
		Columns:  payload.Columns,
		RowCount: payload.RowCount,
		FileSize: payload.FileSize,
	})
	h.log.Infow("dataset created", "id", dataset.ID, "name", dataset.Name, "rows", dataset.RowCount)
	writeJSON(w, http.StatusOK, dataset)
}

func (h *handler) listDatasets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListDatasets())
}

func (h *handler) getDataset(w http.ResponseWriter, r *http.Request) {
	dataset, ok := h.store.GetDataset(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Dataset not found")
		return
	}
	writeJSON(w, http.StatusOK, dataset)
}

func (h *handler) deleteDataset(w http.ResponseWriter, r *http.Request) {
	if !h.store.DeleteDataset(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "Dataset not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) listInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.InsightsByDataset(chi.URLParam(r, "id")))
}

// analyzeDataset runs the AI analysis and persists each returned insight,
// confidence re-expressed as a rounded integer percentage.
func (h *handler) analyzeDataset(w http.ResponseWriter, r *http.Request) {
	dataset, ok := h.store.GetDataset(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Dataset not found")
		return
	}

	analysis, err := h.analyst.Analyze(r.Context(), dataset.Data, dataset.Columns)
	if err != nil {
		h.log.Errorw("ai analysis", "dataset", dataset.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate AI insights")
		return
	}

	stored := make([]store.Insight, 0, len(analysis.Insights))
	for _, ins := range analysis.Insights {
		stored = append(stored, h.store.CreateInsight(store.InsertInsight{
			DatasetID:  dataset.ID,
			Content:    ins.Title + ": " + ins.Description,
			Confidence: strconv.Itoa(int(math.Round(ins.Confidence * 100))),
		}))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"insights": stored,
		"summary":  analysis.Summary,
	})
}

func (h *handler) queryDataset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Query == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	dataset, ok := h.store.GetDataset(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Dataset not found")
		return
	}

	result, err := h.analyst.Answer(r.Context(), body.Query, dataset.Data, dataset.Columns)
	if err != nil {
		h.log.Errorw("ai query", "dataset", dataset.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to answer query")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// shareResponse is a Share plus the URL path clients embed.
type shareResponse struct {
	store.Share
	ShareURL string `json:"shareUrl"`
}

func (h *handler) createShare(w http.ResponseWriter, r *http.Request) {
	var body store.InsertShare
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.DatasetID == "" {
		writeError(w, http.StatusBadRequest, "datasetId is required")
		return
	}
	if _, ok := h.store.GetDataset(body.DatasetID); !ok {
		writeError(w, http.StatusBadRequest, "Dataset not found")
		return
	}
	if body.RequirePassword && body.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required when password protection is enabled")
		return
	}
	if !body.RequirePassword {
		body.Password = ""
	}

	share := h.store.CreateShare(body)
	h.log.Infow("share created", "id", share.ID, "dataset", share.DatasetID)
	writeJSON(w, http.StatusOK, shareResponse{Share: share, ShareURL: "/shared/" + share.ShareToken})
}

func (h *handler) getShareByToken(w http.ResponseWriter, r *http.Request) {
	share, ok := h.store.ShareByToken(chi.URLParam(r, "token"))
	if !ok {
		writeError(w, http.StatusNotFound, "Share not found")
		return
	}
	writeJSON(w, http.StatusOK, share)
}
