package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/firefly/textproc/internal/aggregator"
	"github.com/firefly/textproc/internal/analyzer"
)

const defaultStatsTop = 10

// Handler holds HTTP handlers for the text processing API.
type Handler struct {
	analyzer     *analyzer.Analyzer
	aggregator   *aggregator.Aggregator
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewHandler creates a Handler. maxBodyBytes <= 0 leaves request bodies uncapped.
func NewHandler(agg *aggregator.Aggregator, maxBodyBytes int64, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if agg == nil {
		agg = aggregator.New(logger)
	}
	return &Handler{
		analyzer:     analyzer.New(),
		aggregator:   agg,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/text-processor", h.handleProcess)
	mux.HandleFunc("GET /api/stats", h.handleStats)
	mux.HandleFunc("GET /health", h.handleHealth)
}

type processRequest struct {
	Text          string `json:"text"`
	Operation     string `json:"operation"`
	Pattern       string `json:"pattern"`
	CaseSensitive bool   `json:"caseSensitive"`
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Input text is required")
		return
	}

	op, err := analyzer.ParseOperation(req.Operation)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if op == analyzer.RegexFilter && req.Pattern == "" {
		writeError(w, http.StatusBadRequest, "Pattern is required for regex filtering")
		return
	}

	result, err := h.analyzer.Run(op, req.Text, analyzer.Options{
		CaseSensitive: req.CaseSensitive,
		Pattern:       req.Pattern,
		NonEmpty:      true,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.aggregator.AddResult(result)
	h.logger.Debug("processed text",
		"operation", op.String(),
		"bytes", len(req.Text),
		"result_size", result.Size(),
		"request_id", RequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": result.Value(),
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":     h.aggregator.GetStats(),
		"top_words": h.aggregator.GetTopWords(defaultStatsTop),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"message": message,
		},
	})
}
