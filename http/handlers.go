package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"estateprice/artifacts"
	"estateprice/db"
	"estateprice/estimate"
)

const apiVersion = "2.0"

type Estimator interface {
	Predict(ctx context.Context, q estimate.Query) (*estimate.Estimate, error)
	Locations() ([]string, error)
}

type ArtifactStatus interface {
	Loaded() bool
}

type HistoryReader interface {
	RecentPredictions(ctx context.Context, limit int) ([]db.PredictionRecord, error)
}

type handlers struct {
	deps Dependencies
	// allowed maps each registered path to the methods it serves.
	allowed map[string][]string
}

func RegisterHandlers(mux *http.ServeMux, deps Dependencies) {
	h := &handlers{deps: deps, allowed: make(map[string][]string)}
	h.route(mux, http.MethodGet, "/", http.HandlerFunc(h.handleHome))
	h.route(mux, http.MethodGet, "/health", http.HandlerFunc(h.handleHealth))
	h.route(mux, http.MethodGet, "/get_location_names", http.HandlerFunc(h.handleLocations))
	h.route(mux, http.MethodPost, "/predict_home_price", http.HandlerFunc(h.handlePredict))
	if deps.History != nil {
		h.route(mux, http.MethodGet, "/api/predictions", http.HandlerFunc(h.handleHistory))
	}
	if deps.Metrics != nil {
		h.route(mux, http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
	mux.HandleFunc("/", h.handleFallback)
}

func (h *handlers) route(mux *http.ServeMux, method, path string, handler http.Handler) {
	pattern := path
	if path == "/" {
		pattern = "/{$}"
	}
	mux.Handle(method+" "+pattern, handler)
	h.allowed[path] = append(h.allowed[path], method)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *handlers) endpoints(r *http.Request) map[string]string {
	base := "http://" + r.Host
	return map[string]string{
		"health":    base + "/health",
		"locations": base + "/get_location_names",
		"predict":   base + "/predict_home_price",
	}
}

func (h *handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	endpoints := h.endpoints(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Real Estate Price Prediction API",
		"version":   apiVersion,
		"status":    "running",
		"endpoints": endpoints,
		"usage": map[string]any{
			"predict_example": map[string]any{
				"url":    endpoints["predict"],
				"method": http.MethodPost,
				"body": map[string]any{
					"total_sqft": 1200,
					"location":   "Whitefield, Bangalore",
					"bhk":        3,
					"bath":       2,
				},
			},
		},
	})
}

// handleFallback catches everything the method patterns did not match.
func (h *handlers) handleFallback(w http.ResponseWriter, r *http.Request) {
	if methods, ok := h.allowed[r.URL.Path]; ok {
		w.Header().Set("Allow", strings.Join(methods, ", "))
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
			"error":   "Method not allowed",
			"message": "The method " + r.Method + " is not allowed for the requested URL",
			"allowed": methods,
		})
		return
	}
	h.handleNotFound(w, r)
}

func (h *handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	endpoints := h.endpoints(r)
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Endpoint not found",
		"message": "The requested URL was not found on the server",
		"available_endpoints": []string{
			"GET " + "http://" + r.Host + "/",
			"GET " + endpoints["health"],
			"GET " + endpoints["locations"],
			"POST " + endpoints["predict"],
		},
	})
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	locations, err := h.deps.Estimator.Locations()
	h.reportLoaded()
	if err != nil {
		h.deps.Logger.Error("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "unhealthy",
			"message": "Server is experiencing issues",
			"error":   err.Error(),
		})
		return
	}

	modelStatus := "loaded"
	if h.deps.Status != nil && !h.deps.Status.Loaded() {
		modelStatus = "not_loaded"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"message":          "Server is running successfully",
		"locations_loaded": len(locations),
		"model_status":     modelStatus,
	})
}

func (h *handlers) handleLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.deps.Estimator.Locations()
	h.reportLoaded()
	if err != nil {
		h.deps.Logger.Error("failed to get location names", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":     "Failed to retrieve locations",
			"message":   err.Error(),
			"locations": []string{},
			"count":     0,
		})
		return
	}

	if len(locations) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"locations": []string{},
			"count":     0,
			"message":   "No locations available",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"locations": locations,
		"count":     len(locations),
		"message":   "Locations retrieved successfully",
	})
}

func (h *handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	data, err := extractInput(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No input data provided", "message": err.Error()})
		return
	}
	query, err := parseQuery(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid input", "message": err.Error()})
		return
	}

	result, err := h.deps.Estimator.Predict(r.Context(), query)
	h.reportLoaded()
	if err != nil {
		h.writePredictError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"Estimated_Price":  result.Formatted,
		"price":            result.Price,
		"location_found":   result.LocationFound,
		"matched_location": result.MatchedLocation,
	})
}

func (h *handlers) writePredictError(w http.ResponseWriter, r *http.Request, err error) {
	logger := h.deps.Logger.With(zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
	switch {
	case errors.Is(err, estimate.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid input", "message": err.Error()})
	case errors.Is(err, artifacts.ErrNotLoaded):
		logger.Error("prediction attempted without artifacts")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Model not available", "message": err.Error()})
	default:
		logger.Error("prediction failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Prediction failed", "message": err.Error()})
	}
}

func (h *handlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, 500)
	}

	records, err := h.deps.History.RecentPredictions(r.Context(), limit)
	if err != nil {
		h.deps.Logger.Error("failed to read prediction history", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to read history"})
		return
	}
	if records == nil {
		records = []db.PredictionRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"predictions": records,
		"count":       len(records),
	})
}

func (h *handlers) reportLoaded() {
	if h.deps.Metrics != nil && h.deps.Status != nil {
		h.deps.Metrics.SetArtifactsLoaded(h.deps.Status.Loaded())
	}
}
