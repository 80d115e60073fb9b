package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/young1lin/shopassist/internal/models"
	"github.com/young1lin/shopassist/internal/shopping"
	"github.com/young1lin/shopassist/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Client-facing error messages
const (
	msgEmptyQuery  = "Nothing found because you didn't type anything in to search for"
	msgNoMessages  = "No message provided"
	msgUpstream    = "Failed"
	msgUnreadable  = "The shopping assistant returned a result that could not be read"
	msgNotFound    = "Endpoint not found"
	msgWrongMethod = "Method not allowed"
)

// Assistant is the shopping core the handler delegates to
type Assistant interface {
	Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error)
	Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)
}

// ShopHandler serves the search, chat and landing page endpoints
type ShopHandler struct {
	assistant Assistant
	pages     *pages
}

// NewShopHandler creates a new handler
func NewShopHandler(assistant Assistant) (*ShopHandler, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	return &ShopHandler{assistant: assistant, pages: p}, nil
}

// ServeHTTP handles all HTTP requests
func (h *ShopHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	traceID := extractTraceID(r)
	if traceID == "" {
		traceID = generateTraceID()
	}

	log := logger.WithTraceID(traceID)
	ctx := logger.ContextWithTraceID(r.Context(), traceID)
	ctx = logger.ContextWithLogger(ctx, log)
	r = r.WithContext(ctx)

	log.Info("request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote_addr", r.RemoteAddr),
	)

	w.Header().Set("X-Trace-ID", traceID)

	switch {
	case r.URL.Path == "/":
		if h.allow(w, r, http.MethodGet, log) {
			h.handleIndex(w, r, log)
		}
	case r.URL.Path == "/health":
		h.handleHealth(w, r, log)
	case r.URL.Path == "/find":
		if h.allow(w, r, http.MethodPost, log) {
			h.handleFind(w, r, log)
		}
	case r.URL.Path == "/chat":
		if h.allow(w, r, http.MethodPost, log) {
			h.handleChat(w, r, log)
		}
	case strings.HasPrefix(r.URL.Path, "/static/"):
		if h.allow(w, r, http.MethodGet, log) {
			h.pages.static.ServeHTTP(w, r)
		}
	default:
		h.handleError(w, http.StatusNotFound, "not_found", msgNotFound, log)
	}

	log.Info("request completed",
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
}

// allow writes a 405 and returns false when the method does not match
func (h *ShopHandler) allow(w http.ResponseWriter, r *http.Request, method string, log *zap.Logger) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	h.handleError(w, http.StatusMethodNotAllowed, "method_not_allowed", msgWrongMethod, log)
	return false
}

// handleIndex renders the landing page
func (h *ShopHandler) handleIndex(w http.ResponseWriter, r *http.Request, log *zap.Logger) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages.renderIndex(w); err != nil {
		log.Error("failed to render index", zap.Error(err))
	}
}

// handleHealth handles health check requests
func (h *ShopHandler) handleHealth(w http.ResponseWriter, r *http.Request, log *zap.Logger) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}, log)
}

// handleFind handles POST /find
func (h *ShopHandler) handleFind(w http.ResponseWriter, r *http.Request, log *zap.Logger) {
	var req models.SearchRequest
	if !decodeBody(r, &req, log) {
		req = models.SearchRequest{}
	}

	log.Info("parsed search request",
		zap.String("item", req.Term()),
		zap.Bool("has_min_price", req.MinPrice.Valid),
		zap.Bool("has_max_price", req.MaxPrice.Valid),
	)

	resp, err := h.assistant.Search(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, msgEmptyQuery, log)
		return
	}

	writeJSON(w, http.StatusOK, resp, log)
}

// handleChat handles POST /chat
func (h *ShopHandler) handleChat(w http.ResponseWriter, r *http.Request, log *zap.Logger) {
	var req models.ChatRequest
	if !decodeBody(r, &req, log) {
		req = models.ChatRequest{}
	}

	log.Info("parsed chat request",
		zap.String("item", req.Item.Value),
		zap.Int("message_count", len(req.Messages)),
	)

	resp, err := h.assistant.Chat(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, msgNoMessages, log)
		return
	}

	writeJSON(w, http.StatusOK, resp, log)
}

// handleServiceError maps the shopping error taxonomy onto HTTP statuses.
// Upstream causes are logged by the service and never echoed to the caller.
func (h *ShopHandler) handleServiceError(w http.ResponseWriter, err error, validationMsg string, log *zap.Logger) {
	var validationErr *shopping.ValidationError
	var formatErr *shopping.UpstreamFormatError

	switch {
	case errors.As(err, &validationErr):
		h.handleError(w, http.StatusBadRequest, "validation_error", validationMsg, log)
	case errors.As(err, &formatErr):
		h.handleError(w, http.StatusBadGateway, "upstream_format_error", msgUnreadable, log)
	default:
		h.handleError(w, http.StatusInternalServerError, "upstream_error", msgUpstream, log)
	}
}

// handleError handles errors
func (h *ShopHandler) handleError(w http.ResponseWriter, status int, errType, message string, log *zap.Logger) {
	log.Error("request error",
		zap.String("error_type", errType),
		zap.String("message", message),
		zap.Int("status", status),
	)

	writeJSON(w, status, models.ErrorResponse{Error: message}, log)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, log *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response", zap.Error(err))
	}
}

// decodeBody reads a JSON body into v. A missing or malformed body is not an
// error for the caller; it reports false so the request is treated as empty.
func decodeBody(r *http.Request, v interface{}, log *zap.Logger) bool {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		log.Warn("failed to read request body", zap.Error(err))
		return false
	}

	log.Debug("raw request body", zap.String("body", string(body)))

	if err := json.Unmarshal(body, v); err != nil {
		log.Warn("ignoring unparseable request body", zap.Error(err))
		return false
	}
	return true
}

// extractTraceID extracts trace ID from various possible headers
func extractTraceID(r *http.Request) string {
	headers := []string{
		"X-Trace-ID",
		"X-Request-ID",
		"X-Correlation-ID",
	}

	for _, header := range headers {
		if id := r.Header.Get(header); id != "" {
			return id
		}
	}

	return ""
}

// generateTraceID generates a new trace ID
func generateTraceID() string {
	return uuid.New().String()[:16]
}
