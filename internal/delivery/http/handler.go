package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orderlens/backend/internal/domain"
	"github.com/orderlens/backend/internal/usecase"
	"go.uber.org/zap"
)

// OrderService is the conversation API the handlers drive
type OrderService interface {
	StartSession(ctx context.Context) (*domain.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	ResetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	EndSession(ctx context.Context, sessionID string) error
	ProcessTurn(ctx context.Context, sessionID, utterance string) (*domain.TurnResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	orders       OrderService
	dictionaries domain.DictionaryProvider
	logger       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(orders OrderService, dictionaries domain.DictionaryProvider, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		orders:       orders,
		dictionaries: dictionaries,
		logger:       logger.Named("http"),
	}
}

// TurnRequest is the body of a conversation turn
type TurnRequest struct {
	Utterance string `json:"utterance" binding:"required"`
}

// TurnResponse is a confirmed turn
type TurnResponse struct {
	SessionID string `json:"sessionId"`
	*domain.TurnResult
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Slot    string `json:"slot,omitempty"`
	Keyword string `json:"keyword,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"service": "orderlens-backend",
		"version": "1.0.0",
	}

	dict, err := h.currentDictionary()
	if err != nil {
		body["status"] = "degraded"
		body["dictionary"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	body["dictionary"] = gin.H{
		"source":   dict.Source(),
		"loadedAt": dict.LoadedAt().Format(time.RFC3339),
	}
	c.JSON(http.StatusOK, body)
}

// DictionaryInfo describes the active dictionary and the option code layout
func (h *Handler) DictionaryInfo(c *gin.Context) {
	dict, err := h.currentDictionary()
	if err != nil {
		h.respondError(c, err)
		return
	}

	counts := make(map[string]int)
	for category, n := range dict.Counts() {
		counts[category.String()] = n
	}
	c.JSON(http.StatusOK, gin.H{
		"source":            dict.Source(),
		"loadedAt":          dict.LoadedAt().Format(time.RFC3339),
		"keywords":          counts,
		"optionCodeVersion": usecase.OptionCodeVersion,
		"optionCodeLayout":  usecase.OptionCodeLayout(),
	})
}

// CreateSession starts a conversation
func (h *Handler) CreateSession(c *gin.Context) {
	session, err := h.orders.StartSession(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession returns a conversation and its accumulated order
func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.orders.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ResetSession clears a conversation's order
func (h *Handler) ResetSession(c *gin.Context) {
	session, err := h.orders.ResetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// DeleteSession ends a conversation
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.orders.EndSession(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ProcessTurn applies one utterance to a conversation
func (h *Handler) ProcessTurn(c *gin.Context) {
	var req TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "utterance is required",
		})
		return
	}

	sessionID := c.Param("id")
	result, err := h.orders.ProcessTurn(c.Request.Context(), sessionID, req.Utterance)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TurnResponse{SessionID: sessionID, TurnResult: result})
}

func (h *Handler) currentDictionary() (*domain.Dictionary, error) {
	if h.dictionaries == nil {
		return nil, domain.ErrDictionaryUnavailable
	}
	return h.dictionaries.Current()
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	var stock *domain.StockExhaustedError

	switch {
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "stock_exhausted",
			Message: usecase.FailureMessage(err),
			Slot:    stock.Slot.String(),
			Keyword: stock.Keyword,
		})
	case errors.Is(err, domain.ErrNotUnderstood):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "not_understood",
			Message: usecase.FailureMessage(err),
		})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "session_not_found",
			Message: "session not found or expired",
		})
	case errors.Is(err, domain.ErrUtteranceTooLong):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "utterance_too_long",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrDictionaryUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "dictionary_unavailable",
			Message: "keyword dictionary is not loaded",
		})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "timeout",
			Message: "turn took too long, please try a shorter sentence",
		})
	default:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "an unexpected error occurred",
		})
	}
}
