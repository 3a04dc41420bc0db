package assistant

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dukanx/vaani/internal/model/billing"
	"github.com/dukanx/vaani/internal/service/dialogue"
	"github.com/dukanx/vaani/internal/service/query"
	"github.com/dukanx/vaani/pkg/utils"
)

// Handler exposes the text assistant over HTTP.
type Handler struct {
	manager *dialogue.Manager
	queries *query.Engine
}

// New creates the assistant handler. The query engine may be nil when no
// database is configured.
func New(manager *dialogue.Manager, queries *query.Engine) *Handler {
	return &Handler{manager: manager, queries: queries}
}

// RegisterRoutes registers assistant routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/assistant/turn", h.handleTurn)
	r.Post("/assistant/query", h.handleQuery)
	r.Delete("/assistant/session/{userId}", h.handleClearSession)

	// Fixed reports skip the LLM entirely.
	r.Get("/assistant/reports/dues/{userId}", h.handleDuesReport)
	r.Get("/assistant/reports/stock/{userId}", h.handleStockReport)
	r.Get("/assistant/reports/sales/{userId}", h.handleSalesReport)
}

type turnRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

type turnResponse struct {
	Text    string           `json:"text"`
	Action  billing.Action   `json:"action"`
	Session *billing.Session `json:"session,omitempty"`
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	var payload turnRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	result := h.manager.Converse(r.Context(), payload.UserID, payload.Text)

	utils.RespondJSON(w, http.StatusOK, turnResponse{
		Text:    result.Text,
		Action:  result.Action,
		Session: result.Payload,
	})
}

type queryRequest struct {
	UserID   string `json:"userId"`
	Question string `json:"question"`
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	if h.queries == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "business queries unavailable")
		return
	}

	var payload queryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if payload.Question == "" {
		utils.RespondError(w, http.StatusBadRequest, "question is required")
		return
	}

	result := h.queries.RunQuery(r.Context(), payload.UserID, payload.Question)
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleDuesReport(w http.ResponseWriter, r *http.Request) {
	h.runReport(w, r, "customer", func(userID, customer string) (query.Result, error) {
		return h.queries.DuesFor(r.Context(), userID, customer)
	})
}

func (h *Handler) handleStockReport(w http.ResponseWriter, r *http.Request) {
	h.runReport(w, r, "product", func(userID, product string) (query.Result, error) {
		return h.queries.StockOf(r.Context(), userID, product)
	})
}

func (h *Handler) handleSalesReport(w http.ResponseWriter, r *http.Request) {
	if h.queries == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "business queries unavailable")
		return
	}

	userID := chi.URLParam(r, "userId")
	result, err := h.queries.SalesTotal(r.Context(), userID, r.URL.Query().Get("period"))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "report failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// runReport handles the shared shape of the name-filtered reports.
func (h *Handler) runReport(w http.ResponseWriter, r *http.Request, param string, run func(userID, filter string) (query.Result, error)) {
	filter := r.URL.Query().Get(param)
	if filter == "" {
		utils.RespondError(w, http.StatusBadRequest, param+" query parameter is required")
		return
	}
	if h.queries == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "business queries unavailable")
		return
	}

	result, err := run(chi.URLParam(r, "userId"), filter)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "report failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	h.manager.ClearSession(userID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
