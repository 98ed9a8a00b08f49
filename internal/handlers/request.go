package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"errand-service/internal/models"
	"errand-service/internal/observability"
	"errand-service/internal/repositories"
	"errand-service/internal/telemetry"
)

// RequestHandler drives the order-request lifecycle.
type RequestHandler struct {
	orderRepo   repositories.OrderRepository
	requestRepo repositories.RequestRepository
	audit       *telemetry.AuditEmitter
}

// NewRequestHandler builds a RequestHandler.
func NewRequestHandler(orderRepo repositories.OrderRepository, requestRepo repositories.RequestRepository, audit *telemetry.AuditEmitter) *RequestHandler {
	return &RequestHandler{orderRepo: orderRepo, requestRepo: requestRepo, audit: audit}
}

// CreateRequest handles POST /orders/:order_id/requests. The caller becomes
// the counterpart of the order.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}
	userID := c.GetInt("userID")

	order, err := h.orderRepo.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, "order not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not load order")
		return
	}
	if order.OwnerID == userID {
		respondError(c, http.StatusBadRequest, "cannot request own order")
		return
	}

	req, err := h.requestRepo.CreateRequest(c.Request.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateRequest) {
			respondError(c, http.StatusConflict, "active request already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not create request")
		return
	}

	h.emitEntityAudit(c, "INFO", "order request created", req.ID)
	respond(c, http.StatusCreated, req)
}

// UpdateStatus handles PATCH /requests/:request_id/status. Only the order
// owner or the counterpart may drive the request, and only along the
// transition table.
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("request_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid request id")
		return
	}
	userID := c.GetInt("userID")

	var body struct {
		RequestStatus string `json:"request_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	next, err := models.ParseRequestStatus(body.RequestStatus)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	req, err := h.requestRepo.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			respondError(c, http.StatusNotFound, "request not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not load request")
		return
	}

	party, err := h.isParty(c, req, userID)
	if err != nil {
		return
	}
	if !party {
		respondError(c, http.StatusForbidden, "not a party to this request")
		return
	}

	previous := req.Status
	updated, err := h.requestRepo.UpdateStatus(c.Request.Context(), requestID, next)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrRequestNotFound):
			respondError(c, http.StatusNotFound, "request not found")
		case errors.Is(err, repositories.ErrInvalidTransition):
			respondError(c, http.StatusUnprocessableEntity, "status not reachable from current state")
		default:
			respondError(c, http.StatusInternalServerError, "could not update request")
		}
		return
	}

	observability.IncRequestTransition(string(previous), string(updated.Status))
	h.emitEntityAudit(c, "INFO", "request status updated to "+string(updated.Status), updated.ID)
	respond(c, http.StatusOK, updated)
}

// DeleteRequest handles DELETE /requests/:request_id. Allowed for either
// party regardless of status; reports whether a row was removed.
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("request_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid request id")
		return
	}
	userID := c.GetInt("userID")

	req, err := h.requestRepo.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			respondError(c, http.StatusNotFound, "request not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not load request")
		return
	}

	party, err := h.isParty(c, req, userID)
	if err != nil {
		return
	}
	if !party {
		respondError(c, http.StatusForbidden, "not a party to this request")
		return
	}

	deleted, err := h.requestRepo.DeleteRequest(c.Request.Context(), requestID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not delete request")
		return
	}

	if deleted {
		h.emitEntityAudit(c, "INFO", "order request deleted", requestID)
	}
	respond(c, http.StatusOK, gin.H{"deleted": deleted})
}

// ListRequests handles GET /requests: every request the caller is a party to.
func (h *RequestHandler) ListRequests(c *gin.Context) {
	userID := c.GetInt("userID")
	offset, limit, ok := parsePagination(c, 20)
	if !ok {
		return
	}

	reqs, total, err := h.requestRepo.ListRequestsForUser(c.Request.Context(), userID, offset, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load requests")
		return
	}

	respond(c, http.StatusOK, gin.H{"requests": reqs, "total": total})
}

// isParty reports whether the user owns the order or is the counterpart.
// Writes the error response itself when the order lookup fails.
func (h *RequestHandler) isParty(c *gin.Context, req models.OrderRequest, userID int) (bool, error) {
	if req.CounterpartID == userID {
		return true, nil
	}
	order, err := h.orderRepo.GetOrder(c.Request.Context(), req.OrderID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load order")
		return false, err
	}
	return order.OwnerID == userID, nil
}

func (h *RequestHandler) emitEntityAudit(c *gin.Context, level, text string, requestID int) {
	if h.audit == nil {
		return
	}
	h.audit.EmitEntity(c.Request.Context(), level, text, "order_request", requestID, requestIDFromContext(c), userIDFromContext(c))
}
