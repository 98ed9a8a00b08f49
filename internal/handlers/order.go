package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"errand-service/internal/models"
	"errand-service/internal/repositories"
	"errand-service/internal/telemetry"
)

// OrderHandler manages order endpoints for both roles.
type OrderHandler struct {
	orderRepo repositories.OrderRepository
	audit     *telemetry.AuditEmitter
}

// NewOrderHandler builds an OrderHandler.
func NewOrderHandler(orderRepo repositories.OrderRepository, audit *telemetry.AuditEmitter) *OrderHandler {
	return &OrderHandler{orderRepo: orderRepo, audit: audit}
}

type orderItemRequest struct {
	Name  string `json:"name" binding:"required"`
	Count int    `json:"count" binding:"required,gt=0"`
	Price int    `json:"price" binding:"gte=0"`
}

type orderImageRequest struct {
	Filename string `json:"filename" binding:"required"`
	Size     int64  `json:"size"`
	Path     string `json:"path" binding:"required"`
}

// CreateOrder handles POST /orders. Items and images are fixed at creation;
// there is no partial update.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		Role           string              `json:"role" binding:"required"`
		Title          string              `json:"title" binding:"required"`
		Message        string              `json:"message"`
		Priority       string              `json:"priority"`
		ReceiveStart   time.Time           `json:"receive_start" binding:"required"`
		ReceiveEnd     time.Time           `json:"receive_end" binding:"required"`
		Address        string              `json:"address"`
		EstimatedPrice int                 `json:"estimated_price" binding:"gte=0"`
		Tip            int                 `json:"tip" binding:"gte=0"`
		Items          []orderItemRequest  `json:"items"`
		Images         []orderImageRequest `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	role, err := models.ParseOrderRole(req.Role)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	priority := models.PriorityNormal
	if req.Priority != "" {
		if priority, err = models.ParseOrderPriority(req.Priority); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{Name: item.Name, Count: item.Count, Price: item.Price})
	}
	images := make([]models.OrderImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, models.OrderImage{Filename: img.Filename, Size: img.Size, Path: img.Path})
	}

	order, err := h.orderRepo.CreateOrder(c.Request.Context(), models.Order{
		OwnerID:        userID,
		Role:           role,
		Title:          req.Title,
		Message:        req.Message,
		Priority:       priority,
		ReceiveStart:   req.ReceiveStart,
		ReceiveEnd:     req.ReceiveEnd,
		Address:        req.Address,
		EstimatedPrice: req.EstimatedPrice,
		Tip:            req.Tip,
	}, items, images)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create order")
		return
	}

	h.emitAudit(c, "INFO", "order created")
	respond(c, http.StatusCreated, order)
}

// GetOrder handles GET /orders/:order_id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderRepo.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, "order not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not load order")
		return
	}

	respond(c, http.StatusOK, order)
}

// ListOrders handles GET /orders. Listing is public; the "me" owner filter
// requires an authenticated caller and is resolved before it reaches storage.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	offset, limit, ok := parsePagination(c, 20)
	if !ok {
		return
	}

	filter := repositories.OrderFilter{Offset: offset, Limit: limit}

	if owner := c.Query("owner"); owner != "" {
		if owner == "me" {
			userID := c.GetInt("userID")
			if userID == 0 {
				respondError(c, http.StatusUnauthorized, "authentication required for owner=me")
				return
			}
			filter.OwnerID = &userID
		} else {
			ownerID, err := strconv.Atoi(owner)
			if err != nil {
				respondError(c, http.StatusBadRequest, "invalid owner filter")
				return
			}
			filter.OwnerID = &ownerID
		}
	}

	if roleParam := c.Query("role"); roleParam != "" {
		role, err := models.ParseOrderRole(roleParam)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		filter.Role = &role
	}

	if statusParam := c.Query("status"); statusParam != "" {
		status, err := models.ParseRequestStatus(statusParam)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		filter.Status = &status
	}

	if priorityParam := c.Query("priority"); priorityParam != "" {
		priority, err := models.ParseOrderPriority(priorityParam)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		filter.Priority = &priority
	}

	orders, total, err := h.orderRepo.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load orders")
		return
	}

	respond(c, http.StatusOK, gin.H{"orders": orders, "total": total})
}

// DeleteOrder handles DELETE /orders/:order_id; owner only.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
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
	if order.OwnerID != userID {
		respondError(c, http.StatusForbidden, "only the owner may delete an order")
		return
	}

	if err := h.orderRepo.DeleteOrder(c.Request.Context(), orderID); err != nil {
		respondError(c, http.StatusInternalServerError, "could not delete order")
		return
	}

	h.emitAudit(c, "INFO", "order deleted")
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
