package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/eventix/eventix/internal/domain"
	"github.com/eventix/eventix/internal/service/tickets"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service tickets.TicketUseCase
}

type ticketResponse struct {
	ID       string `json:"id"`
	TierID   int64  `json:"tier_id"`
	OrderID  string `json:"order_id"`
	FullName string `json:"full_name"`
	Code     string `json:"code"`
	Status   string `json:"status"`
	IssuedAt string `json:"issued_at"`
	UsedAt   string `json:"used_at,omitempty"`
}

func NewTicketHandler(service tickets.TicketUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.GET("/:code", h.get)
	router.POST("/:code/redeem", h.redeem)
}

func (h *TicketHandler) get(c *gin.Context) {
	ticket, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(*ticket))
}

// redeem validates a QR code at the gate. Scanning the same code twice gets
// a conflict the second time.
func (h *TicketHandler) redeem(c *gin.Context) {
	ticket, err := h.service.Redeem(c.Request.Context(), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrTicketAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(*ticket))
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	resp := ticketResponse{
		ID:       t.ID,
		TierID:   t.TierID,
		OrderID:  t.OrderID,
		FullName: t.FullName,
		Code:     t.Code,
		Status:   string(t.Status),
		IssuedAt: t.IssuedAt.Format(time.RFC3339),
	}
	if t.UsedAt != nil {
		resp.UsedAt = t.UsedAt.Format(time.RFC3339)
	}
	return resp
}
