package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/eventix/eventix/internal/domain"
	"github.com/eventix/eventix/internal/service/catalog"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type EventHandler struct {
	service catalog.CatalogUseCase
}

type createEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
}

type createTierRequest struct {
	Category     string `json:"category"`
	Price        string `json:"price"`
	Availability int    `json:"availability"`
}

type updateTierPriceRequest struct {
	Price string `json:"price"`
}

type tierResponse struct {
	ID           int64  `json:"id"`
	EventID      int64  `json:"event_id"`
	Category     string `json:"category"`
	Price        string `json:"price"`
	Availability int    `json:"availability"`
}

type eventResponse struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	StartsAt    string         `json:"starts_at"`
	Tiers       []tierResponse `json:"tiers"`
}

func NewEventHandler(service catalog.CatalogUseCase) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) Register(events, tiers *gin.RouterGroup) {
	events.GET("/", h.list)
	events.GET("/:id", h.get)
	events.POST("/", h.create)
	events.POST("/:id/tiers", h.createTier)
	tiers.DELETE("/:id", h.deleteTier)
	tiers.PATCH("/:id/price", h.updateTierPrice)
}

func (h *EventHandler) list(c *gin.Context) {
	events, err := h.service.ListEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	c.JSON(http.StatusOK, out)
}

func (h *EventHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	event, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toEventResponse(*event))
}

func (h *EventHandler) create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	event := &domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
	}
	if err := h.service.CreateEvent(c.Request.Context(), event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toEventResponse(*event))
}

func (h *EventHandler) createTier(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req createTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}
	if req.Availability < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "availability must not be negative"})
		return
	}

	tier := &domain.TicketTier{
		EventID:      eventID,
		Category:     req.Category,
		Price:        price,
		Availability: req.Availability,
	}
	if err := h.service.CreateTier(c.Request.Context(), tier); err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrTierExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, toTierResponse(*tier))
}

func (h *EventHandler) deleteTier(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.DeleteTier(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrTierNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrTierInUse):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) updateTierPrice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateTierPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	if err := h.service.UpdateTierPrice(c.Request.Context(), id, price); err != nil {
		if errors.Is(err, domain.ErrTierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func toEventResponse(e domain.Event) eventResponse {
	tiers := make([]tierResponse, 0, len(e.Tiers))
	for _, t := range e.Tiers {
		tiers = append(tiers, toTierResponse(t))
	}
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt.Format(time.RFC3339),
		Tiers:       tiers,
	}
}

func toTierResponse(t domain.TicketTier) tierResponse {
	return tierResponse{
		ID:           t.ID,
		EventID:      t.EventID,
		Category:     t.Category,
		Price:        t.Price.StringFixed(2),
		Availability: t.Availability,
	}
}
