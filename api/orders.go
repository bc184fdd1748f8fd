package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/eventix/eventix/internal/domain"
	"github.com/eventix/eventix/internal/service/orders"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service orders.OrderUseCase
}

type createOrderRequest struct {
	TierID   int64  `json:"tier_id"`
	Quantity int    `json:"quantity"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type orderResponse struct {
	ID              string `json:"id"`
	TierID          int64  `json:"tier_id"`
	Quantity        int    `json:"quantity"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Status          string `json:"status"`
	PriceAtPurchase string `json:"price_at_purchase"`
	Total           string `json:"total"`
	CreatedAt       string `json:"created_at"`
	PaymentURL      string `json:"payment_url,omitempty"`
}

func NewOrderHandler(service orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.POST("/:id/pay", h.pay)
	router.POST("/:id/cancel", h.cancel)
}

// RegisterPayments wires the browser-return endpoints the gateway redirects
// to after hosted checkout. The success page never fulfills anything; the
// webhook does.
func (h *OrderHandler) RegisterPayments(router *gin.RouterGroup) {
	router.GET("/success", h.paymentSuccess)
	router.GET("/cancel", h.paymentCancel)
}

func (h *OrderHandler) create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), orders.CreateOrderInput{
		TierID:   req.TierID,
		Quantity: req.Quantity,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientInventory):
			c.JSON(http.StatusConflict, gin.H{"error": "sorry, this ticket is now sold out"})
		case errors.Is(err, domain.ErrTierNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	resp := toOrderResponse(*order)
	resp.PaymentURL = "/orders/" + order.ID + "/pay"
	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) get(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// pay creates the hosted checkout session and sends the buyer's browser to
// the gateway. A gateway error has already failed the order and restocked;
// the buyer lands on the cancel flow.
func (h *OrderHandler) pay(c *gin.Context) {
	id := c.Param("id")
	redirectURL, err := h.service.StartPayment(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrOrderNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrGatewaySession):
			c.Redirect(http.StatusSeeOther, "/payments/cancel?order_id="+id)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Redirect(http.StatusSeeOther, redirectURL)
}

func (h *OrderHandler) cancel(c *gin.Context) {
	order, err := h.service.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func (h *OrderHandler) paymentSuccess(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Query("order_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "thanks for your purchase, your tickets are on the way",
		"order":   toOrderResponse(*order),
	})
}

func (h *OrderHandler) paymentCancel(c *gin.Context) {
	id := c.Query("order_id")
	order, err := h.service.CancelOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "payment was cancelled",
		"order":   toOrderResponse(*order),
	})
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		TierID:          o.TierID,
		Quantity:        o.Quantity,
		FullName:        o.FullName,
		Email:           o.Email,
		Status:          string(o.Status),
		PriceAtPurchase: o.PriceAtPurchase.StringFixed(2),
		Total:           o.Total().StringFixed(2),
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
}
