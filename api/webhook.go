package api

import (
	"io"
	"net/http"

	"github.com/eventix/eventix/internal/service/orders"
	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the provider's payload signature.
const SignatureHeader = "Payment-Signature"

const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	reconciler *orders.WebhookReconciler
}

func NewWebhookHandler(reconciler *orders.WebhookReconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

func (h *WebhookHandler) Register(router *gin.RouterGroup) {
	router.POST("/payment", h.handle)
}

func (h *WebhookHandler) handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	status := h.reconciler.Handle(c.Request.Context(), body, c.GetHeader(SignatureHeader))
	c.Status(status)
}
