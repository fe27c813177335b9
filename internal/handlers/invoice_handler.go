package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopcore/internal/services"
)

type InvoiceHandler struct {
	invoices services.InvoiceService
}

func NewInvoiceHandler(invoices services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// @Summary      Email an invoice
// @Description  Renders the invoice to PDF and sends it to the customer (or an explicit recipient).
// @Tags         Invoices
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true   "Invoice ID"
// @Param        request  body      object{recipient=string} false  "Optional recipient override"
// @Success      200      {object}  handlers.Response
// @Failure      400      {object}  handlers.Response
// @Failure      404      {object}  handlers.Response
// @Router       /invoices/{id}/email [post]
func (h *InvoiceHandler) EmailInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid invoice id", nil)
		return
	}

	var req struct {
		Recipient string `json:"recipient"`
	}
	// body is optional
	_ = c.ShouldBindJSON(&req)

	if err := h.invoices.EmailInvoice(id, req.Recipient); err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			respondError(c, http.StatusNotFound, "invoice not found", nil)
			return
		}
		respondServiceError(c, err)
		return
	}
	respondOK(c, "invoice sent", nil)
}
