package http

import (
	"encoding/json"
	"net/http"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/service"
)

// PaymentHandler receives callbacks from the external payment gateway.
// The callback route sits outside the auth middleware; the gateway
// authenticates with the txn id it was issued at checkout.
type PaymentHandler struct {
	bookings service.BookingService
}

func NewPaymentHandler(bookings service.BookingService) *PaymentHandler {
	return &PaymentHandler{bookings: bookings}
}

type paymentCallbackRequest struct {
	BookingID   int32                `json:"booking_id"`
	TxnID       string               `json:"txn_id"`
	AmountCents int64                `json:"amount_cents"`
	Method      domain.PaymentMethod `json:"method"`
}

func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var req paymentCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "VALIDATION"})
		return
	}

	booking, err := h.bookings.ConfirmPayment(r.Context(), service.ConfirmPaymentCommand{
		BookingID:   req.BookingID,
		TxnID:       req.TxnID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
