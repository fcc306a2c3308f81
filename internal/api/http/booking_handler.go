package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/service"
)

type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok || caller.Kind != domain.PartyKindRenter {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "only renters can create bookings", Code: "AUTHORIZATION"})
		return
	}

	var cmd service.CreateBookingCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "VALIDATION"})
		return
	}
	cmd.RenterID = caller.ID

	booking, err := h.bookings.CreateBooking(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated", Code: "UNAUTHENTICATED"})
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid booking id", Code: "VALIDATION"})
		return
	}

	booking, err := h.bookings.GetBooking(r.Context(), caller, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type bookingListResponse struct {
	Bookings []domain.Booking `json:"bookings"`
	Total    int32            `json:"total"`
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated", Code: "UNAUTHENTICATED"})
		return
	}

	status := r.URL.Query().Get("status")
	page, pageSize := pagination(r)

	var (
		bookings []domain.Booking
		total    int32
		err      error
	)
	if caller.Kind == domain.PartyKindOwner {
		bookings, total, err = h.bookings.ListBookingsForOwner(r.Context(), caller.ID, status, page, pageSize)
	} else {
		bookings, total, err = h.bookings.ListBookingsForRenter(r.Context(), caller.ID, status, page, pageSize)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingListResponse{Bookings: bookings, Total: total})
}

func (h *BookingHandler) Accept(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok || caller.Kind != domain.PartyKindOwner {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "only owners can accept bookings", Code: "AUTHORIZATION"})
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid booking id", Code: "VALIDATION"})
		return
	}

	var cmd service.AcceptBookingCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "VALIDATION"})
		return
	}
	cmd.BookingID = bookingID
	cmd.OwnerID = caller.ID

	booking, err := h.bookings.AcceptBooking(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) AcceptRevision(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok || caller.Kind != domain.PartyKindRenter {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "only renters can confirm revisions", Code: "AUTHORIZATION"})
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid booking id", Code: "VALIDATION"})
		return
	}

	booking, err := h.bookings.AcceptRevision(r.Context(), service.AcceptRevisionCommand{
		BookingID: bookingID,
		RenterID:  caller.ID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated", Code: "UNAUTHENTICATED"})
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid booking id", Code: "VALIDATION"})
		return
	}

	var cmd service.CancelBookingCommand
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&cmd)
	}
	cmd.BookingID = bookingID
	cmd.Actor = caller

	booking, err := h.bookings.CancelBooking(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok || caller.Kind != domain.PartyKindRenter {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "only renters can request refunds", Code: "AUTHORIZATION"})
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid booking id", Code: "VALIDATION"})
		return
	}

	var cmd service.RefundRequestCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "VALIDATION"})
		return
	}
	cmd.BookingID = bookingID
	cmd.RenterID = caller.ID

	booking, err := h.bookings.RequestRefund(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) ConfirmStart(w http.ResponseWriter, r *http.Request) {
	h.ownerLifecycle(w, r, h.bookings.ConfirmRentalStart)
}

func (h *BookingHandler) ConfirmEnd(w http.ResponseWriter, r *http.Request) {
	h.ownerLifecycle(w, r, h.bookings.ConfirmRentalEnd)
}

func (h *BookingHandler) ownerLifecycle(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error)) {
	caller, ok := CallerFromContext(r.Context())
	if !ok || caller.Kind != domain.PartyKindOwner {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "only owners can confirm handovers", Code: "AUTHORIZATION"})
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid booking id", Code: "VALIDATION"})
		return
	}

	booking, err := op(r.Context(), caller.ID, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			page = int32(v)
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 && v <= 100 {
			pageSize = int32(v)
		}
	}
	return page, pageSize
}
