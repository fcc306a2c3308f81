package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentaride-backend/internal/security"
	"rentaride-backend/internal/service"
)

// NewRouter builds the API surface. Every route requires a bearer token
// except the payment gateway callback.
func NewRouter(bookings service.BookingService, notifications service.NotificationService, tokens security.TokenManager) *mux.Router {
	bookingHandler := NewBookingHandler(bookings)
	paymentHandler := NewPaymentHandler(bookings)
	notificationHandler := NewNotificationHandler(notifications)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/payments/callback", paymentHandler.Callback).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tokens))

	authed.HandleFunc("/bookings", bookingHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/bookings", bookingHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}", bookingHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}/accept", bookingHandler.Accept).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/accept-revision", bookingHandler.AcceptRevision).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/cancel", bookingHandler.Cancel).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/refund-request", bookingHandler.RequestRefund).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/start", bookingHandler.ConfirmStart).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/return", bookingHandler.ConfirmEnd).Methods(http.MethodPost)

	authed.HandleFunc("/notifications", notificationHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id:[0-9]+}/read", notificationHandler.MarkAsRead).Methods(http.MethodPost)

	return router
}
