package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Booking *BookingHandler
	Payment *PaymentHandler
	Listing *ListingHandler
	Review  *ReviewHandler
	Health  *HealthHandler
}

// NewRouter wires every endpoint onto a ServeMux. Method and path matching
// use the net/http pattern syntax.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/listings", h.Listing.CreateListing)
	mux.HandleFunc("GET /api/listings", h.Listing.ListListings)
	mux.HandleFunc("GET /api/listings/mine", h.Listing.ListMyListings)
	mux.HandleFunc("GET /api/listings/{id}", h.Listing.GetListing)
	mux.HandleFunc("PUT /api/listings/{id}", h.Listing.UpdateListing)
	mux.HandleFunc("DELETE /api/listings/{id}", h.Listing.DeleteListing)
	mux.HandleFunc("GET /api/listings/{id}/reviews", h.Review.ListReviews)

	mux.HandleFunc("POST /api/bookings", h.Booking.CreateBooking)
	mux.HandleFunc("GET /api/bookings", h.Booking.ListBookings)
	mux.HandleFunc("GET /api/bookings/{id}", h.Booking.GetBooking)
	mux.HandleFunc("PATCH /api/bookings/{id}/cancel", h.Booking.CancelBooking)
	mux.HandleFunc("PATCH /api/bookings/{id}/confirm", h.Booking.ConfirmBooking)
	mux.HandleFunc("POST /api/bookings/{id}/payment", h.Payment.InitiatePayment)

	mux.HandleFunc("GET /api/payments/{id}", h.Payment.GetPayment)
	mux.HandleFunc("POST /api/payments/{id}/verify", h.Payment.VerifyPayment)
	// Gateway callback. The provider cannot carry our user identity, so this
	// route takes no X-User-ID and re-fetches the verdict from the gateway.
	mux.HandleFunc("POST /api/payments/verify", h.Payment.GatewayCallback)

	mux.HandleFunc("POST /api/reviews", h.Review.CreateReview)
	mux.HandleFunc("PUT /api/reviews/{id}", h.Review.UpdateReview)
	mux.HandleFunc("DELETE /api/reviews/{id}", h.Review.DeleteReview)

	return mux
}
