package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/x67digital/marketplace/internal/application"
)

// TokenVerifier validates a bearer token and resolves the acting user.
type TokenVerifier interface {
	ParseAndValidate(raw string) (application.Actor, error)
}

type Handler struct {
	service    *application.Service
	verifier   TokenVerifier
	webhookKey string
	logger     *slog.Logger
}

func NewHandler(service *application.Service, verifier TokenVerifier, webhookKey string, logger *slog.Logger) *Handler {
	return &Handler{service: service, verifier: verifier, webhookKey: webhookKey, logger: logger}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware(handler.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Route("/v1", func(r chi.Router) {
		r.Get("/categories", handler.listCategories)
		r.Get("/cities", handler.listCities)

		r.Route("/ads", func(r chi.Router) {
			r.Get("/", handler.listAds)
			r.Get("/promoted", handler.listPromoted)
			r.Get("/{ad_id}", handler.getAd)

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/", handler.publishAd)
				r.Get("/mine", handler.listMyAds)
				r.Put("/{ad_id}", handler.updateAd)
				r.Delete("/{ad_id}", handler.deleteAd)
				r.Post("/{ad_id}/topup", handler.topUpAd)
				r.Put("/{ad_id}/auto-topup", handler.setAutoTopUp)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			// The gateway callback authenticates by order correlation, not
			// by bearer token.
			r.Post("/webhook", handler.paymentWebhook)
			r.Get("/webhook", handler.webhookVerification)

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/orders", handler.createPaymentOrder)
				r.Get("/orders/{order_code}", handler.verifyOrder)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/sellers/{seller_id}", handler.listSellerReviews)
			r.Get("/sellers/{seller_id}/stats", handler.sellerReviewStats)

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/", handler.createReview)
				r.Delete("/{review_id}", handler.deleteReview)
			})
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/", handler.listFavorites)
			r.Post("/{ad_id}", handler.addFavorite)
			r.Delete("/{ad_id}", handler.removeFavorite)
			r.Get("/{ad_id}", handler.checkFavorite)
		})

		r.Route("/referrals", func(r chi.Router) {
			r.Post("/track", handler.trackReferral)
			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Get("/me", handler.myReferralCode)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Put("/ads/{ad_id}/status", handler.moderateAd)
		})
	})
	return r
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
			return
		}
		actor, err := h.verifier.ParseAndValidate(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyActor, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
