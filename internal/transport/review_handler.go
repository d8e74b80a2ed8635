package transport

import (
	"net/http"

	"github.com/OyamaKema/Hardware-Jack/internal/domain"
	"github.com/OyamaKema/Hardware-Jack/internal/middleware"
	"github.com/OyamaKema/Hardware-Jack/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SubmitReviewRequest is a customer review submission.
type SubmitReviewRequest struct {
	Name   string `json:"name" validate:"required"`
	Study  string `json:"study"`
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Date   string `json:"date"`
}

// DeleteReviewRequest identifies a review to moderate away.
type DeleteReviewRequest struct {
	ID string `json:"id" validate:"required"`
}

// ReviewResponse reports moderation success.
type ReviewResponse struct {
	Success bool `json:"success"`
}

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	reviews service.ReviewService
	logger  *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

// RegisterRoutes registers review routes; deletion sits behind the admin
// middleware.
func (h *ReviewHandler) RegisterRoutes(r chi.Router, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/reviews", func(r chi.Router) {
		r.Get("/", h.ListReviews)
		r.Post("/", h.SubmitReview)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Post("/delete", h.DeleteReview)
		})
	})
}

// ListReviews returns all reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list reviews", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}

// SubmitReview appends a customer review
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req SubmitReviewRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Review validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviews.Submit(r.Context(), domain.Review{
		Name:   req.Name,
		Study:  req.Study,
		Text:   req.Text,
		Rating: req.Rating,
		Date:   req.Date,
	})
	if err != nil {
		h.logger.Error("Review submission failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to submit review")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, review)
}

// DeleteReview removes a review; a nonexistent id still succeeds.
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	var req DeleteReviewRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Review delete validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.reviews.Delete(r.Context(), req.ID); err != nil {
		h.logger.Error("Review deletion failed", zap.String("id", req.ID), zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusInternalServerError, ReviewResponse{Success: false})
		return
	}

	h.logger.Info("Review deleted", zap.String("review_id", req.ID))
	middleware.RespondWithJSON(w, http.StatusOK, ReviewResponse{Success: true})
}
