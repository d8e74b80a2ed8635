package transport

import (
	"errors"
	"net/http"

	"github.com/OyamaKema/Hardware-Jack/internal/fetch"
	"github.com/OyamaKema/Hardware-Jack/internal/middleware"
	"github.com/OyamaKema/Hardware-Jack/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ImportRequest is the ingestion payload: one listing URL plus the
// operator-selected category.
type ImportRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Category string `json:"category" validate:"required"`
}

// ImportResponse mirrors what the admin page expects. Failures carry only
// the success flag; diagnostics stay in the server log.
type ImportResponse struct {
	Success           bool            `json:"success"`
	Product           *productPayload `json:"product,omitempty"`
	NeedsManualReview bool            `json:"needsManualReview,omitempty"`
}

type productPayload struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Category    string   `json:"category"`
}

// ManageRequest is the inventory mutation payload.
type ManageRequest struct {
	Action        string         `json:"action" validate:"required,oneof=UPDATE DELETE REPRICE"`
	ID            string         `json:"id" validate:"required"`
	UpdatedFields map[string]any `json:"updatedFields,omitempty"`
	BasePrice     int            `json:"basePrice,omitempty"`
}

// ManageResponse reports mutation success.
type ManageResponse struct {
	Success bool `json:"success"`
}

// CatalogHandler handles HTTP requests for the product catalog.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers catalog routes. The admin middleware guards the
// mutating surface; the rate limiter wraps only the import endpoint.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, adminMiddleware, importLimiter func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		// Storefront reads
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)

		// Operator surface
		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.With(importLimiter).Post("/import", h.Import)
			r.Post("/inventory/manage", h.Manage)
		})
	})
}

// Import handles one-listing ingestion
func (h *CatalogHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Import validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.catalog.Import(r.Context(), req.URL, req.Category)
	if err != nil {
		h.logger.Error("Import failed",
			zap.String("url", req.URL),
			zap.String("category", req.Category),
			zap.Error(err),
		)

		status := http.StatusInternalServerError
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) {
			status = http.StatusBadGateway
		}
		middleware.RespondWithJSON(w, status, ImportResponse{Success: false})
		return
	}

	p := result.Product
	middleware.RespondWithJSON(w, http.StatusOK, ImportResponse{
		Success:           true,
		NeedsManualReview: result.NeedsManualReview,
		Product: &productPayload{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Image:       p.Image,
			Images:      p.Images,
			Description: p.Description,
			URL:         p.URL,
			Category:    p.Category,
		},
	})
}

// Manage handles inventory mutations (UPDATE, DELETE, REPRICE)
func (h *CatalogHandler) Manage(w http.ResponseWriter, r *http.Request) {
	var req ManageRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Manage validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch req.Action {
	case "UPDATE":
		err = h.catalog.Update(r.Context(), req.ID, req.UpdatedFields)
	case "DELETE":
		err = h.catalog.Delete(r.Context(), req.ID)
	case "REPRICE":
		if req.BasePrice <= 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "basePrice must be positive")
			return
		}
		err = h.catalog.Reprice(r.Context(), req.ID, req.BasePrice)
	}

	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithJSON(w, http.StatusNotFound, ManageResponse{Success: false})
			return
		}
		h.logger.Error("Inventory mutation failed",
			zap.String("action", req.Action),
			zap.String("id", req.ID),
			zap.Error(err),
		)
		middleware.RespondWithJSON(w, http.StatusInternalServerError, ManageResponse{Success: false})
		return
	}

	h.logger.Info("Inventory mutation applied",
		zap.String("action", req.Action),
		zap.String("id", req.ID),
	)
	middleware.RespondWithJSON(w, http.StatusOK, ManageResponse{Success: true})
}

// ListProducts returns the catalog, optionally filtered by category
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns a single product by id
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.String("id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}
