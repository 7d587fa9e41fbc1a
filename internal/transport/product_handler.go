package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"autoparts-store/internal/domain"
	"autoparts-store/internal/middleware"
	"autoparts-store/internal/repository"
	"autoparts-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest is the payload for adding a product
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Article     string          `json:"article"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	ImageURL    string          `json:"image_url"`
	CategoryID  *int64          `json:"category_id"`
	Stock       int             `json:"stock"`
}

// UpdateProductRequest carries the product id plus the fields to change
type UpdateProductRequest struct {
	ID int64 `json:"id"`
	domain.ProductPatch
}

// UpdateProductResponse acknowledges an update
type UpdateProductResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// ProductHandler handles catalog reads and admin writes
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.Get)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Post("/", h.Create)
			r.Put("/", h.Update)
		})
	})
}

// Get returns one product when ?id is present, otherwise the (filtered) list
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if raw := query.Get("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
			return
		}

		product, err := h.productService.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
				return
			}
			h.logger.Error("Failed to get product", zap.Int64("product_id", id), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
			return
		}

		middleware.RespondWithJSON(w, http.StatusOK, product)
		return
	}

	var categoryID *int64
	if raw := query.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		categoryID = &id
	}

	products, err := h.productService.List(r.Context(), categoryID)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Create product decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Article:     req.Article,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		Stock:       req.Stock,
	}

	if err := h.productService.Create(r.Context(), product); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProduct):
			middleware.RespondWithError(w, http.StatusBadRequest, "Name, article and valid price required")
		case errors.Is(err, service.ErrInvalidDiscount):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	h.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("article", product.Article),
		zap.Int64("by_user", userID),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update changes the fields present in the request body
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Update product decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.productService.Update(r.Context(), req.ID, req.ProductPatch); err != nil {
		switch {
		case errors.Is(err, service.ErrProductIDNeeded):
			middleware.RespondWithError(w, http.StatusBadRequest, "Product ID required")
		case errors.Is(err, repository.ErrNothingToUpdate):
			middleware.RespondWithError(w, http.StatusBadRequest, "No fields to update")
		case errors.Is(err, service.ErrInvalidProduct), errors.Is(err, service.ErrInvalidDiscount):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		default:
			h.logger.Error("Failed to update product", zap.Int64("product_id", req.ID), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	h.logger.Info("Product updated", zap.Int64("product_id", req.ID))
	middleware.RespondWithJSON(w, http.StatusOK, UpdateProductResponse{Success: true, ID: req.ID})
}
