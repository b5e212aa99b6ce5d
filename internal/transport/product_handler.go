package transport

import (
	"io"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxImageUploadSize bounds multipart parsing for product images
const maxImageUploadSize = 10 << 20 // 10 MiB

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers all product routes. Mutations require an
// authenticated admin; reads are public.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/product", func(r chi.Router) {
		// Public routes
		r.Get("/get-by-product-id/{productId}", h.GetByID)
		r.Get("/get-all", h.GetAll)
		r.Get("/get-by-category-id/{categoryId}", h.GetByCategory)
		r.Get("/search", h.Search)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Post("/create", h.Create)
			r.Put("/update", h.Update)
			r.Delete("/delete/{productId}", h.Delete)
		})
	})
}

// Create handles product creation from a multipart form
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUploadSize); err != nil {
		h.logger.Debug("Failed to parse multipart form", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	categoryID, _ := strconv.ParseInt(r.FormValue("categoryId"), 10, 64)

	price, err := optionalDecimalForm(r, "price")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid price")
		return
	}
	quantity, err := optionalInt64Form(r, "quantity")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid quantity")
		return
	}

	imageData, imageName, err := readImageFile(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read image")
		return
	}

	in := service.CreateProductInput{
		CategoryID:  categoryID,
		ImageData:   imageData,
		ImageName:   imageName,
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		Quantity:    quantity,
	}

	resp, err := h.catalog.CreateProduct(r.Context(), in)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created")
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// Update handles partial product updates from a multipart form; only
// supplied fields are changed
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUploadSize); err != nil {
		h.logger.Debug("Failed to parse multipart form", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	productID, err := strconv.ParseInt(r.FormValue("productId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	categoryID, err := optionalInt64Form(r, "categoryId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}
	price, err := optionalDecimalForm(r, "price")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid price")
		return
	}

	imageData, imageName, err := readImageFile(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read image")
		return
	}

	in := service.UpdateProductInput{
		ProductID:   productID,
		CategoryID:  categoryID,
		ImageData:   imageData,
		ImageName:   imageName,
		Name:        optionalStringForm(r, "name"),
		Description: optionalStringForm(r, "description"),
		Price:       price,
	}

	resp, err := h.catalog.UpdateProduct(r.Context(), in)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product updated", zap.Int64("product_id", productID))
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	resp, err := h.catalog.DeleteProduct(r.Context(), productID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product deleted", zap.Int64("product_id", productID))
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// GetByID returns a single product
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	resp, err := h.catalog.GetProductByID(r.Context(), productID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// GetAll returns every product, newest first
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	resp, err := h.catalog.GetAllProducts(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// GetByCategory returns the products of one category
func (h *ProductHandler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	resp, err := h.catalog.GetProductsByCategory(r.Context(), categoryID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// Search returns products matching the searchValue query parameter
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	resp, err := h.catalog.SearchProduct(r.Context(), r.URL.Query().Get("searchValue"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// readImageFile reads the optional "image" part of a multipart form.
// A missing part is not an error; it returns empty data.
func readImageFile(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, "", nil
		}
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	return data, header.Filename, nil
}

func optionalStringForm(r *http.Request, field string) *string {
	if _, present := r.Form[field]; !present {
		return nil
	}
	value := r.FormValue(field)
	return &value
}

func optionalInt64Form(r *http.Request, field string) (*int64, error) {
	value := r.FormValue(field)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func optionalDecimalForm(r *http.Request, field string) (*decimal.Decimal, error) {
	value := r.FormValue(field)
	if value == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
