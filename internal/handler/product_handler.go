package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ecopoints/kiosk_api/internal/models"
	"github.com/ecopoints/kiosk_api/internal/service"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

// ProductHandler exposes the deposit whitelist.
type ProductHandler struct {
	products *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListProducts returns the full whitelist (preloaded by the kiosk at boot).
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get products")
		return
	}
	utils.Success(c, 200, "Products retrieved", gin.H{"products": products})
}

type createProductRequest struct {
	Barcode     string `json:"barcode" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	PointsValue int    `json:"pointsValue"`
}

// CreateProduct whitelists a new item (admin).
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "barcode and name are required")
		return
	}

	product, err := h.products.Create(c.Request.Context(), req.Barcode, req.Name, models.ProductCategory(req.Category), req.PointsValue)
	if err != nil {
		if errors.Is(err, utils.ErrProductExists) {
			utils.Error(c, 409, "PRODUCT_EXISTS", "This barcode is already whitelisted")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create product")
		return
	}
	utils.Success(c, 201, "Product created", product)
}

// DeleteProduct removes an item from the whitelist (admin).
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("barcode")); err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "No such barcode in the whitelist")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete product")
		return
	}
	utils.Success(c, 200, "Product deleted", nil)
}
