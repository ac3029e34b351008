// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/phantomos/phantomos-backend/internal/i18n"
	"github.com/phantomos/phantomos-backend/internal/services"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

type ProductHandler struct {
	products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	result, err := h.products.List(publisherID, params, c.Query("mapping_status"))
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}
	utils.PaginatedResponse(c, *result)
}

func (h *ProductHandler) Get(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.products.Get(publisherID, productID)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}
	utils.SuccessResponse(c, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	product, err := h.products.Create(publisherID, req)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}
	utils.CreatedResponse(c, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	product, err := h.products.Update(publisherID, productID, req)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}
	utils.SuccessResponse(c, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.products.Delete(publisherID, productID); err != nil {
		respondServiceError(c, err, "product")
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyProductDeleted)})
}

// Map confirms a product's Game IP and asset links.
func (h *ProductHandler) Map(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.MapProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	product, err := h.products.Map(publisherID, productID, req)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponseWithMeta(c, product, gin.H{
		"message": i18n.T(lang, i18n.KeyProductMappingSaved),
	})
}

func (h *ProductHandler) Unmap(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.products.Unmap(publisherID, productID)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}
	utils.SuccessResponse(c, product)
}
