package handler

import (
	"github.com/gin-gonic/gin"
	storefrontapp "github.com/storefront/backend/internal/application/storefront"
)

// ProductHandler handles the admin product endpoints
type ProductHandler struct {
	BaseHandler
	productService *storefrontapp.ProductService
	maxImageSize   int64
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *storefrontapp.ProductService, maxImageSize int64) *ProductHandler {
	return &ProductHandler{productService: productService, maxImageSize: maxImageSize}
}

// List godoc
// @ID           listAdminProducts
// @Summary      List products
// @Description  List products newest first, optionally filtered by search text and category
// @Tags         admin-products
// @Produce      json
// @Param        search      query string false "Search in name and description"
// @Param        category_id query string false "Category ID or all"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]storefrontapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}

	var query storefrontapp.ProductQuery
	if !h.bindQuery(c, &query) {
		return
	}

	page, err := h.productService.List(c.Request.Context(), storeID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID godoc
// @ID           getAdminProduct
// @Summary      Get product
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[storefrontapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create godoc
// @ID           createAdminProduct
// @Summary      Create product
// @Description  Create a product from a multipart form. The image is required.
// @Tags         admin-products
// @Accept       multipart/form-data
// @Produce      json
// @Param        name        formData string true  "Name"
// @Param        description formData string true  "Description"
// @Param        price       formData string true  "Price, greater than 0"
// @Param        category_id formData string true  "Category ID" format(uuid)
// @Param        image       formData file   true  "Product image (JPEG or PNG, max 5 MiB)"
// @Success      201 {object} APIResponse[storefrontapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}

	var req storefrontapp.ProductRequest
	if !h.bind(c, &req) {
		return
	}
	img, ok := h.readImage(c, h.maxImageSize)
	if !ok {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), storeID, req, img)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update godoc
// @ID           updateAdminProduct
// @Summary      Update product
// @Description  Replace the product fields. Without a new image the current one is kept.
// @Tags         admin-products
// @Accept       multipart/form-data
// @Produce      json
// @Param        id          path     string true  "Product ID" format(uuid)
// @Param        name        formData string true  "Name"
// @Param        description formData string true  "Description"
// @Param        price       formData string true  "Price, greater than 0"
// @Param        category_id formData string true  "Category ID" format(uuid)
// @Param        image       formData file   false "New product image"
// @Success      200 {object} APIResponse[storefrontapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req storefrontapp.ProductRequest
	if !h.bind(c, &req) {
		return
	}
	img, ok := h.readImage(c, h.maxImageSize)
	if !ok {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), storeID, id, req, img)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @ID           deleteAdminProduct
// @Summary      Delete product
// @Tags         admin-products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), storeID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
