package handler

import (
	"github.com/gin-gonic/gin"
	storefrontapp "github.com/storefront/backend/internal/application/storefront"
)

// CatalogHandler serves the public storefront read by shoppers
type CatalogHandler struct {
	BaseHandler
	catalogService *storefrontapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *storefrontapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetStore godoc
// @ID           getPublicStore
// @Summary      Get store
// @Description  Return the public store profile with its theme colors
// @Tags         catalog
// @Produce      json
// @Param        storeId path string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[storefrontapp.PublicStoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /stores/{storeId} [get]
func (h *CatalogHandler) GetStore(c *gin.Context) {
	storeID, ok := h.pathUUID(c, "storeId")
	if !ok {
		return
	}

	store, err := h.catalogService.GetStore(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// ListCategories godoc
// @ID           listPublicCategories
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Param        storeId path string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[[]storefrontapp.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /stores/{storeId}/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	storeID, ok := h.pathUUID(c, "storeId")
	if !ok {
		return
	}

	categories, err := h.catalogService.ListCategories(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// ListProducts godoc
// @ID           listPublicProducts
// @Summary      List products
// @Description  Newest first. Search ignores case and accents; category_id=all disables the filter.
// @Tags         catalog
// @Produce      json
// @Param        storeId     path  string true  "Store ID" format(uuid)
// @Param        search      query string false "Search in name and description"
// @Param        category_id query string false "Category ID or all"
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Success      200 {object} APIResponse[[]storefrontapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /stores/{storeId}/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	storeID, ok := h.pathUUID(c, "storeId")
	if !ok {
		return
	}

	var query storefrontapp.ProductQuery
	if !h.bindQuery(c, &query) {
		return
	}

	page, err := h.catalogService.ListProducts(c.Request.Context(), storeID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListPromotions godoc
// @ID           listPublicPromotions
// @Summary      List active promotions
// @Tags         catalog
// @Produce      json
// @Param        storeId path string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[[]storefrontapp.PromotionResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /stores/{storeId}/promotions [get]
func (h *CatalogHandler) ListPromotions(c *gin.Context) {
	storeID, ok := h.pathUUID(c, "storeId")
	if !ok {
		return
	}

	promotions, err := h.catalogService.ListPromotions(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promotions)
}
