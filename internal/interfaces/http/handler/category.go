package handler

import (
	"github.com/gin-gonic/gin"
	storefrontapp "github.com/storefront/backend/internal/application/storefront"
)

// CategoryHandler handles the admin category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *storefrontapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *storefrontapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List godoc
// @ID           listAdminCategories
// @Summary      List categories
// @Description  List the categories of the store ordered by name
// @Tags         admin-categories
// @Produce      json
// @Success      200 {object} APIResponse[[]storefrontapp.CategoryResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}

	categories, err := h.categoryService.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// GetByID godoc
// @ID           getAdminCategory
// @Summary      Get category
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[storefrontapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Create godoc
// @ID           createAdminCategory
// @Summary      Create category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        request body storefrontapp.CategoryRequest true "Category"
// @Success      201 {object} APIResponse[storefrontapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}

	var req storefrontapp.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Update godoc
// @ID           updateAdminCategory
// @Summary      Update category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body storefrontapp.CategoryRequest true "Category"
// @Success      200 {object} APIResponse[storefrontapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req storefrontapp.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete godoc
// @ID           deleteAdminCategory
// @Summary      Delete category
// @Description  Delete a category. Its products stay and lose their category.
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[storefrontapp.DeleteCategoryResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.categoryService.Delete(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
