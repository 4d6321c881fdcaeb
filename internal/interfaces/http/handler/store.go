package handler

import (
	"github.com/gin-gonic/gin"
	storefrontapp "github.com/storefront/backend/internal/application/storefront"
)

// StoreHandler serves the store profile of the signed-in owner
type StoreHandler struct {
	BaseHandler
	storeService *storefrontapp.StoreService
	maxImageSize int64
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *storefrontapp.StoreService, maxImageSize int64) *StoreHandler {
	return &StoreHandler{storeService: storeService, maxImageSize: maxImageSize}
}

// Get godoc
// @ID           getAdminStore
// @Summary      Get store profile
// @Description  Return the profile of the store managed by the signed-in owner
// @Tags         admin-store
// @Produce      json
// @Success      200 {object} APIResponse[storefrontapp.StoreResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/store [get]
func (h *StoreHandler) Get(c *gin.Context) {
	ownerID, storeID, ok := h.principal(c)
	if !ok {
		return
	}

	store, err := h.storeService.Get(c.Request.Context(), ownerID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// Update godoc
// @ID           updateAdminStore
// @Summary      Update store profile
// @Description  Update name, WhatsApp number, address, map link and colors
// @Tags         admin-store
// @Accept       json
// @Produce      json
// @Param        request body storefrontapp.UpdateStoreRequest true "Store profile"
// @Success      200 {object} APIResponse[storefrontapp.StoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/store [put]
func (h *StoreHandler) Update(c *gin.Context) {
	ownerID, storeID, ok := h.principal(c)
	if !ok {
		return
	}

	var req storefrontapp.UpdateStoreRequest
	if !h.bindJSON(c, &req) {
		return
	}

	store, err := h.storeService.Update(c.Request.Context(), ownerID, storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// UploadLogo godoc
// @ID           uploadAdminStoreLogo
// @Summary      Upload store logo
// @Description  Replace the store logo with a JPEG or PNG image
// @Tags         admin-store
// @Accept       multipart/form-data
// @Produce      json
// @Param        image formData file true "Logo image (JPEG or PNG, max 5 MiB)"
// @Success      200 {object} APIResponse[storefrontapp.StoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/store/logo [post]
func (h *StoreHandler) UploadLogo(c *gin.Context) {
	ownerID, storeID, ok := h.principal(c)
	if !ok {
		return
	}

	img, ok := h.readImage(c, h.maxImageSize)
	if !ok {
		return
	}

	store, err := h.storeService.UploadLogo(c.Request.Context(), ownerID, storeID, img)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}
