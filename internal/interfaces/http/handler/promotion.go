package handler

import (
	"github.com/gin-gonic/gin"
	storefrontapp "github.com/storefront/backend/internal/application/storefront"
)

// PromotionHandler handles the admin promotion endpoints
type PromotionHandler struct {
	BaseHandler
	promotionService *storefrontapp.PromotionService
	maxImageSize     int64
}

// NewPromotionHandler creates a new PromotionHandler
func NewPromotionHandler(promotionService *storefrontapp.PromotionService, maxImageSize int64) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService, maxImageSize: maxImageSize}
}

// List godoc
// @ID           listAdminPromotions
// @Summary      List promotions
// @Description  List active and inactive promotions, newest first
// @Tags         admin-promotions
// @Produce      json
// @Success      200 {object} APIResponse[[]storefrontapp.PromotionResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/promotions [get]
func (h *PromotionHandler) List(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}

	promotions, err := h.promotionService.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promotions)
}

// GetByID godoc
// @ID           getAdminPromotion
// @Summary      Get promotion
// @Tags         admin-promotions
// @Produce      json
// @Param        id path string true "Promotion ID" format(uuid)
// @Success      200 {object} APIResponse[storefrontapp.PromotionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/promotions/{id} [get]
func (h *PromotionHandler) GetByID(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	promotion, err := h.promotionService.GetByID(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promotion)
}

// Create godoc
// @ID           createAdminPromotion
// @Summary      Create promotion
// @Description  Create a promotion from a multipart form or JSON body. Type defaults to discount and active to true.
// @Tags         admin-promotions
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Param        title       formData string true  "Title"
// @Param        description formData string true  "Description"
// @Param        type        formData string false "discount, shipping or offer"
// @Param        active      formData bool   false "Shown on the storefront"
// @Param        image       formData file   false "Promotion image (JPEG or PNG, max 5 MiB)"
// @Success      201 {object} APIResponse[storefrontapp.PromotionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/promotions [post]
func (h *PromotionHandler) Create(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}

	var req storefrontapp.PromotionRequest
	if !h.bind(c, &req) {
		return
	}
	img, ok := h.readImage(c, h.maxImageSize)
	if !ok {
		return
	}

	promotion, err := h.promotionService.Create(c.Request.Context(), storeID, req, img)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, promotion)
}

// Update godoc
// @ID           updateAdminPromotion
// @Summary      Update promotion
// @Description  Replace the promotion fields. Without a new image the current one is kept.
// @Tags         admin-promotions
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Param        id          path     string true  "Promotion ID" format(uuid)
// @Param        title       formData string true  "Title"
// @Param        description formData string true  "Description"
// @Param        type        formData string false "discount, shipping or offer"
// @Param        active      formData bool   false "Shown on the storefront"
// @Param        image       formData file   false "New promotion image"
// @Success      200 {object} APIResponse[storefrontapp.PromotionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/promotions/{id} [put]
func (h *PromotionHandler) Update(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req storefrontapp.PromotionRequest
	if !h.bind(c, &req) {
		return
	}
	img, ok := h.readImage(c, h.maxImageSize)
	if !ok {
		return
	}

	promotion, err := h.promotionService.Update(c.Request.Context(), storeID, id, req, img)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promotion)
}

// Toggle godoc
// @ID           toggleAdminPromotion
// @Summary      Toggle promotion
// @Description  Flip the active flag of a promotion
// @Tags         admin-promotions
// @Produce      json
// @Param        id path string true "Promotion ID" format(uuid)
// @Success      200 {object} APIResponse[storefrontapp.PromotionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/promotions/{id}/toggle [patch]
func (h *PromotionHandler) Toggle(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	promotion, err := h.promotionService.Toggle(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promotion)
}

// SetActive godoc
// @ID           setAdminPromotionActive
// @Summary      Show or hide promotion
// @Tags         admin-promotions
// @Accept       json
// @Produce      json
// @Param        id      path string                                  true "Promotion ID" format(uuid)
// @Param        request body storefrontapp.SetPromotionActiveRequest true "Active flag"
// @Success      200 {object} APIResponse[storefrontapp.PromotionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/promotions/{id}/active [put]
func (h *PromotionHandler) SetActive(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req storefrontapp.SetPromotionActiveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	promotion, err := h.promotionService.SetActive(c.Request.Context(), storeID, id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promotion)
}

// Delete godoc
// @ID           deleteAdminPromotion
// @Summary      Delete promotion
// @Tags         admin-promotions
// @Param        id path string true "Promotion ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/promotions/{id} [delete]
func (h *PromotionHandler) Delete(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.promotionService.Delete(c.Request.Context(), storeID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
