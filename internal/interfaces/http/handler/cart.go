package handler

import (
	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartHandler serves the shopper cart of one store. Carts are keyed by the
// session resolved by middleware.Session and the store in the path.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) cartKey(c *gin.Context) (cart.Key, bool) {
	storeID, ok := h.pathUUID(c, "storeId")
	if !ok {
		return cart.Key{}, false
	}
	return cart.Key{SessionID: middleware.GetSessionID(c), TenantID: storeID}, true
}

// Get godoc
// @ID           getCart
// @Summary      Get cart
// @Tags         cart
// @Produce      json
// @Param        storeId      path   string true  "Store ID" format(uuid)
// @Param        X-Session-ID header string false "Shopper session"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /stores/{storeId}/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	key, ok := h.cartKey(c)
	if !ok {
		return
	}

	resp, err := h.cartService.Get(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add product to cart
// @Description  Add one unit of a product. Name and price are taken from the catalog.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        storeId      path   string                  true  "Store ID" format(uuid)
// @Param        X-Session-ID header string                  false "Shopper session"
// @Param        request      body   cartapp.AddItemRequest true  "Product"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /stores/{storeId}/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	key, ok := h.cartKey(c)
	if !ok {
		return
	}

	var req cartapp.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.cartService.Add(c.Request.Context(), key, req.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangeQuantity godoc
// @ID           changeCartItemQuantity
// @Summary      Change line quantity
// @Description  Add delta to the line quantity. The line is dropped when it reaches zero.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        storeId      path   string                         true  "Store ID" format(uuid)
// @Param        productId    path   string                         true  "Product ID"
// @Param        X-Session-ID header string                         false "Shopper session"
// @Param        request      body   cartapp.ChangeQuantityRequest true  "Delta"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /stores/{storeId}/cart/items/{productId} [patch]
func (h *CartHandler) ChangeQuantity(c *gin.Context) {
	key, ok := h.cartKey(c)
	if !ok {
		return
	}

	var req cartapp.ChangeQuantityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.cartService.ChangeQuantity(c.Request.Context(), key, c.Param("productId"), req.Delta)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove line
// @Tags         cart
// @Produce      json
// @Param        storeId      path   string true  "Store ID" format(uuid)
// @Param        productId    path   string true  "Product ID"
// @Param        X-Session-ID header string false "Shopper session"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /stores/{storeId}/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	key, ok := h.cartKey(c)
	if !ok {
		return
	}

	resp, err := h.cartService.Remove(c.Request.Context(), key, c.Param("productId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Clear godoc
// @ID           clearCart
// @Summary      Empty cart
// @Description  Remove every line. Requires confirm=true.
// @Tags         cart
// @Produce      json
// @Param        storeId      path   string true  "Store ID" format(uuid)
// @Param        confirm      query  bool   true  "Must be true"
// @Param        X-Session-ID header string false "Shopper session"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /stores/{storeId}/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	key, ok := h.cartKey(c)
	if !ok {
		return
	}
	if c.Query("confirm") != "true" {
		h.Error(c, dto.ErrCodeConfirmRequired, "Pass confirm=true to empty the cart")
		return
	}

	resp, err := h.cartService.Clear(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Checkout godoc
// @ID           checkoutCart
// @Summary      Compose WhatsApp order
// @Description  Build the order message and the wa.me link for the cart. The cart is kept.
// @Tags         cart
// @Produce      json
// @Param        storeId      path   string true  "Store ID" format(uuid)
// @Param        X-Session-ID header string false "Shopper session"
// @Success      200 {object} APIResponse[cartapp.CheckoutResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /stores/{storeId}/cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	key, ok := h.cartKey(c)
	if !ok {
		return
	}

	resp, err := h.cartService.Checkout(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
