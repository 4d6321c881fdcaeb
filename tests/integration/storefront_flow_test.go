package integration

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	cartapp "github.com/storefront/backend/internal/application/cart"
	storefrontapp "github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorefront_ShopperCheckoutFlow(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			app := b.new(t)
			owner := app.RegisterOwner(t, "luna@example.com", "Tienda Luna")
			category := app.CreateCategory(t, owner, "Velas")
			product := app.CreateProduct(t, owner, category.ID.String(), "Vela de soja", "1500.50")
			storePath := "/api/v1/stores/" + owner.StoreID

			// public catalog
			store := testutil.DataAs[storefrontapp.PublicStoreResponse](t,
				app.Do(t, testutil.Request{Path: storePath}).RequireStatus(http.StatusOK))
			assert.Equal(t, "Tienda Luna", store.Name)

			listing := app.Do(t, testutil.Request{Path: storePath + "/products?search=soja"}).RequireStatus(http.StatusOK)
			products := testutil.DataAs[[]storefrontapp.ProductResponse](t, listing)
			require.Len(t, products, 1)
			assert.Equal(t, product.ID, products[0].ID)
			env := listing.Envelope()
			require.NotNil(t, env.Meta)
			assert.Equal(t, int64(1), env.Meta.Total)

			// the session is created on first contact and echoed back
			first := app.Do(t, testutil.Request{Path: storePath + "/cart"}).RequireStatus(http.StatusOK)
			session := first.Header().Get("X-Session-ID")
			require.NotEmpty(t, session)

			add := testutil.Request{
				Method:  http.MethodPost,
				Path:    storePath + "/cart/items",
				Session: session,
				Body:    cartapp.AddItemRequest{ProductID: product.ID.String()},
			}
			app.Do(t, add).RequireStatus(http.StatusOK)
			cart := testutil.DataAs[cartapp.CartResponse](t, app.Do(t, add).RequireStatus(http.StatusOK))
			require.Len(t, cart.Lines, 1)
			assert.Equal(t, 2, cart.Lines[0].Quantity)
			assert.Equal(t, "3001", cart.Total.String())

			checkout := testutil.DataAs[cartapp.CheckoutResponse](t, app.Do(t, testutil.Request{
				Method:  http.MethodPost,
				Path:    storePath + "/cart/checkout",
				Session: session,
			}).RequireStatus(http.StatusOK))
			assert.Equal(t, "5491155551234", checkout.Phone)
			assert.True(t, strings.HasPrefix(checkout.URL, "https://wa.me/5491155551234?text="))
			assert.Contains(t, checkout.Message, "Tienda Luna")
			assert.Contains(t, checkout.Message, "Vela de soja x2")

			decoded, err := url.QueryUnescape(checkout.EncodedMessage)
			require.NoError(t, err)
			assert.Equal(t, checkout.Message, decoded)

			// checkout keeps the cart
			cart = testutil.DataAs[cartapp.CartResponse](t, app.Do(t, testutil.Request{
				Path:    storePath + "/cart",
				Session: session,
			}).RequireStatus(http.StatusOK))
			assert.Equal(t, 2, cart.Count)

			cart = testutil.DataAs[cartapp.CartResponse](t, app.Do(t, testutil.Request{
				Method:  http.MethodPatch,
				Path:    storePath + "/cart/items/" + product.ID.String(),
				Session: session,
				Body:    cartapp.ChangeQuantityRequest{Delta: -1},
			}).RequireStatus(http.StatusOK))
			assert.Equal(t, 1, cart.Count)

			app.Do(t, testutil.Request{
				Method:  http.MethodDelete,
				Path:    storePath + "/cart",
				Session: session,
			}).AssertError(http.StatusBadRequest, "CONFIRMATION_REQUIRED")

			cart = testutil.DataAs[cartapp.CartResponse](t, app.Do(t, testutil.Request{
				Method:  http.MethodDelete,
				Path:    storePath + "/cart?confirm=true",
				Session: session,
			}).RequireStatus(http.StatusOK))
			assert.Empty(t, cart.Lines)

			app.Do(t, testutil.Request{
				Method:  http.MethodPost,
				Path:    storePath + "/cart/checkout",
				Session: session,
			}).AssertError(http.StatusBadRequest, "VALIDATION_ERROR")
		})
	}
}

func TestStorefront_SessionsAreIsolated(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			app := b.new(t)
			owner := app.RegisterOwner(t, "sol@example.com", "Tienda Sol")
			category := app.CreateCategory(t, owner, "Tazas")
			product := app.CreateProduct(t, owner, category.ID.String(), "Taza", "10")
			cartPath := "/api/v1/stores/" + owner.StoreID + "/cart"

			app.Do(t, testutil.Request{
				Method:  http.MethodPost,
				Path:    cartPath + "/items",
				Session: "shopper-a",
				Body:    cartapp.AddItemRequest{ProductID: product.ID.String()},
			}).RequireStatus(http.StatusOK)

			other := testutil.DataAs[cartapp.CartResponse](t, app.Do(t, testutil.Request{
				Path:    cartPath,
				Session: "shopper-b",
			}).RequireStatus(http.StatusOK))
			assert.Empty(t, other.Lines)

			mine := testutil.DataAs[cartapp.CartResponse](t, app.Do(t, testutil.Request{
				Path:    cartPath,
				Session: "shopper-a",
			}).RequireStatus(http.StatusOK))
			assert.Equal(t, 1, mine.Count)
		})
	}
}

func TestStorefront_AdminCatalogManagement(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			app := b.new(t)
			owner := app.RegisterOwner(t, "mar@example.com", "Tienda Mar")
			category := app.CreateCategory(t, owner, "Jabones")
			product := app.CreateProduct(t, owner, category.ID.String(), "Jabón", "250")

			// the uploaded image is served back from memory
			key := strings.TrimPrefix(product.ImageURL, "http://media.test/")
			media := app.Do(t, testutil.Request{Path: "/media/" + key}).RequireStatus(http.StatusOK)
			assert.Equal(t, "image/png", media.Header().Get("Content-Type"))
			assert.Equal(t, testutil.PNG, media.Body.Bytes())

			// products need an image
			app.Do(t, testutil.Request{
				Method: http.MethodPost,
				Path:   "/api/v1/admin/products",
				Token:  owner.AccessToken,
				Body: &testutil.Form{Fields: map[string]string{
					"name":        "Sin foto",
					"description": "x",
					"price":       "1",
					"category_id": category.ID.String(),
				}},
			}).AssertError(http.StatusBadRequest, "IMAGE_REQUIRED")

			promo := testutil.DataAs[storefrontapp.PromotionResponse](t, app.Do(t, testutil.Request{
				Method: http.MethodPost,
				Path:   "/api/v1/admin/promotions",
				Token:  owner.AccessToken,
				Body: &testutil.Form{Fields: map[string]string{
					"title":       "2x1",
					"description": "Todos los jabones",
					"type":        "offer",
				}},
			}).RequireStatus(http.StatusCreated))
			assert.True(t, promo.Active)

			publicPromos := "/api/v1/stores/" + owner.StoreID + "/promotions"
			promos := testutil.DataAs[[]storefrontapp.PromotionResponse](t,
				app.Do(t, testutil.Request{Path: publicPromos}).RequireStatus(http.StatusOK))
			assert.Len(t, promos, 1)

			toggled := testutil.DataAs[storefrontapp.PromotionResponse](t, app.Do(t, testutil.Request{
				Method: http.MethodPatch,
				Path:   "/api/v1/admin/promotions/" + promo.ID.String() + "/toggle",
				Token:  owner.AccessToken,
			}).RequireStatus(http.StatusOK))
			assert.False(t, toggled.Active)

			promos = testutil.DataAs[[]storefrontapp.PromotionResponse](t,
				app.Do(t, testutil.Request{Path: publicPromos}).RequireStatus(http.StatusOK))
			assert.Empty(t, promos, "inactive promotions are hidden from shoppers")

			stats := testutil.DataAs[storefrontapp.StatsResponse](t, app.Do(t, testutil.Request{
				Path:  "/api/v1/admin/stats",
				Token: owner.AccessToken,
			}).RequireStatus(http.StatusOK))
			assert.Equal(t, int64(1), stats.Products)
			assert.Equal(t, int64(1), stats.Categories)
			assert.Equal(t, int64(0), stats.ActivePromotions)

			app.Do(t, testutil.Request{
				Method: http.MethodDelete,
				Path:   "/api/v1/admin/products/" + product.ID.String(),
				Token:  owner.AccessToken,
			}).RequireStatus(http.StatusNoContent)
			assert.Zero(t, app.Images.Len(), "deleting a product removes its image")
		})
	}
}

func TestStorefront_TenantIsolation(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			app := b.new(t)
			ownerA := app.RegisterOwner(t, "a@example.com", "Tienda A")
			ownerB := app.RegisterOwner(t, "b@example.com", "Tienda B")
			category := app.CreateCategory(t, ownerA, "Cat A")
			product := app.CreateProduct(t, ownerA, category.ID.String(), "Producto A", "99")

			app.Do(t, testutil.Request{
				Path:  "/api/v1/admin/products/" + product.ID.String(),
				Token: ownerB.AccessToken,
			}).AssertError(http.StatusNotFound, "NOT_FOUND")

			app.Do(t, testutil.Request{
				Method: http.MethodDelete,
				Path:   "/api/v1/admin/categories/" + category.ID.String(),
				Token:  ownerB.AccessToken,
			}).AssertError(http.StatusNotFound, "NOT_FOUND")

			products := testutil.DataAs[[]storefrontapp.ProductResponse](t, app.Do(t, testutil.Request{
				Path: "/api/v1/stores/" + ownerB.StoreID + "/products",
			}).RequireStatus(http.StatusOK))
			assert.Empty(t, products)

			// a product of store A cannot be added to a cart of store B
			app.Do(t, testutil.Request{
				Method:  http.MethodPost,
				Path:    "/api/v1/stores/" + ownerB.StoreID + "/cart/items",
				Session: "shopper",
				Body:    cartapp.AddItemRequest{ProductID: product.ID.String()},
			}).AssertError(http.StatusNotFound, "NOT_FOUND")
		})
	}
}

func TestStorefront_Authentication(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			app := b.new(t)
			owner := app.RegisterOwner(t, "auth@example.com", "Tienda Auth")

			app.Do(t, testutil.Request{Path: "/api/v1/admin/store"}).
				AssertError(http.StatusUnauthorized, "UNAUTHORIZED")

			app.Do(t, testutil.Request{
				Method: http.MethodPost,
				Path:   "/api/v1/auth/register",
				Body: handler.RegisterRequest{
					Email:     "auth@example.com",
					Password:  "another1",
					StoreName: "Copia",
					Whatsapp:  "+54 11 4444 4444",
				},
			}).AssertError(http.StatusConflict, "CONFLICT")

			app.Do(t, testutil.Request{
				Method: http.MethodPost,
				Path:   "/api/v1/auth/login",
				Body:   handler.LoginRequest{Email: owner.Email, Password: "wrong-password"},
			}).AssertError(http.StatusUnauthorized, "INVALID_CREDENTIALS")

			login := testutil.DataAs[handler.LoginResponse](t, app.Do(t, testutil.Request{
				Method: http.MethodPost,
				Path:   "/api/v1/auth/login",
				Body:   handler.LoginRequest{Email: owner.Email, Password: testutil.DefaultPassword},
			}).RequireStatus(http.StatusOK))
			assert.Equal(t, owner.StoreID, login.Owner.StoreID)

			me := testutil.DataAs[handler.OwnerResponse](t, app.Do(t, testutil.Request{
				Path:  "/api/v1/auth/me",
				Token: login.Token.AccessToken,
			}).RequireStatus(http.StatusOK))
			assert.Equal(t, "auth@example.com", me.Email)

			refreshed := testutil.DataAs[handler.TokenResponse](t, app.Do(t, testutil.Request{
				Method: http.MethodPost,
				Path:   "/api/v1/auth/refresh",
				Body:   handler.RefreshTokenRequest{RefreshToken: login.Token.RefreshToken},
			}).RequireStatus(http.StatusOK))
			assert.NotEqual(t, login.Token.AccessToken, refreshed.AccessToken)

			// a rotated refresh token cannot be replayed
			app.Do(t, testutil.Request{
				Method: http.MethodPost,
				Path:   "/api/v1/auth/refresh",
				Body:   handler.RefreshTokenRequest{RefreshToken: login.Token.RefreshToken},
			}).AssertError(http.StatusUnauthorized, "TOKEN_REVOKED")

			app.Do(t, testutil.Request{
				Method: http.MethodPost,
				Path:   "/api/v1/auth/logout",
				Token:  refreshed.AccessToken,
			}).RequireStatus(http.StatusOK)

			app.Do(t, testutil.Request{
				Path:  "/api/v1/admin/store",
				Token: refreshed.AccessToken,
			}).AssertError(http.StatusUnauthorized, "TOKEN_REVOKED")
		})
	}
}

func TestStorefront_AuthRateLimit(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			app := b.new(t, testutil.WithAuthRateLimit(2, time.Minute))

			login := testutil.Request{
				Method: http.MethodPost,
				Path:   "/api/v1/auth/login",
				Body:   handler.LoginRequest{Email: "nobody@example.com", Password: "whatever"},
			}
			app.Do(t, login).AssertError(http.StatusUnauthorized, "INVALID_CREDENTIALS")
			app.Do(t, login).AssertError(http.StatusUnauthorized, "INVALID_CREDENTIALS")

			limited := app.Do(t, login)
			limited.AssertError(http.StatusTooManyRequests, "RATE_LIMITED")
			assert.NotEmpty(t, limited.Header().Get("Retry-After"))
		})
	}
}

func TestStorefront_HealthProbes(t *testing.T) {
	app := testutil.NewInMemoryApp(t)

	app.Do(t, testutil.Request{Path: "/health"}).RequireStatus(http.StatusOK)

	resp := app.Do(t, testutil.Request{Path: "/ready"}).RequireStatus(http.StatusOK)
	assert.JSONEq(t, `{"database":"ok"}`, extractChecks(t, resp))
}

func extractChecks(t *testing.T, resp *testutil.Response) string {
	t.Helper()

	var body handler.HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	checks, err := json.Marshal(body.Checks)
	require.NoError(t, err)
	return string(checks)
}
