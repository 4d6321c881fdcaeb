package testutil

import (
	"net/http"
	"testing"

	storefrontapp "github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// DefaultPassword is used by RegisterOwner
const DefaultPassword = "secret123"

// Owner is a signed-up store owner
type Owner struct {
	Email        string
	StoreID      string
	AccessToken  string
	RefreshToken string
}

// RegisterOwner signs up an owner with a store named storeName
func (a *App) RegisterOwner(t *testing.T, email, storeName string) Owner {
	t.Helper()

	resp := a.Do(t, Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/register",
		Body: handler.RegisterRequest{
			Email:     email,
			Password:  DefaultPassword,
			StoreName: storeName,
			Whatsapp:  "+54 9 11 5555-1234",
		},
	}).RequireStatus(http.StatusCreated)

	login := DataAs[handler.LoginResponse](t, resp)
	return Owner{
		Email:        login.Owner.Email,
		StoreID:      login.Owner.StoreID,
		AccessToken:  login.Token.AccessToken,
		RefreshToken: login.Token.RefreshToken,
	}
}

// CreateCategory creates a category in the owner's store
func (a *App) CreateCategory(t *testing.T, owner Owner, name string) storefrontapp.CategoryResponse {
	t.Helper()

	resp := a.Do(t, Request{
		Method: http.MethodPost,
		Path:   "/api/v1/admin/categories",
		Token:  owner.AccessToken,
		Body:   storefrontapp.CategoryRequest{Name: name},
	}).RequireStatus(http.StatusCreated)
	return DataAs[storefrontapp.CategoryResponse](t, resp)
}

// CreateProduct creates a product with a PNG image in the owner's store
func (a *App) CreateProduct(t *testing.T, owner Owner, categoryID, name, price string) storefrontapp.ProductResponse {
	t.Helper()

	resp := a.Do(t, Request{
		Method: http.MethodPost,
		Path:   "/api/v1/admin/products",
		Token:  owner.AccessToken,
		Body: &Form{
			Fields: map[string]string{
				"name":        name,
				"description": name + " description",
				"price":       price,
				"category_id": categoryID,
			},
			Image: PNG,
		},
	}).RequireStatus(http.StatusCreated)
	return DataAs[storefrontapp.ProductResponse](t, resp)
}
