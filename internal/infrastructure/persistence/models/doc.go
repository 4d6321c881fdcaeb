// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: Base persistence models (BaseModel, StoreScopedModel)
// - store.go: Store profile and theme
// - catalog.go: Categories, products and promotions
// - identity.go: Store owners
package models

// All returns every model managed by AutoMigrate, in dependency order
func All() []any {
	return []any{
		&OwnerModel{},
		&StoreModel{},
		&CategoryModel{},
		&ProductModel{},
		&PromotionModel{},
	}
}
