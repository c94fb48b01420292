package catalog

import "github.com/kbukum/catalog/database"

// Organization groups products.
type Organization struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
	database.Timestamps
}

// TableName pins the table created by the migrations.
func (Organization) TableName() string { return "organizations" }

// Product is a catalog entry. SKU is optional but unique when set; a
// product may belong to at most one organization.
type Product struct {
	ID             int64   `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"not null" json:"name"`
	SKU            *string `gorm:"column:sku" json:"sku"`
	PriceCents     int64   `gorm:"not null" json:"price_cents"`
	OrganizationID *int64  `json:"organization_id"`
	database.Timestamps
}

// TableName pins the table created by the migrations.
func (Product) TableName() string { return "products" }
