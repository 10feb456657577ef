package models

import "aiqr-api/store"

// Restaurant is the vendor account. Tables and categories are independent
// documents referenced by ordered id arrays.
type Restaurant struct {
	Base
	VendorName      string     `json:"vendor_name" gorm:"not null"`
	RestaurantName  string     `json:"restaurant_name" gorm:"not null"`
	Contact         string     `json:"contact" gorm:"uniqueIndex;size:10;not null"`
	Address         string     `json:"address" gorm:"not null"`
	Image           string     `json:"image,omitempty"`
	PasswordHash    string     `json:"-" gorm:"not null"`
	ContactVerified bool       `json:"is_contact_verified" gorm:"default:false"`
	TableIDs        []string   `json:"table_ids" gorm:"column:table_ids;serializer:json"`
	CategoryIDs     []string   `json:"category_ids" gorm:"column:category_ids;serializer:json"`
	Tables          []Table    `json:"tables,omitempty" gorm:"-"`
	Categories      []Category `json:"categories,omitempty" gorm:"-"`
}

func (Restaurant) TableName() string { return "restaurants" }

func (r *Restaurant) Relation(name string) (store.Relation, bool) {
	switch name {
	case "tables":
		return store.Relation{Field: "table_ids", Collection: store.Tables, IDs: r.TableIDs, Into: &r.Tables}, true
	case "categories":
		return store.Relation{
			Field:      "category_ids",
			Collection: store.Categories,
			IDs:        r.CategoryIDs,
			Into:       &r.Categories,
			Loaded: func() []store.Expander {
				out := make([]store.Expander, 0, len(r.Categories))
				for i := range r.Categories {
					out = append(out, &r.Categories[i])
				}
				return out
			},
		}, true
	}
	return store.Relation{}, false
}

type Table struct {
	Base
	TableNo      int  `json:"table_no" gorm:"not null"`
	TablePasskey *int `json:"-"`
}

func (Table) TableName() string { return "tables" }

type Category struct {
	Base
	Name    string     `json:"category_name" gorm:"not null"`
	ItemIDs []string   `json:"item_ids" gorm:"column:item_ids;serializer:json"`
	Items   []MenuItem `json:"items,omitempty" gorm:"-"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) Relation(name string) (store.Relation, bool) {
	if name != "items" {
		return store.Relation{}, false
	}
	return store.Relation{Field: "item_ids", Collection: store.MenuItems, IDs: c.ItemIDs, Into: &c.Items}, true
}

type MenuItem struct {
	Base
	Name        string   `json:"item_name" gorm:"not null"`
	Price       float64  `json:"item_price" gorm:"not null"`
	Discount    *float64 `json:"item_discount,omitempty"`
	Description string   `json:"item_description,omitempty"`
	Ingredients []string `json:"item_ingredients,omitempty" gorm:"serializer:json"`
	Image       string   `json:"item_image,omitempty"`
	ChefSpecial bool     `json:"chef_special"`
	IsSpicy     bool     `json:"is_spicy"`
	MustTry     bool     `json:"must_try"`
}

func (MenuItem) TableName() string { return "menu_items" }
