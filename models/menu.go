package models

import (
	"encoding/json"
	"strings"
	"time"
)

// MenuCategory is a row from menu_categories.
type MenuCategory struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// MenuItem is a row from menu_items. Price keeps two decimal places.
type MenuItem struct {
	ID              int64     `json:"id"`
	CategoryID      int64     `json:"category_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Ingredients     string    `json:"ingredients"`
	PreparationInfo string    `json:"preparation_info"`
	Price           float64   `json:"price"`
	ImageURL        *string   `json:"image_url"`
	IsChefsSpecial  bool      `json:"is_chefs_special"`
	IsAvailable     bool      `json:"is_available"`
	DietaryInfo     *string   `json:"dietary_info"` // comma separated, e.g. "vegetarian,gluten-free"
	DisplayOrder    int       `json:"display_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DietaryTags splits DietaryInfo into trimmed, non-empty tags.
func (m *MenuItem) DietaryTags() []string {
	if m.DietaryInfo == nil {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(*m.DietaryInfo, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

type CreateMenuCategoryInput struct {
	Name         string  `json:"name" yaml:"name" validate:"required,notblank"`
	Description  *string `json:"description" yaml:"description"`
	DisplayOrder int     `json:"display_order" yaml:"display_order" validate:"gte=0"`
}

type CreateMenuItemInput struct {
	CategoryID      int64   `json:"category_id" yaml:"category_id"`
	Name            string  `json:"name" yaml:"name" validate:"required,notblank"`
	Description     string  `json:"description" yaml:"description" validate:"required"`
	Ingredients     string  `json:"ingredients" yaml:"ingredients" validate:"required"`
	PreparationInfo string  `json:"preparation_info" yaml:"preparation_info" validate:"required"`
	Price           float64 `json:"price" yaml:"price" validate:"gt=0"`
	ImageURL        *string `json:"image_url" yaml:"image_url" validate:"omitempty,url"`
	IsChefsSpecial  bool    `json:"is_chefs_special" yaml:"is_chefs_special"`
	DietaryInfo     *string `json:"dietary_info" yaml:"dietary_info"`
	DisplayOrder    int     `json:"display_order" yaml:"display_order" validate:"gte=0"`
}

// UpdateMenuItemInput is a sparse patch: nil fields keep their stored value.
// ImageURL and DietaryInfo can also be cleared with an explicit JSON null.
type UpdateMenuItemInput struct {
	CategoryID      *int64         `json:"category_id"`
	Name            *string        `json:"name" validate:"omitempty,notblank"`
	Description     *string        `json:"description" validate:"omitempty,min=1"`
	Ingredients     *string        `json:"ingredients" validate:"omitempty,min=1"`
	PreparationInfo *string        `json:"preparation_info" validate:"omitempty,min=1"`
	Price           *float64       `json:"price" validate:"omitempty,gt=0"`
	ImageURL        OptionalString `json:"image_url"`
	IsChefsSpecial  *bool          `json:"is_chefs_special"`
	IsAvailable     *bool          `json:"is_available"`
	DietaryInfo     OptionalString `json:"dietary_info"`
	DisplayOrder    *int           `json:"display_order" validate:"omitempty,gte=0"`
}

// IsEmpty reports whether the patch changes nothing.
func (u *UpdateMenuItemInput) IsEmpty() bool {
	return u.CategoryID == nil && u.Name == nil && u.Description == nil &&
		u.Ingredients == nil && u.PreparationInfo == nil && u.Price == nil &&
		!u.ImageURL.Set && u.IsChefsSpecial == nil && u.IsAvailable == nil &&
		!u.DietaryInfo.Set && u.DisplayOrder == nil
}

// Apply merges the present fields of the patch into item.
func (u *UpdateMenuItemInput) Apply(item *MenuItem) {
	if u.CategoryID != nil {
		item.CategoryID = *u.CategoryID
	}
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Description != nil {
		item.Description = *u.Description
	}
	if u.Ingredients != nil {
		item.Ingredients = *u.Ingredients
	}
	if u.PreparationInfo != nil {
		item.PreparationInfo = *u.PreparationInfo
	}
	if u.Price != nil {
		item.Price = *u.Price
	}
	if u.ImageURL.Set {
		item.ImageURL = u.ImageURL.Value
	}
	if u.IsChefsSpecial != nil {
		item.IsChefsSpecial = *u.IsChefsSpecial
	}
	if u.IsAvailable != nil {
		item.IsAvailable = *u.IsAvailable
	}
	if u.DietaryInfo.Set {
		item.DietaryInfo = u.DietaryInfo.Value
	}
	if u.DisplayOrder != nil {
		item.DisplayOrder = *u.DisplayOrder
	}
}

// OptionalString tells an absent JSON field apart from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// Some returns a set OptionalString holding s.
func Some(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}
