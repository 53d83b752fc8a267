package services

import (
	"context"
	"fmt"
	"math"

	"restaurant-site/models"
)

// CatalogStore is the part of the store the menu reads and writes.
type CatalogStore interface {
	CategoryStore
	ItemStore
}

// Catalog serves the menu: categories, items and chef's specials.
type Catalog struct {
	store CatalogStore
}

func NewCatalog(store CatalogStore) *Catalog {
	return &Catalog{store: store}
}

func (c *Catalog) ListActiveCategories(ctx context.Context) ([]models.MenuCategory, error) {
	categories, err := c.store.ListActiveCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (c *Catalog) CreateMenuCategory(ctx context.Context, in models.CreateMenuCategoryInput) (*models.MenuCategory, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	category, err := c.store.InsertCategory(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return category, nil
}

// ListItemsByCategory returns the available items of a category. An unknown
// category yields an empty list.
func (c *Catalog) ListItemsByCategory(ctx context.Context, categoryID int64) ([]models.MenuItem, error) {
	items, err := c.store.ListAvailableItemsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list items of category %d: %w", categoryID, err)
	}
	return items, nil
}

// GetItemDetails returns an item whether or not it is available.
func (c *Catalog) GetItemDetails(ctx context.Context, itemID int64) (*models.MenuItem, bool, error) {
	item, ok, err := c.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, false, fmt.Errorf("get item %d: %w", itemID, err)
	}
	return item, ok, nil
}

func (c *Catalog) CreateMenuItem(ctx context.Context, in models.CreateMenuItemInput) (*models.MenuItem, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	price, err := roundPrice(in.Price)
	if err != nil {
		return nil, err
	}
	in.Price = price
	if err := c.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	item, err := c.store.InsertItem(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return item, nil
}

// UpdateMenuItem merges patch into the stored item. ok is false when the
// item does not exist.
func (c *Catalog) UpdateMenuItem(ctx context.Context, id int64, patch models.UpdateMenuItemInput) (*models.MenuItem, bool, error) {
	if err := validateStruct(patch); err != nil {
		return nil, false, err
	}
	if patch.ImageURL.Value != nil {
		if err := validate.Var(*patch.ImageURL.Value, "url"); err != nil {
			return nil, false, &ValidationError{Field: "image_url", Message: "must be a valid URL"}
		}
	}

	if patch.Price != nil {
		p, err := roundPrice(*patch.Price)
		if err != nil {
			return nil, false, err
		}
		patch.Price = &p
	}

	current, ok, err := c.store.GetItem(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("get item %d: %w", id, err)
	}
	if !ok {
		return nil, false, nil
	}
	// nothing to write; updated_at stays as it was
	if patch.IsEmpty() {
		return current, true, nil
	}

	if patch.CategoryID != nil {
		if err := c.requireCategory(ctx, *patch.CategoryID); err != nil {
			return nil, false, err
		}
	}

	item, ok, err := c.store.UpdateItem(ctx, id, patch)
	if err != nil {
		return nil, false, fmt.Errorf("update item %d: %w", id, err)
	}
	return item, ok, nil
}

// ListChefsSpecials includes unavailable specials; callers show them as such.
func (c *Catalog) ListChefsSpecials(ctx context.Context) ([]models.MenuItem, error) {
	items, err := c.store.ListChefsSpecials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chef's specials: %w", err)
	}
	return items, nil
}

func (c *Catalog) requireCategory(ctx context.Context, id int64) error {
	ok, err := c.store.CategoryExists(ctx, id)
	if err != nil {
		return fmt.Errorf("check category %d: %w", id, err)
	}
	if !ok {
		return &ReferentialError{CategoryID: id}
	}
	return nil
}

// roundPrice rounds to cents; a price that rounds to zero is rejected.
func roundPrice(p float64) (float64, error) {
	rounded := math.Round(p*100) / 100
	if rounded <= 0 {
		return 0, &ValidationError{Field: "price", Message: "must be greater than 0"}
	}
	return rounded, nil
}
