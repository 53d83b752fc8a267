package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-site/memstore"
	"restaurant-site/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock advances one second per call so created_at values differ.
func tickingClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestCatalog(t *testing.T) (*Catalog, *memstore.Store) {
	t.Helper()
	store := memstore.NewWithClock(tickingClock(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)))
	return NewCatalog(store), store
}

func mustCategory(t *testing.T, c *Catalog, name string, order int) *models.MenuCategory {
	t.Helper()
	cat, err := c.CreateMenuCategory(context.Background(), models.CreateMenuCategoryInput{Name: name, DisplayOrder: order})
	require.NoError(t, err)
	return cat
}

func itemInput(categoryID int64, name string, order int) models.CreateMenuItemInput {
	return models.CreateMenuItemInput{
		CategoryID:      categoryID,
		Name:            name,
		Description:     name + " description",
		Ingredients:     "flour, water",
		PreparationInfo: "baked",
		Price:           12.5,
		DisplayOrder:    order,
	}
}

func mustItem(t *testing.T, c *Catalog, in models.CreateMenuItemInput) *models.MenuItem {
	t.Helper()
	item, err := c.CreateMenuItem(context.Background(), in)
	require.NoError(t, err)
	return item
}

func names[T any](list []T, name func(T) string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, name(v))
	}
	return out
}

func itemName(i models.MenuItem) string         { return i.Name }
func categoryName(c models.MenuCategory) string { return c.Name }

func TestListActiveCategories_OrderAndFilter(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCatalog(t)

	empty, err := c.ListActiveCategories(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	mustCategory(t, c, "Desserts", 3)
	mains := mustCategory(t, c, "Mains", 2)
	mustCategory(t, c, "Starters", 1)
	mustCategory(t, c, "Drinks", 2)
	hidden := mustCategory(t, c, "Hidden", 0)
	require.True(t, store.SetCategoryActive(hidden.ID, false))

	got, err := c.ListActiveCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Starters", "Mains", "Drinks", "Desserts"}, names(got, categoryName))
	assert.Equal(t, mains.ID, got[1].ID)
	for _, cat := range got {
		assert.True(t, cat.IsActive)
	}
}

func TestCreateMenuCategory_Validation(t *testing.T) {
	c, store := newTestCatalog(t)
	tests := []struct {
		name  string
		in    models.CreateMenuCategoryInput
		field string
	}{
		{"empty name", models.CreateMenuCategoryInput{Name: ""}, "name"},
		{"blank name", models.CreateMenuCategoryInput{Name: "   "}, "name"},
		{"negative order", models.CreateMenuCategoryInput{Name: "Mains", DisplayOrder: -1}, "display_order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateMenuCategory(context.Background(), tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	cats, _, _ := store.Counts()
	assert.Zero(t, cats)
}

func TestListItemsByCategory(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)
	mains := mustCategory(t, c, "Mains", 1)
	other := mustCategory(t, c, "Other", 2)

	mustItem(t, c, itemInput(mains.ID, "Steak", 2))
	mustItem(t, c, itemInput(mains.ID, "Risotto", 1))
	mustItem(t, c, itemInput(mains.ID, "Gnocchi", 1))
	off := mustItem(t, c, itemInput(mains.ID, "Sold out", 0))
	mustItem(t, c, itemInput(other.ID, "Elsewhere", 0))

	unavailable := false
	_, ok, err := c.UpdateMenuItem(ctx, off.ID, models.UpdateMenuItemInput{IsAvailable: &unavailable})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := c.ListItemsByCategory(ctx, mains.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Risotto", "Gnocchi", "Steak"}, names(got, itemName))

	none, err := c.ListItemsByCategory(ctx, 9999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetItemDetails(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)
	cat := mustCategory(t, c, "Mains", 1)
	item := mustItem(t, c, itemInput(cat.ID, "Steak", 1))

	unavailable := false
	_, _, err := c.UpdateMenuItem(ctx, item.ID, models.UpdateMenuItemInput{IsAvailable: &unavailable})
	require.NoError(t, err)

	got, ok, err := c.GetItemDetails(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Steak", got.Name)
	assert.False(t, got.IsAvailable)
	assert.Equal(t, item.Price, got.Price)

	in := itemInput(cat.ID, "Lobster", 2)
	in.Price = 45.00
	lobster := mustItem(t, c, in)
	assert.Equal(t, 45.0, lobster.Price)
	got, ok, err = c.GetItemDetails(ctx, lobster.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 45.0, got.Price)

	_, ok, err = c.GetItemDetails(ctx, 404)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateMenuItem(t *testing.T) {
	c, _ := newTestCatalog(t)
	cat := mustCategory(t, c, "Mains", 1)

	in := itemInput(cat.ID, "Steak", 1)
	in.Price = 24.999
	item := mustItem(t, c, in)
	assert.Equal(t, 25.0, item.Price)
	assert.True(t, item.IsAvailable)
	assert.False(t, item.IsChefsSpecial)
	assert.Equal(t, cat.ID, item.CategoryID)
	assert.Positive(t, item.ID)
}

func TestCreateMenuItem_PriceRoundingToZero(t *testing.T) {
	c, store := newTestCatalog(t)
	cat := mustCategory(t, c, "Mains", 1)

	for _, price := range []float64{0.004, 0.001} {
		in := itemInput(cat.ID, "Mint", 0)
		in.Price = price
		_, err := c.CreateMenuItem(context.Background(), in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "price %v", price)
		assert.Equal(t, "price", verr.Field)
		assert.Equal(t, "must be greater than 0", verr.Message)
	}

	_, items, _ := store.Counts()
	assert.Zero(t, items)
}

func TestCreateMenuItem_UnknownCategory(t *testing.T) {
	c, store := newTestCatalog(t)

	_, err := c.CreateMenuItem(context.Background(), itemInput(77, "Ghost", 0))
	var rerr *ReferentialError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, int64(77), rerr.CategoryID)
	assert.Equal(t, "menu category with id 77 does not exist", err.Error())

	_, items, _ := store.Counts()
	assert.Zero(t, items)
}

func TestCreateMenuItem_Validation(t *testing.T) {
	c, _ := newTestCatalog(t)
	cat := mustCategory(t, c, "Mains", 1)
	badURL := "not a url"

	tests := []struct {
		name   string
		mutate func(*models.CreateMenuItemInput)
		field  string
	}{
		{"no name", func(in *models.CreateMenuItemInput) { in.Name = "" }, "name"},
		{"no description", func(in *models.CreateMenuItemInput) { in.Description = "" }, "description"},
		{"no ingredients", func(in *models.CreateMenuItemInput) { in.Ingredients = "" }, "ingredients"},
		{"no preparation", func(in *models.CreateMenuItemInput) { in.PreparationInfo = "" }, "preparation_info"},
		{"zero price", func(in *models.CreateMenuItemInput) { in.Price = 0 }, "price"},
		{"negative price", func(in *models.CreateMenuItemInput) { in.Price = -3 }, "price"},
		{"bad image url", func(in *models.CreateMenuItemInput) { in.ImageURL = &badURL }, "image_url"},
		{"negative order", func(in *models.CreateMenuItemInput) { in.DisplayOrder = -1 }, "display_order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := itemInput(cat.ID, "Steak", 0)
			tt.mutate(&in)
			_, err := c.CreateMenuItem(context.Background(), in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestUpdateMenuItem_SparsePatch(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)
	cat := mustCategory(t, c, "Mains", 1)
	in := itemInput(cat.ID, "Steak", 1)
	img := "https://example.com/steak.jpg"
	diet := "gluten-free"
	in.ImageURL = &img
	in.DietaryInfo = &diet
	item := mustItem(t, c, in)

	price := 30.004
	updated, ok, err := c.UpdateMenuItem(ctx, item.ID, models.UpdateMenuItemInput{
		Price:       &price,
		DietaryInfo: models.OptionalString{Set: true},
	})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 30.0, updated.Price)
	assert.Nil(t, updated.DietaryInfo)
	require.NotNil(t, updated.ImageURL)
	assert.Equal(t, img, *updated.ImageURL)
	assert.Equal(t, item.Name, updated.Name)
	assert.Equal(t, item.Description, updated.Description)
	assert.Equal(t, item.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(item.UpdatedAt))
}

func TestUpdateMenuItem_Errors(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)
	cat := mustCategory(t, c, "Mains", 1)
	item := mustItem(t, c, itemInput(cat.ID, "Steak", 1))

	t.Run("missing item", func(t *testing.T) {
		name := "Other"
		got, ok, err := c.UpdateMenuItem(ctx, 999, models.UpdateMenuItemInput{Name: &name})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("missing item checked before category", func(t *testing.T) {
		unknown := int64(555)
		_, ok, err := c.UpdateMenuItem(ctx, 999, models.UpdateMenuItemInput{CategoryID: &unknown})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown category", func(t *testing.T) {
		unknown := int64(555)
		_, _, err := c.UpdateMenuItem(ctx, item.ID, models.UpdateMenuItemInput{CategoryID: &unknown})
		var rerr *ReferentialError
		require.ErrorAs(t, err, &rerr)

		got, _, _ := c.GetItemDetails(ctx, item.ID)
		assert.Equal(t, cat.ID, got.CategoryID)
	})

	t.Run("invalid image url", func(t *testing.T) {
		_, _, err := c.UpdateMenuItem(ctx, item.ID, models.UpdateMenuItemInput{ImageURL: models.Some("nope")})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "image_url", verr.Field)
	})

	t.Run("empty patch", func(t *testing.T) {
		got, ok, err := c.UpdateMenuItem(ctx, item.ID, models.UpdateMenuItemInput{})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, item.UpdatedAt, got.UpdatedAt)
	})

	t.Run("price rounding to zero", func(t *testing.T) {
		tiny := 0.004
		_, _, err := c.UpdateMenuItem(ctx, item.ID, models.UpdateMenuItemInput{Price: &tiny})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "price", verr.Field)

		got, _, _ := c.GetItemDetails(ctx, item.ID)
		assert.Equal(t, 12.5, got.Price)
	})

	t.Run("blank name", func(t *testing.T) {
		blank := "   "
		_, _, err := c.UpdateMenuItem(ctx, item.ID, models.UpdateMenuItemInput{Name: &blank})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)

		got, _, _ := c.GetItemDetails(ctx, item.ID)
		assert.Equal(t, "Steak", got.Name)
	})

	t.Run("non-positive price", func(t *testing.T) {
		zero := 0.0
		_, _, err := c.UpdateMenuItem(ctx, item.ID, models.UpdateMenuItemInput{Price: &zero})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "price", verr.Field)
	})
}

func TestListChefsSpecials(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCatalog(t)
	mains := mustCategory(t, c, "Mains", 1)
	hidden := mustCategory(t, c, "Seasonal", 2)

	special := func(cat int64, name string, order int) *models.MenuItem {
		in := itemInput(cat, name, order)
		in.IsChefsSpecial = true
		return mustItem(t, c, in)
	}
	special(mains.ID, "Old low", 1)
	special(mains.ID, "High", 5)
	special(mains.ID, "New low", 1)
	mustItem(t, c, itemInput(mains.ID, "Regular", 9))
	special(hidden.ID, "Hidden special", 10)
	off := special(mains.ID, "Sold out special", 0)

	unavailable := false
	_, _, err := c.UpdateMenuItem(ctx, off.ID, models.UpdateMenuItemInput{IsAvailable: &unavailable})
	require.NoError(t, err)
	require.True(t, store.SetCategoryActive(hidden.ID, false))

	got, err := c.ListChefsSpecials(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"High", "New low", "Old low", "Sold out special"}, names(got, itemName))
}

type failingStore struct {
	memstore.Store
	err error
}

func (f *failingStore) ListActiveCategories(context.Context) ([]models.MenuCategory, error) {
	return nil, f.err
}

func (f *failingStore) ListReservationsByDate(context.Context, models.Date) ([]models.Reservation, error) {
	return nil, f.err
}

func TestCatalog_StoreErrorsPropagate(t *testing.T) {
	boom := errors.New("connection reset")
	c := NewCatalog(&failingStore{err: boom})

	_, err := c.ListActiveCategories(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}
