package api

import (
	"net/http"
	"strconv"

	"restaurant-site/models"
	"restaurant-site/services"

	"github.com/gorilla/mux"
)

type menuHandler struct {
	catalog *services.Catalog
}

// itemDetails is a menu item with its dietary info split into tags.
type itemDetails struct {
	*models.MenuItem
	DietaryTags []string `json:"dietary_tags"`
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, &services.ValidationError{Field: "id", Message: "must be an integer id"}
	}
	return id, nil
}

func (h *menuHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.catalog.ListActiveCategories(r.Context())
		if err != nil {
			writeServiceError(w, r, "list_categories", err)
			return
		}
		jsonResponse(w, http.StatusOK, categories)
	}
}

func (h *menuHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.CreateMenuCategoryInput
		if !decodeJSON(w, r, &in) {
			return
		}
		category, err := h.catalog.CreateMenuCategory(r.Context(), in)
		if err != nil {
			writeServiceError(w, r, "create_category", err)
			return
		}
		jsonResponse(w, http.StatusCreated, category)
	}
}

func (h *menuHandler) ListItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeServiceError(w, r, "list_items", err)
			return
		}
		items, err := h.catalog.ListItemsByCategory(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, "list_items", err)
			return
		}
		jsonResponse(w, http.StatusOK, items)
	}
}

func (h *menuHandler) GetItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeServiceError(w, r, "get_item", err)
			return
		}
		item, ok, err := h.catalog.GetItemDetails(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, "get_item", err)
			return
		}
		if !ok {
			jsonError(w, http.StatusNotFound, errNotFound)
			return
		}
		tags := item.DietaryTags()
		if tags == nil {
			tags = []string{}
		}
		jsonResponse(w, http.StatusOK, itemDetails{MenuItem: item, DietaryTags: tags})
	}
}

func (h *menuHandler) CreateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.CreateMenuItemInput
		if !decodeJSON(w, r, &in) {
			return
		}
		item, err := h.catalog.CreateMenuItem(r.Context(), in)
		if err != nil {
			writeServiceError(w, r, "create_item", err)
			return
		}
		jsonResponse(w, http.StatusCreated, item)
	}
}

func (h *menuHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeServiceError(w, r, "update_item", err)
			return
		}
		var patch models.UpdateMenuItemInput
		if !decodeJSON(w, r, &patch) {
			return
		}
		item, ok, err := h.catalog.UpdateMenuItem(r.Context(), id, patch)
		if err != nil {
			writeServiceError(w, r, "update_item", err)
			return
		}
		if !ok {
			jsonError(w, http.StatusNotFound, errNotFound)
			return
		}
		jsonResponse(w, http.StatusOK, item)
	}
}

func (h *menuHandler) ListSpecials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.catalog.ListChefsSpecials(r.Context())
		if err != nil {
			writeServiceError(w, r, "list_specials", err)
			return
		}
		jsonResponse(w, http.StatusOK, items)
	}
}

