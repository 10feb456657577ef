package handlers

import (
	"net/http"
	"strings"

	"aiqr-api/integrity"
	"aiqr-api/models"
	"aiqr-api/store"
	"aiqr-api/token"

	"github.com/gin-gonic/gin"
)

// ── Menu categories ─────────────────────────────────────────────────────────

type CategoryRequest struct {
	CategoryName string `json:"categoryName" binding:"required"`
}

// GetAllCategories lists the restaurant's categories
func (h *Handler) GetAllCategories(c *gin.Context, claims *token.Claims) {
	restaurant, err := h.Integrity.Restaurant(c.Request.Context(), claims.SubjectID(), "categories")
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "SUCCESSFULLY FETCHED DETAILS", gin.H{
		"data": gin.H{"id": restaurant.ID, "categories": categoriesOrEmpty(restaurant.Categories)},
	})
}

// AddCategory creates a category unless one with the same name, ignoring
// case, already exists. The duplicate case succeeds with 208 and changes nothing.
func (h *Handler) AddCategory(c *gin.Context, claims *token.Claims) {
	var req CategoryRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	name := strings.TrimSpace(req.CategoryName)
	ctx := c.Request.Context()
	rid := claims.SubjectID()

	restaurant, err := h.Integrity.Restaurant(ctx, rid, "categories")
	if err != nil {
		fail(c, err)
		return
	}
	for _, existing := range restaurant.Categories {
		if strings.EqualFold(existing.Name, name) {
			respond(c, http.StatusAlreadyReported, "CATEGORY ALREADY EXISTS", nil)
			return
		}
	}

	ids, err := integrity.Attach(ctx, h.Integrity, rid, integrity.RestaurantCategories, rid, []models.Category{{Name: name}})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "SUCCESSFULLY ADDED CATEGORY", gin.H{"data": ids[0]})
}

// UpdateCategory renames one of the restaurant's categories
func (h *Handler) UpdateCategory(c *gin.Context, claims *token.Claims) {
	var req CategoryRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	rid := claims.SubjectID()
	err := h.Integrity.Update(c.Request.Context(), rid, integrity.RestaurantCategories, rid, c.Param("categoryId"),
		store.Patch{"name": strings.TrimSpace(req.CategoryName)}, nil)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "SUCCESSFULLY UPDATED CATEGORY DETAILS", nil)
}

// DeleteCategory unlinks and deletes a category. Its items are left for the sweeper.
func (h *Handler) DeleteCategory(c *gin.Context, claims *token.Claims) {
	rid := claims.SubjectID()
	if err := h.Integrity.DetachAndDelete(c.Request.Context(), rid, integrity.RestaurantCategories, rid, c.Param("categoryId")); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "SUCCESSFULLY DELETED CATEGORY DETAILS", nil)
}

// ── Menu items ──────────────────────────────────────────────────────────────

type MenuItemRequest struct {
	ItemName        string   `json:"itemName" binding:"required"`
	ItemPrice       float64  `json:"itemPrice" binding:"required,gt=0"`
	ItemDiscount    *float64 `json:"itemDiscount" binding:"omitempty,gte=0"`
	ItemDescription string   `json:"itemDescription"`
	ItemIngredients []string `json:"itemIngredients"`
	ItemImage       string   `json:"itemImage"`
	ChefSpecial     bool     `json:"chefSpecial"`
	IsSpicy         bool     `json:"isSpicy"`
	MustTry         bool     `json:"mustTry"`
}

func (r MenuItemRequest) model() models.MenuItem {
	return models.MenuItem{
		Name:        strings.TrimSpace(r.ItemName),
		Price:       r.ItemPrice,
		Discount:    r.ItemDiscount,
		Description: strings.TrimSpace(r.ItemDescription),
		Ingredients: r.ItemIngredients,
		Image:       strings.TrimSpace(r.ItemImage),
		ChefSpecial: r.ChefSpecial,
		IsSpicy:     r.IsSpicy,
		MustTry:     r.MustTry,
	}
}

func (r MenuItemRequest) patch() store.Patch {
	m := r.model()
	return store.Patch{
		"name":         m.Name,
		"price":        m.Price,
		"discount":     m.Discount,
		"description":  m.Description,
		"ingredients":  m.Ingredients,
		"image":        m.Image,
		"chef_special": m.ChefSpecial,
		"is_spicy":     m.IsSpicy,
		"must_try":     m.MustTry,
	}
}

// GetAllMenuItems lists categories with their items expanded
func (h *Handler) GetAllMenuItems(c *gin.Context, claims *token.Claims) {
	restaurant, err := h.Integrity.Restaurant(c.Request.Context(), claims.SubjectID(), "categories.items")
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "SUCCESSFULLY FETCHED DETAILS", gin.H{
		"data": gin.H{"id": restaurant.ID, "categories": categoriesOrEmpty(restaurant.Categories)},
	})
}

// AddMenuItem creates an item inside one of the restaurant's categories
func (h *Handler) AddMenuItem(c *gin.Context, claims *token.Claims) {
	var req MenuItemRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	ids, err := integrity.Attach(c.Request.Context(), h.Integrity, claims.SubjectID(), integrity.CategoryItems,
		c.Param("categoryId"), []models.MenuItem{req.model()})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "SUCCESSFULLY ADDED MENU ITEM", gin.H{"data": ids[0]})
}

// UpdateMenuItem edits an item found through the restaurant's categories
func (h *Handler) UpdateMenuItem(c *gin.Context, claims *token.Claims) {
	var req MenuItemRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()
	rid := claims.SubjectID()
	itemID := c.Param("menuItemId")

	categoryID, err := h.Integrity.OwningParent(ctx, rid, integrity.CategoryItems, itemID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.Integrity.Update(ctx, rid, integrity.CategoryItems, categoryID, itemID, req.patch(), nil); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "SUCCESSFULLY UPDATED MENU ITEM DETAILS", nil)
}

// DeleteMenuItem unlinks an item from its category and deletes it
func (h *Handler) DeleteMenuItem(c *gin.Context, claims *token.Claims) {
	err := h.Integrity.DetachAndDelete(c.Request.Context(), claims.SubjectID(), integrity.CategoryItems,
		c.Param("categoryId"), c.Param("menuItemId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "SUCCESSFULLY DELETED MENU ITEM DETAILS", nil)
}

func categoriesOrEmpty(categories []models.Category) []models.Category {
	if categories == nil {
		return []models.Category{}
	}
	return categories
}
