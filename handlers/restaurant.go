package handlers

import (
	"errors"
	"net/http"
	"strings"

	"aiqr-api/apperror"
	"aiqr-api/integrity"
	"aiqr-api/models"
	"aiqr-api/passkey"
	"aiqr-api/store"
	"aiqr-api/token"

	"github.com/gin-gonic/gin"
)

// ── Vendor account ──────────────────────────────────────────────────────────

type VendorRegisterRequest struct {
	RestaurantName string `json:"restaurantName" binding:"required"`
	VendorContact  string `json:"vendorContact" binding:"required,contact"`
	Password       string `json:"password" binding:"required,alphanum,min=8"`
	Passkey        string `json:"passkey" binding:"required"`
	Image          string `json:"image"`
}

type VendorUpdateRequest struct {
	Contact        string `json:"contact" binding:"required,contact"`
	RestaurantName string `json:"restaurantName" binding:"required"`
	VendorName     string `json:"vendorName" binding:"required"`
	VendorAddress  string `json:"vendorAddress" binding:"required"`
}

// VendorRegister redeems an invitation passkey and creates the restaurant
func (h *Handler) VendorRegister(c *gin.Context) {
	var req VendorRegisterRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	// Hash before redeeming so a hashing fault cannot burn the passkey
	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	restaurant, err := h.Passkeys.Onboard(c.Request.Context(), passkey.Registration{
		Passkey:        req.Passkey,
		VendorContact:  req.VendorContact,
		RestaurantName: req.RestaurantName,
		PasswordHash:   hash,
		Image:          req.Image,
	})
	if err != nil {
		fail(c, err)
		return
	}
	signed, err := h.Tokens.Issue(restaurant.ID, token.Vendor)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "VENDOR REGISTERED SUCCESSFULLY", gin.H{"token": signed})
}

// VendorLogin exchanges contact and password for a vendor token
func (h *Handler) VendorLogin(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	var restaurant models.Restaurant
	if err := h.login(c, store.Restaurants, req, &restaurant, &restaurant.PasswordHash); err != nil {
		fail(c, err)
		return
	}
	signed, err := h.Tokens.Issue(restaurant.ID, token.Vendor)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "LOGGED IN SUCCESSFULLY", gin.H{"token": signed})
}

// GetVendorData returns the restaurant with tables and categories expanded
func (h *Handler) GetVendorData(c *gin.Context, claims *token.Claims) {
	restaurant, err := h.Integrity.Restaurant(c.Request.Context(), claims.SubjectID(), "tables", "categories")
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "SUCCESSFULLY FETCHED DETAILS", gin.H{"data": restaurant})
}

// UpdateVendor replaces the profile fields. A changed contact is unverified.
func (h *Handler) UpdateVendor(c *gin.Context, claims *token.Claims) {
	var req VendorUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()
	current, err := h.Integrity.Restaurant(ctx, claims.SubjectID())
	if err != nil {
		fail(c, err)
		return
	}

	contact := strings.TrimSpace(req.Contact)
	patch := store.Patch{
		"vendor_name":      strings.TrimSpace(req.VendorName),
		"restaurant_name":  strings.TrimSpace(req.RestaurantName),
		"contact":          contact,
		"address":          strings.TrimSpace(req.VendorAddress),
		"contact_verified": current.ContactVerified && current.Contact == contact,
	}
	err = h.Store.UpdateByID(ctx, store.Restaurants, current.ID, patch, nil)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		fail(c, apperror.Conflict("Contact already registered with another vendor"))
		return
	case errors.Is(err, store.ErrNotFound):
		fail(c, apperror.InvalidAuthorization(unauthorizedAccess))
		return
	case err != nil:
		fail(c, apperror.Database("Failed to Update Data", err))
		return
	}
	respond(c, http.StatusOK, "SUCCESSFULLY UPDATED DETAILS", nil)
}

// ── Tables ──────────────────────────────────────────────────────────────────

type TableRequest struct {
	TableID int `json:"tableId" binding:"required,min=1"`
}

type AddTablesRequest struct {
	Tables []TableRequest `json:"tables" binding:"required,min=1,dive"`
}

// GetAllTables lists the restaurant's tables in insertion order
func (h *Handler) GetAllTables(c *gin.Context, claims *token.Claims) {
	restaurant, err := h.Integrity.Restaurant(c.Request.Context(), claims.SubjectID(), "tables")
	if err != nil {
		fail(c, err)
		return
	}
	tables := restaurant.Tables
	if tables == nil {
		tables = []models.Table{}
	}
	respond(c, http.StatusOK, "SUCCESSFULLY FETCHED DETAILS", gin.H{
		"data": gin.H{"id": restaurant.ID, "tables": tables},
	})
}

// AddTables creates a batch of tables and links them to the restaurant
func (h *Handler) AddTables(c *gin.Context, claims *token.Claims) {
	var req AddTablesRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	tables := make([]models.Table, len(req.Tables))
	for i, t := range req.Tables {
		tables[i] = models.Table{TableNo: t.TableID}
	}
	rid := claims.SubjectID()
	ids, err := integrity.Attach(c.Request.Context(), h.Integrity, rid, integrity.RestaurantTables, rid, tables)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "SUCCESSFULLY ADDED TABLE DETAILS", gin.H{"data": ids})
}

// UpdateTable renumbers one of the restaurant's tables
func (h *Handler) UpdateTable(c *gin.Context, claims *token.Claims) {
	var req TableRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	rid := claims.SubjectID()
	err := h.Integrity.Update(c.Request.Context(), rid, integrity.RestaurantTables, rid, c.Param("tableId"),
		store.Patch{"table_no": req.TableID}, nil)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "SUCCESSFULLY UPDATED TABLE DETAILS", nil)
}

// DeleteTable unlinks and deletes one of the restaurant's tables
func (h *Handler) DeleteTable(c *gin.Context, claims *token.Claims) {
	rid := claims.SubjectID()
	if err := h.Integrity.DetachAndDelete(c.Request.Context(), rid, integrity.RestaurantTables, rid, c.Param("tableId")); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "SUCCESSFULLY DELETED TABLE DETAILS", nil)
}
