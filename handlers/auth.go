package handlers

import (
	"errors"
	"net/http"
	"strings"

	"aiqr-api/apperror"
	"aiqr-api/models"
	"aiqr-api/passkey"
	"aiqr-api/store"
	"aiqr-api/token"

	"github.com/gin-gonic/gin"
)

const (
	invalidCredentials  = "Invalid Contact or Password"
	unauthorizedAccess  = "Unauthorized Access, Please Login/Register first"
	authorizerDuplicate = "Already Registered, Please login!"
)

type AuthorizerRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Contact  string `json:"contact" binding:"required,contact"`
	Password string `json:"password" binding:"required,alphanum,min=8"`
}

type LoginRequest struct {
	Contact  string `json:"contact" binding:"required,contact"`
	Password string `json:"password" binding:"required,alphanum,min=8"`
}

type CreateVendorRequest struct {
	Contact       string `json:"contact" binding:"required,contact"`
	VendorName    string `json:"vendorName" binding:"required"`
	VendorContact string `json:"vendorContact" binding:"required,contact"`
	VendorAddress string `json:"vendorAddress" binding:"required"`
}

// AuthorizerRegister creates an authorizer for an allow-listed contact
func (h *Handler) AuthorizerRegister(c *gin.Context) {
	var req AuthorizerRegisterRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	contact := strings.TrimSpace(req.Contact)
	if !h.contactAllowed(contact) {
		fail(c, apperror.InvalidAuthorization("Unauthorized Contact Number"))
		return
	}

	ctx := c.Request.Context()
	var existing models.Authorizer
	err := h.Store.FindOne(ctx, store.Authorizers, store.Match{"contact": contact}, &existing, store.Only("id"))
	switch {
	case err == nil:
		fail(c, apperror.Conflict(authorizerDuplicate).WithStatus(http.StatusForbidden))
		return
	case !errors.Is(err, store.ErrNotFound):
		fail(c, apperror.Database("find authorizer", err))
		return
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	authorizer := models.Authorizer{Name: strings.TrimSpace(req.Name), Contact: contact, PasswordHash: hash}
	err = h.Store.Create(ctx, store.Authorizers, &authorizer)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		fail(c, apperror.Conflict(authorizerDuplicate).WithStatus(http.StatusForbidden))
		return
	case err != nil:
		fail(c, apperror.Database("create authorizer", err))
		return
	}

	signed, err := h.Tokens.Issue(authorizer.ID, token.Authorizer)
	if err != nil {
		fail(c, err)
		return
	}
	h.Log.Info("authorizer registered", "authorizer_id", authorizer.ID)
	respond(c, http.StatusCreated, "AUTHORIZER CREATED SUCCESSFULLY", gin.H{"token": signed})
}

// AuthorizerLogin exchanges contact and password for an authorizer token
func (h *Handler) AuthorizerLogin(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	var authorizer models.Authorizer
	if err := h.login(c, store.Authorizers, req, &authorizer, &authorizer.PasswordHash); err != nil {
		fail(c, err)
		return
	}
	signed, err := h.Tokens.Issue(authorizer.ID, token.Authorizer)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "LOGGED IN SUCCESSFULLY", gin.H{"token": signed})
}

// login loads the account by contact into dest and checks the password
// against *hash, which must point into dest.
func (h *Handler) login(c *gin.Context, coll store.Collection, req LoginRequest, dest any, hash *string) error {
	err := h.Store.FindOne(c.Request.Context(), coll,
		store.Match{"contact": strings.TrimSpace(req.Contact)}, dest, store.Only("id", "password_hash"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperror.InvalidAuthorization(invalidCredentials)
	case err != nil:
		return apperror.Database("find account", err)
	}
	ok, err := h.Hasher.Verify(req.Password, *hash)
	if err != nil {
		return err
	}
	if !ok {
		h.Log.Warn("password mismatch", "collection", coll)
		return apperror.InvalidAuthorization(invalidCredentials)
	}
	return nil
}

// CreateVendor lets an authorizer invite a vendor and returns the passkey
func (h *Handler) CreateVendor(c *gin.Context, claims *token.Claims) {
	var req CreateVendorRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	ctx := c.Request.Context()
	var authorizer models.Authorizer
	err := h.Store.FindByID(ctx, store.Authorizers, claims.SubjectID(), &authorizer, store.Only("id", "contact"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(c, apperror.InvalidAuthorization("Invalid Authorizer"))
		return
	case err != nil:
		fail(c, apperror.Database("find authorizer", err))
		return
	}
	if authorizer.Contact != strings.TrimSpace(req.Contact) {
		h.Log.Warn("authorizer contact mismatch", "authorizer_id", authorizer.ID)
		fail(c, apperror.InvalidAuthorization(unauthorizedAccess))
		return
	}

	inv, err := h.Passkeys.CreateInvitation(ctx, passkey.Invite{
		AuthorizerID:  authorizer.ID,
		VendorName:    req.VendorName,
		VendorContact: req.VendorContact,
		VendorAddress: req.VendorAddress,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "VENDOR ADDED SUCCESSFULLY", gin.H{"passkey": inv.Passkey})
}
