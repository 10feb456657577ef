package handlers

import (
	"log/slog"
	"slices"

	"aiqr-api/credential"
	"aiqr-api/integrity"
	"aiqr-api/passkey"
	"aiqr-api/store"
	"aiqr-api/token"

	"github.com/gin-gonic/gin"
)

// Handler carries the collaborators every route needs
type Handler struct {
	Store     store.Store
	Tokens    *token.Service
	Hasher    credential.Hasher
	Passkeys  *passkey.Provisioner
	Integrity *integrity.Coordinator
	Log       *slog.Logger

	// AllowedContacts may register as authorizers
	AllowedContacts []string
}

func (h *Handler) contactAllowed(contact string) bool {
	return slices.Contains(h.AllowedContacts, contact)
}

// fail hands err to the error middleware
func fail(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

func respond(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}
