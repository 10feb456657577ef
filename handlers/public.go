package handlers

import (
	"net/http"

	"aiqr-api/token"

	"github.com/gin-gonic/gin"
)

// Healthcheck answers 200 with an empty body
func Healthcheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Welcome greets an authenticated consumer
func (h *Handler) Welcome(c *gin.Context, claims *token.Claims) {
	respond(c, http.StatusOK, "Welcome to AIQR", gin.H{"consumer": claims.SubjectID()})
}

// ConsumerMenu returns a restaurant's public menu with items expanded
func (h *Handler) ConsumerMenu(c *gin.Context, _ *token.Claims) {
	restaurant, err := h.Integrity.Menu(c.Request.Context(), c.Param("restaurantId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "SUCCESSFULLY FETCHED MENU", gin.H{
		"data": gin.H{
			"id":             restaurant.ID,
			"restaurantName": restaurant.RestaurantName,
			"image":          restaurant.Image,
			"categories":     categoriesOrEmpty(restaurant.Categories),
		},
	})
}
