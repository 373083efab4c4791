package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"blogicum/middleware"
	"blogicum/services"
	"blogicum/utils"

	"github.com/gin-gonic/gin"
)

// currentUserID returns the authenticated user, or 0 for anonymous requests.
func currentUserID(c *gin.Context) uint {
	if id, ok := c.Get(middleware.UserIDKey); ok {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// revokeToken blacklists the token the request was authenticated with until
// it would have expired anyway.
func revokeToken(c *gin.Context, blacklist services.TokenBlacklist) error {
	value, exists := c.Get(middleware.TokenClaimsKey)
	if !exists || blacklist == nil {
		return nil
	}
	claims, ok := value.(*utils.Claims)
	if !ok || claims.ExpiresAt == nil {
		return nil
	}
	return blacklist.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseID is paramID that answers 404 itself when the id is malformed.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, ok := paramID(c, name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	}
	return id, ok
}

// parsePage reads ?page=, defaulting to the first page. Anything that is not
// a page number is treated like a page past the end.
func parsePage(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid page"})
		return 0, false
	}
	return page, true
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrInvalidPage):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidReference), errors.Is(err, services.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
