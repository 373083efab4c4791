package middleware

import (
	"errors"
	"log"
	"net/http"

	"blogicum/services"

	"github.com/gin-gonic/gin"
)

// AuthorLookup returns the id of the user who wrote the entity addressed by
// the request.
type AuthorLookup func(c *gin.Context) (uint, error)

// OnlyAuthor lets the request through only for the entity's author. Missing
// entities give 404; anyone else is redirected to redirectTo(c) and the
// entity is left untouched. It must run after AuthRequired.
func OnlyAuthor(lookup AuthorLookup, redirectTo func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorID, err := lookup(c)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotFound):
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			default:
				log.Printf("Author lookup failed: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			return
		}

		if userID, ok := c.Get(UserIDKey); !ok || userID.(uint) != authorID {
			c.Redirect(http.StatusFound, redirectTo(c))
			c.Abort()
			return
		}

		c.Next()
	}
}
