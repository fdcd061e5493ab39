package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shakti20/Camper/internal/httperr"
	"github.com/shakti20/Camper/internal/model"
	"github.com/shakti20/Camper/internal/repository"
	"github.com/shakti20/Camper/internal/session"
)

const listingKey = "ownedListing"

// ListingFinder loads a listing for the ownership check.
type ListingFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error)
}

// RequireOwner loads the listing addressed by :id and halts the chain
// unless the authenticated user owns it. A missing listing is a 404, not a
// nil dereference. Must run after RequireLogin, since it reads the
// authenticated identity.
func RequireOwner(sessions *session.Manager, listings ListingFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.Error(httperr.NotFound("Campground not found"))
			c.Abort()
			return
		}

		listing, err := listings.FindByID(c.Request.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			c.Error(httperr.NotFound("Campground not found"))
			c.Abort()
			return
		}
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		user := session.CurrentUser(c)
		if user == nil || listing.Author != user.ID {
			sessions.Error(c, "You do not have permission!")
			c.Redirect(http.StatusFound, "/campgrounds/"+id.Hex())
			c.Abort()
			return
		}

		c.Set(listingKey, listing)
		c.Next()
	}
}

// ListingFromContext returns the listing loaded by RequireOwner.
func ListingFromContext(c *gin.Context) *model.Listing {
	v, ok := c.Get(listingKey)
	if !ok {
		return nil
	}
	l, _ := v.(*model.Listing)
	return l
}
