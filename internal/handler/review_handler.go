package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shakti20/Camper/internal/service"
	"github.com/shakti20/Camper/internal/session"
	"github.com/shakti20/Camper/internal/validate"
)

// ReviewHandler serves review creation and deletion on a listing.
type ReviewHandler struct {
	Reviews  *service.ReviewService
	Sessions *session.Manager
}

// Create handles POST /campgrounds/:id/reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	listingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.missing(c)
		return
	}

	var form validate.ReviewForm
	if err := validate.Bind(c, &form); err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	user := session.CurrentUser(c)
	_, err = h.Reviews.Add(c.Request.Context(), listingID, user.ID, form.Body, form.Rating)
	if errors.Is(err, service.ErrNotFound) {
		h.missing(c)
		return
	}
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	h.Sessions.Success(c, "Review created")
	c.Redirect(http.StatusFound, "/campgrounds/"+listingID.Hex())
}

// Delete handles DELETE /campgrounds/:id/reviews/:reviewId.
func (h *ReviewHandler) Delete(c *gin.Context) {
	listingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.missing(c)
		return
	}
	reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
	if err != nil {
		h.missing(c)
		return
	}

	user := session.CurrentUser(c)
	err = h.Reviews.Remove(c.Request.Context(), listingID, reviewID, user.ID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.missing(c)
		return
	case errors.Is(err, service.ErrNotAllowed):
		h.Sessions.Error(c, "You do not have permission!")
		c.Redirect(http.StatusFound, "/campgrounds/"+listingID.Hex())
		return
	case err != nil:
		c.Error(err)
		c.Abort()
		return
	}

	h.Sessions.Success(c, "Successfully deleted review")
	c.Redirect(http.StatusFound, "/campgrounds/"+listingID.Hex())
}

func (h *ReviewHandler) missing(c *gin.Context) {
	h.Sessions.Error(c, "Campground does not exist")
	c.Redirect(http.StatusFound, "/campgrounds")
}
