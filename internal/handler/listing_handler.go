package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shakti20/Camper/internal/httperr"
	"github.com/shakti20/Camper/internal/middleware"
	"github.com/shakti20/Camper/internal/service"
	"github.com/shakti20/Camper/internal/session"
	"github.com/shakti20/Camper/internal/validate"
)

// ListingHandler serves the campground pages and mutations.
type ListingHandler struct {
	Listings *service.ListingService
	Reviews  *service.ReviewService
	Sessions *session.Manager
}

// Home handles GET /.
func (h *ListingHandler) Home(c *gin.Context) {
	render(c, h.Sessions, http.StatusOK, "home.html", nil)
}

// Index handles GET /campgrounds.
func (h *ListingHandler) Index(c *gin.Context) {
	listings, err := h.Listings.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}
	render(c, h.Sessions, http.StatusOK, "campgrounds_index.html", gin.H{
		"campgrounds": listings,
	})
}

// New handles GET /campgrounds/new.
func (h *ListingHandler) New(c *gin.Context) {
	render(c, h.Sessions, http.StatusOK, "campgrounds_new.html", nil)
}

// Create handles POST /campgrounds.
func (h *ListingHandler) Create(c *gin.Context) {
	var form validate.ListingForm
	if err := validate.Bind(c, &form); err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	uploads, cleanup, err := formUploads(c)
	if err != nil {
		c.Error(httperr.BadRequest("Could not read the uploaded files"))
		c.Abort()
		return
	}
	defer cleanup()

	user := session.CurrentUser(c)
	listing, err := h.Listings.Create(c.Request.Context(), user.ID, service.ListingInput{
		Title:       form.Title,
		Location:    form.Location,
		Description: form.Description,
		Price:       *form.Price,
	}, uploads)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	h.Sessions.Success(c, "Successfully made a new Campground")
	c.Redirect(http.StatusFound, "/campgrounds/"+listing.ID.Hex())
}

// Show handles GET /campgrounds/:id.
func (h *ListingHandler) Show(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.missing(c)
		return
	}

	listing, err := h.Listings.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		h.missing(c)
		return
	}
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	reviews, err := h.Reviews.ForListing(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	render(c, h.Sessions, http.StatusOK, "campgrounds_show.html", gin.H{
		"campground": listing,
		"reviews":    reviews,
	})
}

// Edit handles GET /campgrounds/:id/edit. The ownership gate has already
// loaded the listing.
func (h *ListingHandler) Edit(c *gin.Context) {
	listing := middleware.ListingFromContext(c)
	render(c, h.Sessions, http.StatusOK, "campgrounds_edit.html", gin.H{
		"campground": listing,
	})
}

// Update handles PUT /campgrounds/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	listing := middleware.ListingFromContext(c)

	var form validate.ListingForm
	if err := validate.Bind(c, &form); err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	uploads, cleanup, err := formUploads(c)
	if err != nil {
		c.Error(httperr.BadRequest("Could not read the uploaded files"))
		c.Abort()
		return
	}
	defer cleanup()

	deleteImages := c.PostFormArray("deleteImages")

	_, err = h.Listings.Update(c.Request.Context(), listing.ID, service.ListingInput{
		Title:       form.Title,
		Location:    form.Location,
		Description: form.Description,
		Price:       *form.Price,
	}, uploads, deleteImages)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	h.Sessions.Success(c, "Successfully updated Campground")
	c.Redirect(http.StatusFound, "/campgrounds/"+listing.ID.Hex())
}

// Delete handles DELETE /campgrounds/:id.
func (h *ListingHandler) Delete(c *gin.Context) {
	listing := middleware.ListingFromContext(c)

	if err := h.Listings.Delete(c.Request.Context(), listing.ID); err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	h.Sessions.Success(c, "Successfully deleted Campground")
	c.Redirect(http.StatusFound, "/campgrounds")
}

// missing is the recoverable branch for a listing that does not exist:
// flash and return to the index.
func (h *ListingHandler) missing(c *gin.Context) {
	h.Sessions.Error(c, "Campground does not exist")
	c.Redirect(http.StatusFound, "/campgrounds")
}
