package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shakti20/Camper/internal/httperr"
	"github.com/shakti20/Camper/internal/service"
	"github.com/shakti20/Camper/internal/session"
	"github.com/shakti20/Camper/internal/validate"
)

// AuthHandler serves registration, login, and logout.
type AuthHandler struct {
	Auth     *service.AuthService
	Sessions *session.Manager
}

// RegisterPage handles GET /register.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	render(c, h.Sessions, http.StatusOK, "register.html", nil)
}

// Register handles POST /register. Failures here are a normal part of
// signing up, so they flash and return to the form instead of failing the
// request.
func (h *AuthHandler) Register(c *gin.Context) {
	var form validate.RegisterForm
	if err := validate.Bind(c, &form); err != nil {
		h.Sessions.Error(c, httperr.From(err).Message)
		c.Redirect(http.StatusFound, "/register")
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), form.Username, form.Email, form.Password)
	if errors.Is(err, service.ErrDuplicateUsername) {
		h.Sessions.Error(c, "A user with that username is already registered")
		c.Redirect(http.StatusFound, "/register")
		return
	}
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	if err := h.Sessions.Login(c, user.ID); err != nil {
		c.Error(err)
		c.Abort()
		return
	}
	h.Sessions.Success(c, fmt.Sprintf("Welcome to Camper, %s", capitalize(user.Username)))
	c.Redirect(http.StatusFound, "/campgrounds")
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, h.Sessions, http.StatusOK, "login.html", nil)
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var form validate.LoginForm
	if err := validate.Bind(c, &form); err != nil {
		h.Sessions.Error(c, httperr.From(err).Message)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.Auth.Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, service.ErrInvalidCredential) {
		h.Sessions.Error(c, "Invalid username or password")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	if err := h.Sessions.Login(c, user.ID); err != nil {
		c.Error(err)
		c.Abort()
		return
	}
	h.Sessions.Success(c, fmt.Sprintf("Welcome Back!, %s", capitalize(user.Username)))
	c.Redirect(http.StatusFound, "/campgrounds")
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Sessions.Logout(c); err != nil {
		c.Error(err)
		c.Abort()
		return
	}
	h.Sessions.Success(c, "Goodbye!")
	c.Redirect(http.StatusFound, "/campgrounds")
}
