package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nsdigital/agency-api/internal/application"
	"github.com/nsdigital/agency-api/internal/interface/middleware"
	"github.com/nsdigital/agency-api/pkg/helpers"
	"github.com/nsdigital/agency-api/pkg/response"
	"github.com/nsdigital/agency-api/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *application.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required,min=2"`
	Photo    string `json:"photo"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.First(err))
		return
	}

	u, sess, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Photo:    req.Photo,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, err.Error())
			return
		}
		h.Logger.WithError(err).Error("registration failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again")
		return
	}

	h.Cookies.Set(c, sess.Token, sess.Expires)
	response.JSON(c, http.StatusCreated, gin.H{"success": true, "user": u.Public()})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.First(err))
		return
	}

	u, sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrAccountNotFound):
			response.Error(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, application.ErrAccountBlocked):
			response.Error(c, http.StatusForbidden, err.Error())
		case errors.Is(err, application.ErrInvalidPassword):
			response.Error(c, http.StatusUnauthorized, err.Error())
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error(c, http.StatusInternalServerError, "something went wrong, please try again")
		}
		return
	}

	h.Cookies.Set(c, sess.Token, sess.Expires)
	response.JSON(c, http.StatusOK, gin.H{"success": true, "user": u.Public()})
}

// SignOut POST /api/auth/signout
// Deletes the session cookie unconditionally; calling it with no active
// session is not an error.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.Cookies.Clear(c)
	response.JSON(c, http.StatusOK, gin.H{"success": true})
}

// Me GET /api/auth/me
// Resolves the account fresh from the store; the token claims only carry
// identity, never current role or blocked state.
func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.CurrentUser(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("current user lookup failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again")
		return
	}
	response.JSON(c, http.StatusOK, u.Public())
}
