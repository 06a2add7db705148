package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nsdigital/agency-api/internal/application"
	"github.com/nsdigital/agency-api/internal/domain/entity"
	"github.com/nsdigital/agency-api/internal/interface/middleware"
	"github.com/nsdigital/agency-api/pkg/response"
	"github.com/nsdigital/agency-api/pkg/validation"
)

type AdminHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.Service, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

type toggleBlockRequest struct {
	// Pointer so that an explicit false is distinguishable from a
	// missing field.
	IsBlocked *bool `json:"is_blocked" binding:"required"`
}

// ListUsers GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	callerID := c.GetString(middleware.CtxUserIDKey)
	users, err := h.Svc.ListUsers(c.Request.Context(), callerID)
	if err != nil {
		h.adminError(c, callerID, err, "list users failed")
		return
	}

	out := make([]entity.AdminUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.AdminView())
	}
	response.JSON(c, http.StatusOK, gin.H{"users": out})
}

// ToggleBlock PATCH /api/admin/users/:id/block
func (h *AdminHandler) ToggleBlock(c *gin.Context) {
	callerID := c.GetString(middleware.CtxUserIDKey)
	targetID := c.Param("id")

	var req toggleBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.First(err))
		return
	}

	u, err := h.Svc.ToggleBlock(c.Request.Context(), callerID, targetID, *req.IsBlocked)
	if err != nil {
		h.adminError(c, callerID, err, "toggle block failed")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user": u.AdminView()})
}

// Stats GET /api/admin/users/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	callerID := c.GetString(middleware.CtxUserIDKey)
	stats, err := h.Svc.Stats(c.Request.Context(), callerID)
	if err != nil {
		h.adminError(c, callerID, err, "user stats failed")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"total_users":   stats.TotalUsers,
		"blocked_users": stats.BlockedUsers,
		"admin_users":   stats.AdminUsers,
	})
}

func (h *AdminHandler) adminError(c *gin.Context, callerID string, err error, logMsg string) {
	switch {
	case errors.Is(err, application.ErrNotAdmin):
		response.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	default:
		h.Logger.WithError(err).WithField("admin_id", callerID).Error(logMsg)
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again")
	}
}
