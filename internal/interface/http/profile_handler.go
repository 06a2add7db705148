package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nsdigital/agency-api/internal/application"
	"github.com/nsdigital/agency-api/internal/interface/middleware"
	"github.com/nsdigital/agency-api/pkg/response"
)

// 5 MB cap on profile photos.
const maxPhotoSize = 5 << 20

type ProfileHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.Service, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

// UploadPhoto POST /api/profile/photo
// Accepts a multipart form with a "photo" file, stores it, and records the
// resulting URL on the caller's account.
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	fh, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "photo file is required")
		return
	}
	if fh.Size > maxPhotoSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "photo must be 5MB or smaller")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "could not read photo file")
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	u, err := h.Svc.UploadPhoto(c.Request.Context(), uid, f, fh.Filename, contentType)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrPhotoUnavailable):
			response.Error(c, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			h.Logger.WithError(err).WithField("user_id", uid).Error("photo upload failed")
			response.Error(c, http.StatusInternalServerError, "something went wrong, please try again")
		}
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user": u.Public()})
}
