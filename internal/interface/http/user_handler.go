package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skillboost/skillboost-api/internal/application"
	"github.com/skillboost/skillboost-api/pkg/response"
	"github.com/skillboost/skillboost-api/pkg/uploader"
	"github.com/skillboost/skillboost-api/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,min=6,max=50"`
	Password string `json:"password" binding:"required,min=6,max=255"`
	Role     string `json:"role" binding:"required,oneof=student instructor"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,min=6,max=50"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

type editProfileRequest struct {
	Username    string `form:"username" binding:"omitempty,min=3,max=50"`
	Description string `form:"description" binding:"omitempty,max=50"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error(c, http.StatusBadRequest, "email already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error(c, http.StatusInternalServerError, "could not save user", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"savedUser": u}, "registered")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusUnauthorized, "no account with this email", nil)
		case errors.Is(err, application.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "wrong password", nil)
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error(c, http.StatusInternalServerError, "login failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token, "user": u}, "logged in")
}

func (h *UserHandler) EditProfile(c *gin.Context) {
	uid := c.GetString("userID")

	var req editProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.UpdateProfileInput{
		Username:    req.Username,
		Description: req.Description,
	}
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer func() { _ = file.Close() }()
		in.Image = &uploader.File{
			Reader:      file,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, in)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("update profile failed")
		response.Error(c, http.StatusInternalServerError, "could not update profile", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "profile updated")
}
