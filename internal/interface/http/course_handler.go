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

type CourseHandler struct {
	Svc    *application.CourseService
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewCourseHandler(svc *application.CourseService, users *application.UserService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{Svc: svc, Users: users, Logger: logger}
}

type courseRequest struct {
	Title       string  `form:"title" binding:"required,min=6,max=100"`
	Description string  `form:"description" binding:"required,min=6,max=200"`
	Price       float64 `form:"price" binding:"required,gte=10,lte=99999"`
	Content     string  `form:"content" binding:"required,min=6"`
	VideoURL    string  `form:"videoUrl" binding:"required"`
}

type ratingRequest struct {
	Rating int `json:"rating" binding:"required,gte=1,lte=5"`
}

type commentRequest struct {
	CommentText string `json:"commentText" binding:"required"`
}

func (r courseRequest) toInput() application.CourseInput {
	return application.CourseInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Content:     r.Content,
		VideoURL:    r.VideoURL,
	}
}

// imageFromForm extracts an optional multipart image. The caller must keep
// the request alive until the upload is stored.
func imageFromForm(c *gin.Context) *uploader.File {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		return nil
	}
	return &uploader.File{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list courses failed")
		response.Error(c, http.StatusInternalServerError, "could not list courses", nil)
		return
	}
	response.Success(c, http.StatusOK, courses, "courses")
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get course failed")
		return
	}
	response.Success(c, http.StatusOK, course, "course")
}

func (h *CourseHandler) Top5(c *gin.Context) {
	courses, err := h.Svc.Top5(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("top5 failed")
		response.Error(c, http.StatusInternalServerError, "could not list top courses", nil)
		return
	}
	response.Success(c, http.StatusOK, courses, "top courses")
}

func (h *CourseHandler) FindByName(c *gin.Context) {
	courses, err := h.Svc.FindByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Logger.WithError(err).Error("search courses failed")
		response.Error(c, http.StatusInternalServerError, "could not search courses", nil)
		return
	}
	if len(courses) == 0 {
		response.Error(c, http.StatusNotFound, "no courses match this name", nil)
		return
	}
	response.Success(c, http.StatusOK, courses, "courses")
}

func (h *CourseHandler) ByInstructor(c *gin.Context) {
	courses, err := h.Svc.ByInstructor(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.WithError(err).Error("courses by instructor failed")
		response.Error(c, http.StatusInternalServerError, "could not list courses", nil)
		return
	}
	if len(courses) == 0 {
		response.Error(c, http.StatusNotFound, "this instructor has no courses", nil)
		return
	}
	response.Success(c, http.StatusOK, courses, "courses")
}

func (h *CourseHandler) ByStudent(c *gin.Context) {
	courses, err := h.Svc.ByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.WithError(err).Error("courses by student failed")
		response.Error(c, http.StatusInternalServerError, "could not list courses", nil)
		return
	}
	if len(courses) == 0 {
		response.Error(c, http.StatusNotFound, "this student has not enrolled in any course", nil)
		return
	}
	response.Success(c, http.StatusOK, courses, "courses")
}

func (h *CourseHandler) Messages(c *gin.Context) {
	comments, err := h.Svc.Messages(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get messages failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"comments": comments}, "messages")
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	user, err := h.Users.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "user not found", nil)
		return
	}

	course, err := h.Svc.Create(c.Request.Context(), user, req.toInput(), imageFromForm(c))
	if err != nil {
		if errors.Is(err, application.ErrInstructorOnly) {
			response.Error(c, http.StatusBadRequest, "only instructors can publish courses", nil)
			return
		}
		h.Logger.WithError(err).Error("create course failed")
		response.Error(c, http.StatusInternalServerError, "could not create course", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": course}, "course created")
}

func (h *CourseHandler) Update(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	course, err := h.Svc.Update(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.toInput(), imageFromForm(c))
	if err != nil {
		h.respondError(c, err, "update course failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": course}, "course updated")
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		h.respondError(c, err, "delete course failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "course deleted")
}

func (h *CourseHandler) Enroll(c *gin.Context) {
	err := h.Svc.Enroll(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, application.ErrAlreadyEnrolled) {
			response.Error(c, http.StatusBadRequest, "already enrolled in this course", nil)
			return
		}
		h.respondError(c, err, "enroll failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"enrolled": true}, "enrolled")
}

func (h *CourseHandler) Rate(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "rating must be between 1 and 5", validation.ToDetails(err))
		return
	}

	course, err := h.Svc.Rate(c.Request.Context(), c.Param("id"), c.GetString("userID"), req.Rating)
	if err != nil {
		if errors.Is(err, application.ErrRatingRange) {
			response.Error(c, http.StatusBadRequest, "rating must be between 1 and 5", nil)
			return
		}
		h.respondError(c, err, "rate course failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": course}, "rated")
}

func (h *CourseHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	course, err := h.Svc.AddComment(c.Request.Context(), c.Param("id"), c.GetString("userID"), req.CommentText)
	if err != nil {
		h.respondError(c, err, "add comment failed")
		return
	}
	response.Success(c, http.StatusOK, course, "comment added")
}

func (h *CourseHandler) DeleteComment(c *gin.Context) {
	course, err := h.Svc.DeleteComment(c.Request.Context(), c.Param("courseId"), c.Param("messageId"))
	if err != nil {
		h.respondError(c, err, "delete comment failed")
		return
	}
	response.Success(c, http.StatusOK, course, "comment deleted")
}

func (h *CourseHandler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, application.ErrCourseNotFound):
		response.Error(c, http.StatusNotFound, "course not found", nil)
	case errors.Is(err, application.ErrCommentNotFound):
		response.Error(c, http.StatusNotFound, "comment not found", nil)
	case errors.Is(err, application.ErrNotCourseOwner):
		response.Error(c, http.StatusForbidden, "only the owning instructor can do this", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "user not found", nil)
	default:
		h.Logger.WithError(err).Error(logMsg)
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
	}
}
