package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skillboost/skillboost-api/internal/application"
	"github.com/skillboost/skillboost-api/pkg/response"
	"github.com/skillboost/skillboost-api/pkg/validation"
)

type OrderHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

type addToCartRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}

func (h *OrderHandler) GetCart(c *gin.Context) {
	cart, err := h.Svc.GetActiveCart(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, application.ErrCartNotFound) {
			// Empty-cart state, not a failure.
			response.Error(c, http.StatusNotFound, "cart is empty", nil)
			return
		}
		h.Logger.WithError(err).Error("get cart failed")
		response.Error(c, http.StatusInternalServerError, "could not load cart", nil)
		return
	}
	response.Success(c, http.StatusOK, cart, "cart")
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.Svc.ListOrders(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.Logger.WithError(err).Error("list orders failed")
		response.Error(c, http.StatusInternalServerError, "could not list orders", nil)
		return
	}
	if len(orders) == 0 {
		response.Error(c, http.StatusNotFound, "no order history", nil)
		return
	}
	response.Success(c, http.StatusOK, orders, "orders")
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.Svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, "order not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get order failed")
		response.Error(c, http.StatusInternalServerError, "could not load order", nil)
		return
	}
	response.Success(c, http.StatusOK, order, "order")
}

func (h *OrderHandler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	cart, err := h.Svc.AddToCart(c.Request.Context(), c.GetString("userID"), req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrCourseNotFound):
			response.Error(c, http.StatusNotFound, "course not found", nil)
		case errors.Is(err, application.ErrDuplicateCartItem):
			response.Error(c, http.StatusBadRequest, "course already in cart", nil)
		default:
			h.Logger.WithError(err).Error("add to cart failed")
			response.Error(c, http.StatusInternalServerError, "could not add to cart", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, cart, "added to cart")
}

func (h *OrderHandler) RemoveFromCart(c *gin.Context) {
	cart, err := h.Svc.RemoveFromCart(c.Request.Context(), c.GetString("userID"), c.Param("courseId"))
	if err != nil {
		if errors.Is(err, application.ErrCartNotFound) {
			response.Error(c, http.StatusNotFound, "cart is empty", nil)
			return
		}
		h.Logger.WithError(err).Error("remove from cart failed")
		response.Error(c, http.StatusInternalServerError, "could not update cart", nil)
		return
	}
	response.Success(c, http.StatusOK, cart, "removed from cart")
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	order, err := h.Svc.Checkout(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, "order not found or not yours", nil)
		case errors.Is(err, application.ErrEmptyCart):
			response.Error(c, http.StatusBadRequest, "cannot place an order with an empty cart", nil)
		default:
			h.Logger.WithError(err).Error("checkout failed")
			response.Error(c, http.StatusInternalServerError, "could not place order", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, order, "order placed")
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.Svc.DeleteOrder(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, "order not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete order failed")
		response.Error(c, http.StatusInternalServerError, "could not delete order", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "order deleted")
}
