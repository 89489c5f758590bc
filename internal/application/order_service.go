package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillboost/skillboost-api/internal/domain/entity"
	"github.com/skillboost/skillboost-api/internal/domain/repository"
	"github.com/skillboost/skillboost-api/pkg/helpers"
	"github.com/skillboost/skillboost-api/pkg/mailer"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrCartNotFound      = errors.New("no active cart")
	ErrDuplicateCartItem = errors.New("course already in cart")
	ErrEmptyCart         = errors.New("cannot check out an empty cart")
)

// OrderService implements the cart and order lifecycle: a user has at most
// one status=cart order, line items snapshot course title/price at add time,
// and the total is always recomputed from the full line-item list.
type OrderService struct {
	Orders  repository.OrderRepository
	Courses repository.CourseRepository
	Users   repository.UserRepository
	Pub     *helpers.RabbitPublisher
	Logger  *logrus.Logger
}

func NewOrderService(orders repository.OrderRepository, courses repository.CourseRepository, users repository.UserRepository, pub *helpers.RabbitPublisher, logger *logrus.Logger) *OrderService {
	return &OrderService{Orders: orders, Courses: courses, Users: users, Pub: pub, Logger: logger}
}

// OrderItemView is a line item joined with the current course projection.
// Title and Price stay the add-time snapshot; Image, AverageRating and the
// instructor name reflect the course as it is now.
type OrderItemView struct {
	CourseID      string  `json:"courseId"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	Image         string  `json:"image,omitempty"`
	AverageRating float64 `json:"averageRating"`
	Instructor    string  `json:"instructor,omitempty"`
}

// OrderView is an order with its line items expanded.
type OrderView struct {
	ID         string          `json:"_id"`
	UserID     string          `json:"userId"`
	Status     string          `json:"status"`
	Courses    []OrderItemView `json:"courses"`
	TotalPrice float64         `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// GetActiveCart returns the user's status=cart order with line items
// expanded. ErrCartNotFound signals the empty-cart state, not a failure.
func (s *OrderService) GetActiveCart(ctx context.Context, userID string) (*OrderView, error) {
	cart, err := s.Orders.ActiveCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return s.expand(ctx, cart), nil
}

// AddToCart puts a course into the user's active cart, creating the cart if
// none exists. The line item snapshots the course's current title and price;
// adding a course already present fails with ErrDuplicateCartItem.
func (s *OrderService) AddToCart(ctx context.Context, userID, courseID string) (*OrderView, error) {
	course, err := s.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	item := entity.OrderItem{CourseID: course.ID, Title: course.Title, Price: course.Price}

	cart, err := s.Orders.ActiveCartByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		uid, perr := parseUserID(userID)
		if perr != nil {
			return nil, perr
		}
		cart = &entity.Order{
			UserID:     uid,
			Status:     entity.StatusCart,
			Courses:    []entity.OrderItem{item},
			TotalPrice: item.Price,
			CreatedAt:  time.Now(),
		}
		if err := s.Orders.Create(ctx, cart); err != nil {
			return nil, err
		}
		return s.expand(ctx, cart), nil
	}
	if err != nil {
		return nil, err
	}

	if cart.HasCourse(course.ID) {
		return nil, ErrDuplicateCartItem
	}
	cart.Courses = append(cart.Courses, item)
	cart.RecomputeTotal()
	if err := s.Orders.Update(ctx, cart); err != nil {
		return nil, err
	}
	return s.expand(ctx, cart), nil
}

// RemoveFromCart drops the matching line item from the user's active cart
// and recomputes the total. Removing a course that is not in the cart leaves
// it unchanged.
func (s *OrderService) RemoveFromCart(ctx context.Context, userID, courseID string) (*OrderView, error) {
	cart, err := s.Orders.ActiveCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	kept := cart.Courses[:0]
	for _, it := range cart.Courses {
		if it.CourseID.Hex() != courseID {
			kept = append(kept, it)
		}
	}
	cart.Courses = kept
	cart.RecomputeTotal()

	if err := s.Orders.Update(ctx, cart); err != nil {
		return nil, err
	}
	return s.expand(ctx, cart), nil
}

// Checkout transitions the order from cart to order. The order must exist,
// belong to the user and still be a cart; an empty cart cannot be checked
// out. The transition is one-way. A confirmation email job is published
// best-effort after the transition persists.
func (s *OrderService) Checkout(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID.Hex() != userID || order.Status != entity.StatusCart {
		return nil, ErrOrderNotFound
	}
	if len(order.Courses) == 0 {
		return nil, ErrEmptyCart
	}

	order.Status = entity.StatusOrder
	if err := s.Orders.Update(ctx, order); err != nil {
		return nil, err
	}
	s.publishConfirmation(ctx, order)
	return order, nil
}

// ListOrders returns the user's placed orders (status=order) with line items
// expanded, in storage order.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]OrderView, error) {
	orders, err := s.Orders.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, *s.expand(ctx, &orders[i]))
	}
	return views, nil
}

// GetOrder returns one order by id regardless of status.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*OrderView, error) {
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return s.expand(ctx, order), nil
}

// DeleteOrder removes an order. Only the owner may delete; a non-owner gets
// ErrOrderNotFound rather than a forbidden signal so order ids of other
// users are not probeable.
func (s *OrderService) DeleteOrder(ctx context.Context, userID, orderID string) error {
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if order.UserID.Hex() != userID {
		return ErrOrderNotFound
	}
	if err := s.Orders.Delete(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return nil
}

// expand joins line items with their current course projection. Courses that
// no longer exist keep their snapshotted title/price only.
func (s *OrderService) expand(ctx context.Context, o *entity.Order) *OrderView {
	view := &OrderView{
		ID:         o.ID.Hex(),
		UserID:     o.UserID.Hex(),
		Status:     o.Status,
		Courses:    make([]OrderItemView, 0, len(o.Courses)),
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
	}
	instructors := map[string]string{}
	for _, it := range o.Courses {
		iv := OrderItemView{CourseID: it.CourseID.Hex(), Title: it.Title, Price: it.Price}
		if course, err := s.Courses.GetByID(ctx, it.CourseID.Hex()); err == nil {
			iv.Image = course.Image
			iv.AverageRating = course.AverageRating
			ihex := course.Instructor.Hex()
			if name, ok := instructors[ihex]; ok {
				iv.Instructor = name
			} else if u, uerr := s.Users.GetByID(ctx, ihex); uerr == nil {
				instructors[ihex] = u.Username
				iv.Instructor = u.Username
			}
		}
		view.Courses = append(view.Courses, iv)
	}
	return view
}

// publishConfirmation enqueues an order-confirmation email job. Failures are
// logged and never surfaced to the checkout caller.
func (s *OrderService) publishConfirmation(ctx context.Context, o *entity.Order) {
	if s.Pub == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, o.UserID.Hex())
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("order_id", o.ID.Hex()).Warn("confirmation email: user lookup failed")
		}
		return
	}
	titles := make([]string, 0, len(o.Courses))
	for _, it := range o.Courses {
		titles = append(titles, it.Title)
	}
	job := mailer.OrderEmailJob{
		To:         u.Email,
		Username:   u.Username,
		OrderID:    o.ID.Hex(),
		Courses:    titles,
		TotalPrice: o.TotalPrice,
		PlacedAt:   time.Now(),
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("order_id", o.ID.Hex()).Warn("publish confirmation email failed")
	}
}

func parseUserID(userID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid user id %q", userID)
	}
	return oid, nil
}
