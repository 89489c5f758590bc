package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. An order starts life as a cart and moves to
// StatusOrder exactly once, at checkout. There is no way back.
const (
	StatusCart  = "cart"
	StatusOrder = "order"
)

// OrderItem snapshots a course's title and price at the moment it was added,
// so later course edits never alter cart or order totals.
type OrderItem struct {
	CourseID primitive.ObjectID `bson:"courseId" json:"courseId"`
	Title    string             `bson:"title" json:"title"`
	Price    float64            `bson:"price" json:"price"`
}

// Order is both the active cart (status=cart, at most one per user) and a
// placed order (status=order). TotalPrice is a cache over Courses and is
// recomputed in full on every line-item change.
type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Status     string             `bson:"status" json:"status"`
	Courses    []OrderItem        `bson:"courses" json:"courses"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// HasCourse reports whether a line item for the given course exists.
func (o *Order) HasCourse(courseID primitive.ObjectID) bool {
	for _, it := range o.Courses {
		if it.CourseID == courseID {
			return true
		}
	}
	return false
}

// RecomputeTotal sets TotalPrice to the sum over the current line items.
// Always a full recomputation; the total is never adjusted incrementally.
func (o *Order) RecomputeTotal() {
	o.TotalPrice = TotalPrice(o.Courses)
}

// TotalPrice sums the snapshotted prices of the given line items.
func TotalPrice(items []OrderItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Price
	}
	return total
}
