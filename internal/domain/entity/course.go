package entity

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating is one user's score for a course. A user has at most one entry;
// rating again overwrites the previous value.
type Rating struct {
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Rating int                `bson:"rating" json:"rating"`
}

// Comment is an append-only message left on a course.
type Comment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	CommentText string             `bson:"commentText" json:"commentText"`
	Date        time.Time          `bson:"date" json:"date"`
}

// Course is the catalog aggregate. Students holds the ids of enrolled users
// as hex strings. AverageRating is a cache derived from Ratings and must be
// recomputed after every rating mutation.
type Course struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Price         float64            `bson:"price" json:"price"`
	Instructor    primitive.ObjectID `bson:"instructor" json:"instructor"`
	Students      []string           `bson:"students" json:"students"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Content       string             `bson:"content" json:"content"`
	VideoURL      string             `bson:"videoUrl" json:"videoUrl"`
	Ratings       []Rating           `bson:"ratings" json:"ratings"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	Comments      []Comment          `bson:"comments" json:"comments"`
}

// HasStudent reports whether the given user id is in the enrollment set.
func (c *Course) HasStudent(userID string) bool {
	for _, s := range c.Students {
		if s == userID {
			return true
		}
	}
	return false
}

// SetRating records a user's rating with last-write-wins semantics and
// refreshes the cached average.
func (c *Course) SetRating(userID primitive.ObjectID, value int) {
	for i := range c.Ratings {
		if c.Ratings[i].UserID == userID {
			c.Ratings[i].Rating = value
			c.RecomputeAverageRating()
			return
		}
	}
	c.Ratings = append(c.Ratings, Rating{UserID: userID, Rating: value})
	c.RecomputeAverageRating()
}

// RecomputeAverageRating derives AverageRating from the full ratings list,
// rounded to one decimal place. An empty list yields 0.
func (c *Course) RecomputeAverageRating() {
	if len(c.Ratings) == 0 {
		c.AverageRating = 0
		return
	}
	sum := 0
	for _, r := range c.Ratings {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(c.Ratings))
	c.AverageRating = math.Round(mean*10) / 10
}

// RemoveComment deletes the comment with the given id. It reports whether a
// comment was removed.
func (c *Course) RemoveComment(commentID primitive.ObjectID) bool {
	for i := range c.Comments {
		if c.Comments[i].ID == commentID {
			c.Comments = append(c.Comments[:i], c.Comments[i+1:]...)
			return true
		}
	}
	return false
}
