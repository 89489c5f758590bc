package entity

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSetRatingLastWriteWins(t *testing.T) {
	c := &Course{}
	alice := primitive.NewObjectID()

	c.SetRating(alice, 3)
	c.SetRating(alice, 5)

	if len(c.Ratings) != 1 {
		t.Fatalf("ratings = %d entries, want 1", len(c.Ratings))
	}
	if c.Ratings[0].Rating != 5 {
		t.Errorf("rating = %d, want 5", c.Ratings[0].Rating)
	}
	if c.AverageRating != 5 {
		t.Errorf("average = %v, want 5", c.AverageRating)
	}
}

func TestRecomputeAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"empty", nil, 0},
		{"single", []int{3}, 3},
		{"rounds half up", []int{4, 5}, 4.5},
		{"one decimal", []int{5, 5, 4}, 4.7},
		{"rounds down", []int{1, 1, 2}, 1.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Course{}
			for _, r := range tt.ratings {
				c.Ratings = append(c.Ratings, Rating{UserID: primitive.NewObjectID(), Rating: r})
			}
			c.RecomputeAverageRating()
			if c.AverageRating != tt.want {
				t.Errorf("average(%v) = %v, want %v", tt.ratings, c.AverageRating, tt.want)
			}
		})
	}
}

func TestRemoveComment(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	c := &Course{Comments: []Comment{
		{ID: first, CommentText: "one"},
		{ID: second, CommentText: "two"},
	}}

	if !c.RemoveComment(first) {
		t.Fatal("existing comment not removed")
	}
	if len(c.Comments) != 1 || c.Comments[0].ID != second {
		t.Errorf("comments after remove = %+v", c.Comments)
	}
	if c.RemoveComment(first) {
		t.Error("removed the same comment twice")
	}
}

func TestHasStudent(t *testing.T) {
	c := &Course{Students: []string{"a", "b"}}
	if !c.HasStudent("a") || c.HasStudent("z") {
		t.Errorf("HasStudent gave wrong membership for %v", c.Students)
	}
}
