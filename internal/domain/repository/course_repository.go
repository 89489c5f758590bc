package repository

import (
	"context"

	"github.com/skillboost/skillboost-api/internal/domain/entity"
)

// CourseRepository defines the interface for course document operations.
type CourseRepository interface {
	Create(ctx context.Context, c *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	All(ctx context.Context) ([]entity.Course, error)
	ByInstructor(ctx context.Context, instructorID string) ([]entity.Course, error)
	ByStudent(ctx context.Context, studentID string) ([]entity.Course, error)
	// SearchByTitle matches course titles case-insensitively on a substring.
	SearchByTitle(ctx context.Context, name string) ([]entity.Course, error)
	Update(ctx context.Context, c *entity.Course) error
	Delete(ctx context.Context, id string) error
}
