package mongodb

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillboost/skillboost-api/internal/domain/entity"
	"github.com/skillboost/skillboost-api/internal/domain/repository"
)

type CourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{coll: db.Collection(CoursesCollection)}
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Students == nil {
		c.Students = []string{}
	}
	if c.Ratings == nil {
		c.Ratings = []entity.Rating{}
	}
	if c.Comments == nil {
		c.Comments = []entity.Comment{}
	}
	_, err := r.coll.InsertOne(ctx, c)
	return err
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	c := &entity.Course{}
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CourseRepository) All(ctx context.Context) ([]entity.Course, error) {
	return r.find(ctx, bson.M{})
}

func (r *CourseRepository) ByInstructor(ctx context.Context, instructorID string) ([]entity.Course, error) {
	oid, err := primitive.ObjectIDFromHex(instructorID)
	if err != nil {
		return []entity.Course{}, nil
	}
	return r.find(ctx, bson.M{"instructor": oid})
}

func (r *CourseRepository) ByStudent(ctx context.Context, studentID string) ([]entity.Course, error) {
	return r.find(ctx, bson.M{"students": studentID})
}

func (r *CourseRepository) SearchByTitle(ctx context.Context, name string) ([]entity.Course, error) {
	return r.find(ctx, bson.M{"title": bson.M{
		"$regex":   regexp.QuoteMeta(name),
		"$options": "i",
	}})
}

func (r *CourseRepository) find(ctx context.Context, filter bson.M) ([]entity.Course, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var courses []entity.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []entity.Course{}
	}
	return courses, nil
}

func (r *CourseRepository) Update(ctx context.Context, c *entity.Course) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
