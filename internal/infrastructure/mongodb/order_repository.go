package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillboost/skillboost-api/internal/domain/entity"
	"github.com/skillboost/skillboost-api/internal/domain/repository"
)

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(OrdersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.Courses == nil {
		o.Courses = []entity.OrderItem{}
	}
	_, err := r.coll.InsertOne(ctx, o)
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *OrderRepository) ActiveCartByUser(ctx context.Context, userID string) (*entity.Order, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"userId": uid, "status": entity.StatusCart})
}

func (r *OrderRepository) OrdersByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []entity.Order{}, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"userId": uid, "status": entity.StatusOrder})
	if err != nil {
		return nil, err
	}
	var orders []entity.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return orders, nil
}

func (r *OrderRepository) findOne(ctx context.Context, filter bson.M) (*entity.Order, error) {
	o := &entity.Order{}
	err := r.coll.FindOne(ctx, filter).Decode(o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) Update(ctx context.Context, o *entity.Order) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": o.ID}, o)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
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

var _ repository.OrderRepository = (*OrderRepository)(nil)
