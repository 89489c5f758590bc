package application

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillboost/skillboost-api/internal/domain/entity"
	"github.com/skillboost/skillboost-api/internal/domain/repository"
)

// In-memory repositories backing the service tests. They mirror the mongo
// implementations: lookups by hex id, ErrNotFound for missing documents,
// value-copy semantics so only Update persists mutations.

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type memUsers struct {
	byID map[string]entity.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.byID[u.ID.Hex()] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	if _, ok := m.byID[u.ID.Hex()]; !ok {
		return repository.ErrNotFound
	}
	m.byID[u.ID.Hex()] = *u
	return nil
}

type memCourses struct {
	ids  []string
	byID map[string]entity.Course
}

func newMemCourses() *memCourses { return &memCourses{byID: map[string]entity.Course{}} }

func (m *memCourses) Create(_ context.Context, c *entity.Course) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Students == nil {
		c.Students = []string{}
	}
	m.ids = append(m.ids, c.ID.Hex())
	m.byID[c.ID.Hex()] = *c
	return nil
}

func (m *memCourses) GetByID(_ context.Context, id string) (*entity.Course, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (m *memCourses) All(_ context.Context) ([]entity.Course, error) {
	out := make([]entity.Course, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.byID[id])
	}
	return out, nil
}

func (m *memCourses) ByInstructor(_ context.Context, instructorID string) ([]entity.Course, error) {
	var out []entity.Course
	for _, id := range m.ids {
		if c := m.byID[id]; c.Instructor.Hex() == instructorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCourses) ByStudent(_ context.Context, studentID string) ([]entity.Course, error) {
	var out []entity.Course
	for _, id := range m.ids {
		c := m.byID[id]
		if c.HasStudent(studentID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCourses) SearchByTitle(_ context.Context, name string) ([]entity.Course, error) {
	var out []entity.Course
	for _, id := range m.ids {
		if c := m.byID[id]; strings.Contains(strings.ToLower(c.Title), strings.ToLower(name)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCourses) Update(_ context.Context, c *entity.Course) error {
	if _, ok := m.byID[c.ID.Hex()]; !ok {
		return repository.ErrNotFound
	}
	m.byID[c.ID.Hex()] = *c
	return nil
}

func (m *memCourses) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	for i, v := range m.ids {
		if v == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	return nil
}

type memOrders struct {
	ids  []string
	byID map[string]entity.Order
}

func newMemOrders() *memOrders { return &memOrders{byID: map[string]entity.Order{}} }

func (m *memOrders) Create(_ context.Context, o *entity.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	m.ids = append(m.ids, o.ID.Hex())
	m.byID[o.ID.Hex()] = *o
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (m *memOrders) ActiveCartByUser(_ context.Context, userID string) (*entity.Order, error) {
	for _, id := range m.ids {
		o := m.byID[id]
		if o.UserID.Hex() == userID && o.Status == entity.StatusCart {
			cp := o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memOrders) OrdersByUser(_ context.Context, userID string) ([]entity.Order, error) {
	var out []entity.Order
	for _, id := range m.ids {
		o := m.byID[id]
		if o.UserID.Hex() == userID && o.Status == entity.StatusOrder {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) Update(_ context.Context, o *entity.Order) error {
	if _, ok := m.byID[o.ID.Hex()]; !ok {
		return repository.ErrNotFound
	}
	m.byID[o.ID.Hex()] = *o
	return nil
}

func (m *memOrders) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	for i, v := range m.ids {
		if v == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	return nil
}

// interface guards
var (
	_ repository.UserRepository   = (*memUsers)(nil)
	_ repository.CourseRepository = (*memCourses)(nil)
	_ repository.OrderRepository  = (*memOrders)(nil)
)
