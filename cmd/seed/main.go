package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/skillboost/skillboost-api/config"
	"github.com/skillboost/skillboost-api/internal/domain/entity"
	"github.com/skillboost/skillboost-api/internal/domain/repository"
	"github.com/skillboost/skillboost-api/internal/infrastructure/mongodb"
	"github.com/skillboost/skillboost-api/pkg/helpers"
)

// Seeds a demo instructor, a demo student and two courses for local
// development. Safe to run repeatedly; existing accounts are reused.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDatabase)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db)
	courses := mongodb.NewCourseRepository(db)

	instructor := ensureUser(ctx, users, "instructor@example.com", "demoInstructor", "password123", entity.RoleInstructor)
	student := ensureUser(ctx, users, "student@example.com", "demoStudent", "password123", entity.RoleStudent)

	seedCourses := []*entity.Course{
		{
			Title:       "Go from zero to production",
			Description: "Build and ship real backend services in Go.",
			Price:       1200,
			Instructor:  instructor.ID,
			Students:    []string{student.ID.Hex()},
			Content:     "Modules, HTTP services, databases, deployment.",
			VideoURL:    "https://www.youtube.com/watch?v=un6ZyFkqFKo",
		},
		{
			Title:       "Practical MongoDB for web apps",
			Description: "Schema design and queries for document stores.",
			Price:       900,
			Instructor:  instructor.ID,
			Students:    []string{},
			Content:     "Documents, indexes, aggregation pipelines.",
			VideoURL:    "https://www.youtube.com/watch?v=ofme2o29ngU",
		},
	}

	existing, err := courses.ByInstructor(ctx, instructor.ID.Hex())
	if err != nil {
		log.Fatalf("failed to list courses: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("instructor already has %d course(s), skipping course seed", len(existing))
		return
	}

	for _, c := range seedCourses {
		if err := courses.Create(ctx, c); err != nil {
			log.Fatalf("failed to seed course %q: %v", c.Title, err)
		}
		log.Printf("seeded course %q (%s)", c.Title, c.ID.Hex())
	}
}

func ensureUser(ctx context.Context, users repository.UserRepository, email, username, password, role string) *entity.User {
	u, err := users.GetByEmail(ctx, email)
	if err == nil {
		log.Printf("user %s already exists", email)
		return u
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("failed to look up %s: %v", email, err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u = &entity.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     role,
		Date:     time.Now(),
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	log.Printf("seeded %s %s (%s)", role, email, u.ID.Hex())
	return u
}
