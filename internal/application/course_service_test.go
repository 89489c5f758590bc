package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/skillboost/skillboost-api/internal/domain/entity"
)

type courseFixture struct {
	svc        *CourseService
	users      *memUsers
	courses    *memCourses
	instructor *entity.User
	student    *entity.User
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()
	ctx := context.Background()

	users := newMemUsers()
	courses := newMemCourses()

	instructor := &entity.User{Username: "teachA", Email: "teach@example.com", Role: entity.RoleInstructor, Date: time.Now()}
	student := &entity.User{Username: "stu", Email: "stu@example.com", Role: entity.RoleStudent, Date: time.Now()}
	for _, u := range []*entity.User{instructor, student} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	return &courseFixture{
		svc:        NewCourseService(courses, users, nil, nil, testLogger(), nil, "", 0),
		users:      users,
		courses:    courses,
		instructor: instructor,
		student:    student,
	}
}

func (f *courseFixture) mustCreate(t *testing.T, title string, price float64) *CourseView {
	t.Helper()
	view, err := f.svc.Create(context.Background(), f.instructor, CourseInput{
		Title:       title,
		Description: "a course about " + title,
		Price:       price,
		Content:     "lessons",
		VideoURL:    "https://example.com/v",
	}, nil)
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return view
}

func TestCreateRejectsStudents(t *testing.T) {
	f := newCourseFixture(t)

	_, err := f.svc.Create(context.Background(), f.student, CourseInput{Title: "nope"}, nil)
	if !errors.Is(err, ErrInstructorOnly) {
		t.Fatalf("err = %v, want ErrInstructorOnly", err)
	}
}

func TestCreateAndGetResolvesInstructor(t *testing.T) {
	f := newCourseFixture(t)

	created := f.mustCreate(t, "Go basics", 1000)
	got, err := f.svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Instructor.Username != "teachA" {
		t.Errorf("instructor = %q, want teachA", got.Instructor.Username)
	}
	if got.StudentCount != 0 || got.AverageRating != 0 {
		t.Errorf("fresh course: students=%d avg=%v, want 0/0", got.StudentCount, got.AverageRating)
	}
}

func TestUpdateOwnerOnly(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	created := f.mustCreate(t, "Go basics", 1000)

	other := &entity.User{Username: "teachB", Email: "b@example.com", Role: entity.RoleInstructor}
	if err := f.users.Create(ctx, other); err != nil {
		t.Fatal(err)
	}

	in := CourseInput{Title: "Go basics v2", Description: "updated desc", Price: 1200, Content: "more", VideoURL: "https://example.com/v2"}
	if _, err := f.svc.Update(ctx, other.ID.Hex(), created.ID, in, nil); !errors.Is(err, ErrNotCourseOwner) {
		t.Fatalf("foreign update: %v, want ErrNotCourseOwner", err)
	}

	got, err := f.svc.Update(ctx, f.instructor.ID.Hex(), created.ID, in, nil)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if got.Title != "Go basics v2" || got.Price != 1200 {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestDeleteOwnerOnly(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	created := f.mustCreate(t, "Go basics", 1000)

	if err := f.svc.Delete(ctx, f.student.ID.Hex(), created.ID); !errors.Is(err, ErrNotCourseOwner) {
		t.Fatalf("foreign delete: %v, want ErrNotCourseOwner", err)
	}
	if err := f.svc.Delete(ctx, f.instructor.ID.Hex(), created.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := f.svc.Get(ctx, created.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Get after delete: %v, want ErrCourseNotFound", err)
	}
}

func TestEnrollOnce(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	created := f.mustCreate(t, "Go basics", 1000)
	uid := f.student.ID.Hex()

	if err := f.svc.Enroll(ctx, created.ID, uid); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if err := f.svc.Enroll(ctx, created.ID, uid); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("second enroll: %v, want ErrAlreadyEnrolled", err)
	}

	mine, err := f.svc.ByStudent(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].StudentCount != 1 {
		t.Errorf("ByStudent = %+v", mine)
	}
}

func TestRateValidatesRange(t *testing.T) {
	f := newCourseFixture(t)
	created := f.mustCreate(t, "Go basics", 1000)

	for _, bad := range []int{0, 6, -1} {
		if _, err := f.svc.Rate(context.Background(), created.ID, f.student.ID.Hex(), bad); !errors.Is(err, ErrRatingRange) {
			t.Errorf("rating %d: %v, want ErrRatingRange", bad, err)
		}
	}
}

func TestRateOverwritesPerUser(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	created := f.mustCreate(t, "Go basics", 1000)
	uid := f.student.ID.Hex()

	if _, err := f.svc.Rate(ctx, created.ID, uid, 2); err != nil {
		t.Fatal(err)
	}
	got, err := f.svc.Rate(ctx, created.ID, uid, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Ratings) != 1 {
		t.Fatalf("ratings = %d entries, want 1", len(got.Ratings))
	}
	if got.AverageRating != 5 {
		t.Errorf("average = %v, want 5", got.AverageRating)
	}
}

func TestAverageRatingRoundsToOneDecimal(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	created := f.mustCreate(t, "Go basics", 1000)

	other := &entity.User{Username: "stu2", Email: "stu2@example.com", Role: entity.RoleStudent}
	if err := f.users.Create(ctx, other); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Rate(ctx, created.ID, f.student.ID.Hex(), 4); err != nil {
		t.Fatal(err)
	}
	got, err := f.svc.Rate(ctx, created.ID, other.ID.Hex(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if got.AverageRating != 4.5 {
		t.Errorf("average = %v, want 4.5", got.AverageRating)
	}
}

func TestCommentsLifecycle(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	created := f.mustCreate(t, "Go basics", 1000)

	got, err := f.svc.AddComment(ctx, created.ID, f.student.ID.Hex(), "great course")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(got.Comments) != 1 {
		t.Fatalf("comments = %d, want 1", len(got.Comments))
	}
	if got.Comments[0].User.Username != "stu" {
		t.Errorf("author = %q, want stu", got.Comments[0].User.Username)
	}

	msgs, err := f.svc.Messages(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].CommentText != "great course" {
		t.Errorf("Messages = %+v", msgs)
	}

	got, err = f.svc.DeleteComment(ctx, created.ID, msgs[0].ID)
	if err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if len(got.Comments) != 0 {
		t.Errorf("comments after delete = %d, want 0", len(got.Comments))
	}
	if _, err := f.svc.DeleteComment(ctx, created.ID, msgs[0].ID); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("second delete: %v, want ErrCommentNotFound", err)
	}
}

func TestFindByNameFallsBackToSubstringMatch(t *testing.T) {
	f := newCourseFixture(t)

	f.mustCreate(t, "Go basics", 1000)
	f.mustCreate(t, "Advanced Go", 2500)
	f.mustCreate(t, "Cooking 101", 500)

	got, err := f.svc.FindByName(context.Background(), "go")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("matches = %d, want 2", len(got))
	}
}

func TestTop5OrdersByEnrollment(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	// seven courses, course i has i enrolled students
	for i := 0; i < 7; i++ {
		created := f.mustCreate(t, fmt.Sprintf("course %d", i), 1000)
		for j := 0; j < i; j++ {
			u := &entity.User{Username: fmt.Sprintf("s%d-%d", i, j), Email: fmt.Sprintf("s%d-%d@example.com", i, j), Role: entity.RoleStudent}
			if err := f.users.Create(ctx, u); err != nil {
				t.Fatal(err)
			}
			if err := f.svc.Enroll(ctx, created.ID, u.ID.Hex()); err != nil {
				t.Fatal(err)
			}
		}
	}

	top, err := f.svc.Top5(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 5 {
		t.Fatalf("top = %d courses, want 5", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].StudentCount > top[i-1].StudentCount {
			t.Errorf("not sorted by enrollment: %d before %d", top[i-1].StudentCount, top[i].StudentCount)
		}
	}
	if top[0].StudentCount != 6 {
		t.Errorf("most popular has %d students, want 6", top[0].StudentCount)
	}
}
