package application

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillboost/skillboost-api/internal/domain/entity"
	"github.com/skillboost/skillboost-api/internal/domain/repository"
	"github.com/skillboost/skillboost-api/pkg/helpers"
	"github.com/skillboost/skillboost-api/pkg/uploader"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrNotCourseOwner  = errors.New("only the owning instructor may modify this course")
	ErrInstructorOnly  = errors.New("only instructors may publish courses")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrRatingRange     = errors.New("rating must be between 1 and 5")
	ErrCommentNotFound = errors.New("comment not found")
)

const courseListCacheKey = "courses:all"

// CourseService implements the catalog: course CRUD, enrollment, ratings and
// comments, plus list caching and an optional search index.
type CourseService struct {
	Courses  repository.CourseRepository
	Users    repository.UserRepository
	Uploads  uploader.Backend
	Redis    *redis.Client
	Logger   *logrus.Logger
	ES       *elasticsearch.Client
	ESIndex  string
	CacheTTL time.Duration
}

func NewCourseService(courses repository.CourseRepository, users repository.UserRepository, uploads uploader.Backend, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, cacheTTL time.Duration) *CourseService {
	return &CourseService{
		Courses:  courses,
		Users:    users,
		Uploads:  uploads,
		Redis:    rdb,
		Logger:   logger,
		ES:       es,
		ESIndex:  esIndex,
		CacheTTL: cacheTTL,
	}
}

// UserRef is the projection of a user embedded in course responses.
type UserRef struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Image    string `json:"image,omitempty"`
}

// CommentView is a comment joined with its author's public fields.
type CommentView struct {
	ID          string    `json:"_id"`
	User        UserRef   `json:"user"`
	CommentText string    `json:"commentText"`
	Date        time.Time `json:"date"`
}

// CourseView is a course with instructor and comment authors resolved.
type CourseView struct {
	ID            string          `json:"_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         float64         `json:"price"`
	Instructor    UserRef         `json:"instructor"`
	Students      []string        `json:"students"`
	Image         string          `json:"image,omitempty"`
	Content       string          `json:"content"`
	VideoURL      string          `json:"videoUrl"`
	Ratings       []entity.Rating `json:"ratings"`
	AverageRating float64         `json:"averageRating"`
	Comments      []CommentView   `json:"comments"`
	StudentCount  int             `json:"studentCount"`
}

type CourseInput struct {
	Title       string
	Description string
	Price       float64
	Content     string
	VideoURL    string
}

// Create publishes a new course owned by the given instructor. Students are
// rejected; an optional cover image is stored through the upload backend.
func (s *CourseService) Create(ctx context.Context, instructor *entity.User, in CourseInput, image *uploader.File) (*CourseView, error) {
	if !instructor.IsInstructor() {
		return nil, ErrInstructorOnly
	}

	c := &entity.Course{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Instructor:  instructor.ID,
		Students:    []string{},
		Content:     in.Content,
		VideoURL:    in.VideoURL,
		Ratings:     []entity.Rating{},
		Comments:    []entity.Comment{},
	}
	if image != nil && s.Uploads != nil {
		url, err := s.Uploads.Store(ctx, "courses", *image)
		if err != nil {
			return nil, err
		}
		c.Image = url
	}
	if err := s.Courses.Create(ctx, c); err != nil {
		return nil, err
	}
	s.indexCourse(ctx, c)
	s.invalidateListCache(ctx)
	return s.join(ctx, c), nil
}

// Get returns one course by id.
func (s *CourseService) Get(ctx context.Context, courseID string) (*CourseView, error) {
	c, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.join(ctx, c), nil
}

// List returns every course, served from the Redis cache when warm.
func (s *CourseService) List(ctx context.Context) ([]CourseView, error) {
	if s.Redis != nil {
		var cached []CourseView
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, courseListCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}
	courses, err := s.Courses.All(ctx)
	if err != nil {
		return nil, err
	}
	views := s.joinAll(ctx, courses)
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, courseListCacheKey, views, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("cache course list failed")
		}
	}
	return views, nil
}

// Top5 returns the five courses with the most enrolled students.
func (s *CourseService) Top5(ctx context.Context) ([]CourseView, error) {
	courses, err := s.Courses.All(ctx)
	if err != nil {
		return nil, err
	}
	views := s.joinAll(ctx, courses)
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].StudentCount > views[j].StudentCount
	})
	if len(views) > 5 {
		views = views[:5]
	}
	return views, nil
}

// FindByName searches course titles. When a search index is configured it is
// consulted first; otherwise (or on index failure) a case-insensitive
// substring match against the store is used.
func (s *CourseService) FindByName(ctx context.Context, name string) ([]CourseView, error) {
	if ids, ok := s.searchIndex(ctx, name); ok {
		views := make([]CourseView, 0, len(ids))
		for _, id := range ids {
			c, err := s.Courses.GetByID(ctx, id)
			if err != nil {
				continue // index can lag behind deletions
			}
			views = append(views, *s.join(ctx, c))
		}
		return views, nil
	}
	courses, err := s.Courses.SearchByTitle(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.joinAll(ctx, courses), nil
}

// ByInstructor returns the courses owned by one instructor.
func (s *CourseService) ByInstructor(ctx context.Context, instructorID string) ([]CourseView, error) {
	courses, err := s.Courses.ByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	return s.joinAll(ctx, courses), nil
}

// ByStudent returns the courses a student is enrolled in.
func (s *CourseService) ByStudent(ctx context.Context, studentID string) ([]CourseView, error) {
	courses, err := s.Courses.ByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.joinAll(ctx, courses), nil
}

// Messages returns only the comments of one course, authors resolved.
func (s *CourseService) Messages(ctx context.Context, courseID string) ([]CommentView, error) {
	c, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.join(ctx, c).Comments, nil
}

// Update edits a course's fields. Only the owning instructor may update; a
// replacement image deletes the old one best-effort.
func (s *CourseService) Update(ctx context.Context, userID, courseID string, in CourseInput, image *uploader.File) (*CourseView, error) {
	c, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c.Instructor.Hex() != userID {
		return nil, ErrNotCourseOwner
	}

	if image != nil && s.Uploads != nil {
		url, err := s.Uploads.Store(ctx, "courses", *image)
		if err != nil {
			return nil, err
		}
		if c.Image != "" {
			if derr := s.Uploads.Delete(ctx, c.Image); derr != nil && s.Logger != nil {
				s.Logger.WithError(derr).WithField("url", c.Image).Warn("delete old course image failed")
			}
		}
		c.Image = url
	}
	c.Title = in.Title
	c.Description = in.Description
	c.Price = in.Price
	c.Content = in.Content
	c.VideoURL = in.VideoURL

	if err := s.Courses.Update(ctx, c); err != nil {
		return nil, err
	}
	s.indexCourse(ctx, c)
	s.invalidateListCache(ctx)
	return s.join(ctx, c), nil
}

// Delete removes a course. Only the owning instructor may delete; the cover
// image and the search-index document are removed best-effort.
func (s *CourseService) Delete(ctx context.Context, userID, courseID string) error {
	c, err := s.getCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if c.Instructor.Hex() != userID {
		return ErrNotCourseOwner
	}
	if err := s.Courses.Delete(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	if c.Image != "" && s.Uploads != nil {
		if derr := s.Uploads.Delete(ctx, c.Image); derr != nil && s.Logger != nil {
			s.Logger.WithError(derr).WithField("url", c.Image).Warn("delete course image failed")
		}
	}
	s.deleteFromIndex(ctx, courseID)
	s.invalidateListCache(ctx)
	return nil
}

// Enroll adds a student to the course's enrollment set. Duplicate enrollment
// is rejected. Enrollment is independent of orders and payment.
func (s *CourseService) Enroll(ctx context.Context, courseID, userID string) error {
	c, err := s.getCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if c.HasStudent(userID) {
		return ErrAlreadyEnrolled
	}
	c.Students = append(c.Students, userID)
	if err := s.Courses.Update(ctx, c); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	return nil
}

// Rate records an integer rating in [1,5] with last-write-wins per user and
// refreshes the cached average.
func (s *CourseService) Rate(ctx context.Context, courseID, userID string, rating int) (*CourseView, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrRatingRange
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	c, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	c.SetRating(uid, rating)
	if err := s.Courses.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)
	return s.join(ctx, c), nil
}

// AddComment appends a comment with a server timestamp and returns the
// course with authors resolved.
func (s *CourseService) AddComment(ctx context.Context, courseID, userID, text string) (*CourseView, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	c, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	c.Comments = append(c.Comments, entity.Comment{
		ID:          primitive.NewObjectID(),
		UserID:      uid,
		CommentText: text,
		Date:        time.Now(),
	})
	if err := s.Courses.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)
	return s.join(ctx, c), nil
}

// DeleteComment removes one comment by id.
func (s *CourseService) DeleteComment(ctx context.Context, courseID, commentID string) (*CourseView, error) {
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, ErrCommentNotFound
	}
	c, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !c.RemoveComment(cid) {
		return nil, ErrCommentNotFound
	}
	if err := s.Courses.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)
	return s.join(ctx, c), nil
}

func (s *CourseService) getCourse(ctx context.Context, courseID string) (*entity.Course, error) {
	c, err := s.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return c, nil
}

// join resolves the instructor and comment authors for one course.
func (s *CourseService) join(ctx context.Context, c *entity.Course) *CourseView {
	users := map[string]*entity.User{}
	lookup := func(id primitive.ObjectID) *entity.User {
		hex := id.Hex()
		if u, ok := users[hex]; ok {
			return u
		}
		u, err := s.Users.GetByID(ctx, hex)
		if err != nil {
			u = nil
		}
		users[hex] = u
		return u
	}

	view := &CourseView{
		ID:            c.ID.Hex(),
		Title:         c.Title,
		Description:   c.Description,
		Price:         c.Price,
		Instructor:    UserRef{ID: c.Instructor.Hex()},
		Students:      c.Students,
		Image:         c.Image,
		Content:       c.Content,
		VideoURL:      c.VideoURL,
		Ratings:       c.Ratings,
		AverageRating: c.AverageRating,
		Comments:      make([]CommentView, 0, len(c.Comments)),
		StudentCount:  len(c.Students),
	}
	if u := lookup(c.Instructor); u != nil {
		view.Instructor.Username = u.Username
		view.Instructor.Email = u.Email
	}
	for _, cm := range c.Comments {
		cv := CommentView{
			ID:          cm.ID.Hex(),
			User:        UserRef{ID: cm.UserID.Hex()},
			CommentText: cm.CommentText,
			Date:        cm.Date,
		}
		if u := lookup(cm.UserID); u != nil {
			cv.User.Username = u.Username
			cv.User.Image = u.Image
		}
		view.Comments = append(view.Comments, cv)
	}
	return view
}

func (s *CourseService) joinAll(ctx context.Context, courses []entity.Course) []CourseView {
	views := make([]CourseView, 0, len(courses))
	for i := range courses {
		views = append(views, *s.join(ctx, &courses[i]))
	}
	return views
}

func (s *CourseService) invalidateListCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, courseListCacheKey); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("invalidate course list cache failed")
	}
}

// indexCourse mirrors the course into the search index, best-effort.
func (s *CourseService) indexCourse(ctx context.Context, c *entity.Course) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          c.ID.Hex(),
		"title":       c.Title,
		"description": c.Description,
		"instructor":  c.Instructor.Hex(),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: c.ID.Hex(), Body: strings.NewReader(string(b)), Refresh: "false"}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("course_id", c.ID.Hex()).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("course_id", c.ID.Hex()).Warn("es index response error")
	}
}

func (s *CourseService) deleteFromIndex(ctx context.Context, courseID string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: courseID}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("course_id", courseID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// searchIndex queries the search index for matching course ids. The second
// return value is false when the index is unavailable and the caller should
// fall back to the store.
func (s *CourseService) searchIndex(ctx context.Context, q string) ([]string, bool) {
	if s.ES == nil || s.ESIndex == "" {
		return nil, false
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description"},
			},
		},
		"size": 50,
	}
	b, _ := json.Marshal(query)

	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(cctx),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, false
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, false
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, false
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, true
}
