package api

import (
	"context"
	"fmt"
	"net/http"

	"coursecompare/internal/domain"
)

func (c *Client) ObtainToken(ctx context.Context, username, password string) (domain.TokenPair, error) {
	var pair domain.TokenPair
	err := c.do(ctx, http.MethodPost, "/token/", "", map[string]string{
		"username": username,
		"password": password,
	}, &pair)
	return pair, err
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	return c.do(ctx, http.MethodPost, "/register/", "", reg, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, token string, update domain.ProfileUpdate) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodPut, "/update-profile/", token, update, &user)
	return user, err
}

func (c *Client) Courses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	err := c.do(ctx, http.MethodGet, "/courses/", "", nil, &courses)
	return courses, err
}

func (c *Client) Course(ctx context.Context, id int) (domain.Course, error) {
	var course domain.Course
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/courses/%d/", id), "", nil, &course)
	return course, err
}

func (c *Client) Reviews(ctx context.Context) ([]domain.Review, error) {
	var reviews []domain.Review
	err := c.do(ctx, http.MethodGet, "/reviews/", "", nil, &reviews)
	return reviews, err
}

func (c *Client) ReviewsByCourse(ctx context.Context, courseID int) ([]domain.Review, error) {
	var reviews []domain.Review
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reviews/by-course/%d/", courseID), "", nil, &reviews)
	return reviews, err
}

func (c *Client) CreateReview(ctx context.Context, token string, review domain.NewReview) (domain.Review, error) {
	var created domain.Review
	err := c.do(ctx, http.MethodPost, "/reviews/", token, review, &created)
	return created, err
}

func (c *Client) SavedCourses(ctx context.Context, token string) ([]domain.SavedCourse, error) {
	var saved []domain.SavedCourse
	err := c.do(ctx, http.MethodGet, "/saved-courses/", token, nil, &saved)
	return saved, err
}

// SaveCourse no decodifica la respuesta: algunos backends devuelven sólo el id del curso.
func (c *Client) SaveCourse(ctx context.Context, token string, courseID int) error {
	return c.do(ctx, http.MethodPost, "/saved-courses/", token, map[string]int{"course_id": courseID}, nil)
}

func (c *Client) DeleteSavedCourse(ctx context.Context, token string, savedCourseID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/saved-courses/%d/", savedCourseID), token, nil, nil)
}

func (c *Client) SendContactMessage(ctx context.Context, token string, msg domain.ContactMessage) error {
	return c.do(ctx, http.MethodPost, "/contact-messages/", token, msg, nil)
}
