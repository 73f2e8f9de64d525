package models

import "time"

// Theme preference values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// User is a profile tied to an external identity. UID is the stable id
// supplied by the identity provider, never generated here.
type User struct {
	UID             string     `json:"uid"`
	Name            string     `json:"name"`
	Email           string     `json:"email,omitempty"`
	Avatar          string     `json:"avatar"`
	Level           int        `json:"level"`
	Points          int        `json:"points"`
	Streak          int        `json:"streak"`
	OngoingCourses  []string   `json:"ongoingCourses"`
	Wishlist        []string   `json:"wishlist"`
	PendingTasks    []Task     `json:"pendingTasks"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	ThemePreference string     `json:"themePreference"`
}

// Task is a denormalized reference into a course, owned by the user and not
// kept consistent with the course automatically.
type Task struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	DueDate     string `json:"dueDate,omitempty"`
	CourseID    string `json:"courseId,omitempty"`
	CourseTitle string `json:"courseTitle,omitempty"`
}
