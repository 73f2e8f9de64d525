package controllers

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"learnio/backend/config"
	"learnio/backend/hydrator"
	"learnio/backend/models"
	"learnio/backend/session"
	"learnio/backend/store"
	"learnio/backend/utils"
)

const (
	catalogCacheKey = "catalog"
	catalogCacheTTL = 5 * time.Minute

	lectureCompletePoints = 10
)

type CoursesController struct {
	Hydrator *hydrator.Hydrator
	Sessions *session.Reconciler
	Store    store.DocumentStore
	KV       *store.KV
	Cfg      *config.Config
}

func NewCoursesController(h *hydrator.Hydrator, sessions *session.Reconciler, st store.DocumentStore, kv *store.KV, cfg *config.Config) *CoursesController {
	return &CoursesController{Hydrator: h, Sessions: sessions, Store: st, KV: kv, Cfg: cfg}
}

// GetCourses godoc
// @Summary List the course catalog
// @Description Returns all hydrated courses, optionally filtered by search term and category
// @Tags courses
// @Produce json
// @Param search query string false "Search term"
// @Param category query string false "Category filter"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [get]
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	search := strings.ToLower(c.Query("search"))
	category := c.Query("category")

	var catalog map[string]*models.Course
	if !cc.KV.Get(catalogCacheKey, &catalog) {
		var err error
		catalog, err = cc.Hydrator.GetAllCourses(c.Context())
		if err != nil {
			return utils.InternalServerError(c, "Could not load course catalog")
		}
		cc.KV.Set(catalogCacheKey, catalog, catalogCacheTTL)
	}

	courses := make([]*models.Course, 0, len(catalog))
	for _, course := range catalog {
		if category != "" && course.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(course.Title), search) &&
			!strings.Contains(strings.ToLower(course.Description), search) {
			continue
		}
		courses = append(courses, course)
	}

	// The catalog is an unordered set; sort for a stable response.
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })

	return c.JSON(fiber.Map{
		"courses": courses,
	})
}

// GetCourseDetails godoc
// @Summary Get one hydrated course
// @Tags courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Params("id")

	course, err := cc.Hydrator.GetCourse(c.Context(), courseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not load course")
	}
	if course == nil {
		// Unpublished documents hydrate to nothing.
		return utils.NotFound(c, "Course not found")
	}

	return c.JSON(fiber.Map{
		"course": course,
	})
}

// CompleteLecture marks a lecture as completed and awards points. The
// dedicated lecture sub-collection is preferred; courses still carrying
// inline lectures are patched in place.
func (cc *CoursesController) CompleteLecture(c *fiber.Ctx) error {
	uid, err := utils.ExtractUIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID := c.Params("id")
	lectureID := c.Params("lectureId")

	alreadyCompleted := false
	raw, err := cc.Store.GetDocument(c.Context(), "courses/"+courseID+"/lectures", lectureID)
	switch {
	case err == nil:
		alreadyCompleted = lectureCompleted(raw["isCompleted"])
		if !alreadyCompleted {
			err = cc.Store.UpdateDocument(c.Context(), "courses/"+courseID+"/lectures", lectureID,
				map[string]interface{}{"isCompleted": true})
		}
	case errors.Is(err, store.ErrNotFound):
		alreadyCompleted, err = cc.completeInlineLecture(c, courseID, lectureID)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Lecture not found")
		}
		return utils.InternalServerError(c, "Could not update lecture")
	}

	// Re-completing an already-completed lecture is a no-op, not a second
	// award.
	if !alreadyCompleted {
		cc.KV.Remove(catalogCacheKey)
		if err := cc.Sessions.AwardPoints(c.Context(), uid, lectureCompletePoints); err != nil {
			cc.Hydrator.Log.WithError(err).WithField("uid", uid).Warn("courses: failed to award points")
		}
	}

	course, err := cc.Hydrator.GetCourse(c.Context(), courseID)
	if err != nil || course == nil {
		return utils.InternalServerError(c, "Could not reload course")
	}

	return c.JSON(fiber.Map{
		"message": "Lecture completed",
		"course":  course,
	})
}

func (cc *CoursesController) completeInlineLecture(c *fiber.Ctx, courseID, lectureID string) (alreadyCompleted bool, err error) {
	raw, err := cc.Store.GetDocument(c.Context(), "courses", courseID)
	if err != nil {
		return false, err
	}

	lectures, ok := raw["lectures"].([]interface{})
	if !ok {
		return false, store.ErrNotFound
	}

	found := false
	for _, entry := range lectures {
		lecture, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if id, _ := lecture["id"].(string); id == lectureID {
			if lectureCompleted(lecture["isCompleted"]) {
				return true, nil
			}
			lecture["isCompleted"] = true
			found = true
			break
		}
	}
	if !found {
		return false, store.ErrNotFound
	}

	return false, cc.Store.SetDocument(c.Context(), "courses", courseID, raw)
}

// lectureCompleted reads a stored isCompleted flag, which loose documents may
// carry as a bool or a string.
func lectureCompleted(v interface{}) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		return strings.EqualFold(value, "true")
	}
	return false
}
