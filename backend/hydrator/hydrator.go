package hydrator

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"learnio/backend/models"
	"learnio/backend/store"
)

const defaultSectionTitle = "Course Modules"

// Hydrator converts raw, partially-typed course documents into fully
// populated Course values. It holds no state between calls; hydrating the
// same document twice yields value-equal results.
type Hydrator struct {
	Store store.DocumentStore
	Log   *logrus.Logger
}

func New(st store.DocumentStore, log *logrus.Logger) *Hydrator {
	return &Hydrator{Store: st, Log: log}
}

// Hydrate builds a Course from a raw document and the lectures fetched from
// its dedicated sub-collection (nil when none were fetched). Returns nil for
// an empty or unpublished document.
func (h *Hydrator) Hydrate(id string, raw map[string]interface{}, lectures []map[string]interface{}) *models.Course {
	if len(raw) == 0 {
		return nil
	}
	if !asBool(raw["isPublished"], true) {
		return nil
	}

	course := &models.Course{
		ID:          id,
		Title:       asString(raw["title"]),
		Description: asString(raw["description"]),
		Category:    asString(raw["category"]),
		IsPublished: true,
	}

	course.Lectures = resolveLectures(raw, lectures)
	course.Sections = resolveSections(raw, course.Lectures)

	course.Price = asNumber(raw["price"])
	course.OriginalPrice = asNumber(raw["originalPrice"])
	course.FeaturedPriority = asNumber(raw["featuredPriority"])
	course.IsPaid, course.IsFree = resolvePaid(raw, course.Price)

	// Currency only means something next to a price.
	if course.Price != nil {
		course.Currency = asString(raw["currency"])
		if course.Currency == "" {
			course.Currency = "USD"
		}
	}

	course.ThumbnailURL = resolveThumbnail(id, raw)

	if rating := asNumber(raw["rating"]); rating != nil {
		course.Rating = *rating
	}
	if count := asNumber(raw["studentCount"]); count != nil {
		course.StudentCount = int(*count)
	}

	course.Tags = stringList(raw["tags"])
	if course.Tags == nil {
		course.Tags = []string{}
	}
	course.Includes = stringList(raw["includes"])
	course.SuggestedCourses = stringList(raw["suggestedCourses"])

	course.Author = resolveAuthor(raw["author"])
	course.FAQs = resolveFAQs(raw["faqs"])
	course.Comments = resolveComments(raw["comments"])
	course.Resources = resolveResources(raw["resources"])

	return course
}

// GetCourse fetches and hydrates a single course. The lecture sub-collection
// is preferred over any inline lectures field; a failed sub-collection read
// degrades to the inline fallback.
func (h *Hydrator) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	raw, err := h.Store.GetDocument(ctx, "courses", id)
	if err != nil {
		return nil, err
	}
	return h.hydrateWithLectures(ctx, "courses/"+id+"/lectures", id, raw), nil
}

// GetAllCourses aggregates every course document, probing one level of
// nested "courses" sub-collection per parent to pick up variant records.
// Results are deduplicated by id, last seen wins. A root fetch failure is
// fatal; a failed nested probe is logged and skipped.
func (h *Hydrator) GetAllCourses(ctx context.Context) (map[string]*models.Course, error) {
	docs, err := h.Store.GetCollection(ctx, "courses")
	if err != nil {
		return nil, fmt.Errorf("fetch course catalog: %w", err)
	}

	out := make(map[string]*models.Course)
	for _, doc := range docs {
		if course := h.hydrateWithLectures(ctx, "courses/"+doc.ID+"/lectures", doc.ID, doc.Data); course != nil {
			out[course.ID] = course
		}

		nested, err := h.Store.GetCollection(ctx, "courses/"+doc.ID+"/courses")
		if err != nil {
			h.Log.WithError(err).WithField("course", doc.ID).Warn("hydrator: nested courses probe failed, skipping")
			continue
		}
		for _, sub := range nested {
			// Variants resolve lectures the same way root documents do;
			// an overwrite must not lose the sub-collection lectures.
			if course := h.hydrateWithLectures(ctx, "courses/"+sub.ID+"/lectures", sub.ID, sub.Data); course != nil {
				out[course.ID] = course
			}
		}
	}
	return out, nil
}

func (h *Hydrator) hydrateWithLectures(ctx context.Context, lectureCollection, id string, raw map[string]interface{}) *models.Course {
	var fetched []map[string]interface{}
	docs, err := h.Store.GetCollection(ctx, lectureCollection)
	if err != nil {
		h.Log.WithError(err).WithField("course", id).Warn("hydrator: lecture sub-collection read failed, using inline lectures")
	} else {
		for _, doc := range docs {
			fetched = append(fetched, doc.Data)
		}
	}
	return h.Hydrate(id, raw, fetched)
}

// resolveLectures prefers the dedicated sub-collection, falls back to the
// inline lectures field, and otherwise yields an empty sequence. The fallback
// order tolerates two historical data shapes.
func resolveLectures(raw map[string]interface{}, fetched []map[string]interface{}) []models.Lecture {
	source := fetched
	if len(source) == 0 {
		source = asMapSlice(raw["lectures"])
	}

	lectures := make([]models.Lecture, 0, len(source))
	for _, entry := range source {
		lectures = append(lectures, coerceLecture(entry))
	}
	return lectures
}

func coerceLecture(m map[string]interface{}) models.Lecture {
	return models.Lecture{
		ID:          asString(m["id"]),
		Title:       asString(m["title"]),
		Duration:    asString(m["duration"]),
		VideoURL:    asString(m["videoUrl"]),
		Summary:     asString(m["summary"]),
		IsCompleted: asBool(m["isCompleted"], false),
		IsPreview:   asBool(m["isPreview"], false),
	}
}

// resolveSections uses a well-formed sections array when one is supplied and
// otherwise synthesizes a single default section over all resolved lectures.
func resolveSections(raw map[string]interface{}, lectures []models.Lecture) []models.Section {
	entries, ok := raw["sections"].([]interface{})
	if ok && len(entries) > 0 {
		sections := make([]models.Section, 0, len(entries))
		wellFormed := true
		for _, entry := range entries {
			m := asMap(entry)
			if m == nil {
				wellFormed = false
				break
			}
			title, isString := m["title"].(string)
			if !isString {
				wellFormed = false
				break
			}

			var sectionLectures []models.Lecture
			for _, lec := range asMapSlice(m["lectures"]) {
				sectionLectures = append(sectionLectures, coerceLecture(lec))
			}
			if sectionLectures == nil {
				sectionLectures = []models.Lecture{}
			}

			section := models.Section{Title: title, Lectures: sectionLectures}
			if explicit := asNumber(m["progress"]); explicit != nil {
				section.Progress = clampProgress(int(math.Round(*explicit)))
			} else {
				section.Progress = progressOf(sectionLectures)
			}
			sections = append(sections, section)
		}
		if wellFormed {
			return sections
		}
	}

	return []models.Section{{
		Title:    defaultSectionTitle,
		Lectures: lectures,
		Progress: progressOf(lectures),
	}}
}

func progressOf(lectures []models.Lecture) int {
	if len(lectures) == 0 {
		return 0
	}
	completed := 0
	for _, lecture := range lectures {
		if lecture.IsCompleted {
			completed++
		}
	}
	return clampProgress(int(math.Round(float64(completed) / float64(len(lectures)) * 100)))
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// resolvePaid applies the precedence chain: explicit boolean isPaid, explicit
// boolean isFree inverted, presence of a numeric price, then free by default.
func resolvePaid(raw map[string]interface{}, price *float64) (isPaid, isFree bool) {
	if paid, ok := raw["isPaid"].(bool); ok {
		return paid, !paid
	}
	if free, ok := raw["isFree"].(bool); ok {
		return !free, free
	}
	if price != nil {
		return true, false
	}
	return false, true
}

func resolveThumbnail(id string, raw map[string]interface{}) string {
	if url := asString(raw["thumbnailUrl"]); url != "" {
		return url
	}
	if url := asString(raw["thumbnail"]); url != "" {
		return url
	}
	// Deterministic placeholder seeded by the document id.
	return fmt.Sprintf("https://picsum.photos/seed/%s/640/360", id)
}

func resolveAuthor(v interface{}) *models.Author {
	m := asMap(v)
	if m == nil {
		return nil
	}
	name, ok := m["name"].(string)
	if !ok || name == "" {
		return nil
	}
	return &models.Author{
		Name:   name,
		Avatar: asString(m["avatar"]),
		Bio:    asString(m["bio"]),
	}
}

func resolveFAQs(v interface{}) []models.FAQ {
	var out []models.FAQ
	for _, m := range asMapSlice(v) {
		question, qok := m["question"].(string)
		answer, aok := m["answer"].(string)
		if !qok || !aok {
			continue
		}
		out = append(out, models.FAQ{Question: question, Answer: answer})
	}
	return out
}

func resolveComments(v interface{}) []models.Comment {
	var out []models.Comment
	for _, m := range asMapSlice(v) {
		user, uok := m["user"].(string)
		text, tok := m["text"].(string)
		if !uok || !tok {
			continue
		}
		comment := models.Comment{
			ID:     asString(m["id"]),
			User:   user,
			Avatar: asString(m["avatar"]),
			Text:   text,
		}
		for _, r := range asMapSlice(m["replies"]) {
			replyUser, ruok := r["user"].(string)
			replyText, rtok := r["text"].(string)
			if !ruok || !rtok {
				continue
			}
			comment.Replies = append(comment.Replies, models.Reply{
				ID:     asString(r["id"]),
				User:   replyUser,
				Avatar: asString(r["avatar"]),
				Text:   replyText,
			})
		}
		out = append(out, comment)
	}
	return out
}

func resolveResources(v interface{}) []models.Resource {
	var out []models.Resource
	for _, m := range asMapSlice(v) {
		name, nok := m["name"].(string)
		kind, kok := m["type"].(string)
		if !nok || !kok {
			continue
		}
		switch kind {
		case models.ResourcePDF, models.ResourceZIP, models.ResourceBlend:
		default:
			continue
		}
		out = append(out, models.Resource{
			ID:   asString(m["id"]),
			Name: name,
			Type: kind,
			Size: asString(m["size"]),
		})
	}
	return out
}
