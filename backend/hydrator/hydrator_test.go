package hydrator

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnio/backend/models"
	"learnio/backend/store"
)

// failingStore wraps a MemStore and fails reads for selected collections.
type failingStore struct {
	*store.MemStore
	failCollections map[string]error
}

func (f *failingStore) GetCollection(ctx context.Context, collection string) ([]store.Doc, error) {
	if err, ok := f.failCollections[collection]; ok {
		return nil, err
	}
	return f.MemStore.GetCollection(ctx, collection)
}

func newHydrator(st store.DocumentStore) *Hydrator {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New(st, log)
}

func TestHydrateEmptyDocument(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	assert.Nil(t, h.Hydrate("c1", nil, nil))
	assert.Nil(t, h.Hydrate("c1", map[string]interface{}{}, nil))
}

func TestHydrateUnpublished(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	assert.Nil(t, h.Hydrate("c1", map[string]interface{}{
		"title":       "Hidden",
		"isPublished": false,
	}, nil))
	assert.Nil(t, h.Hydrate("c1", map[string]interface{}{
		"title":       "Hidden",
		"isPublished": "false",
	}, nil))

	// isPublished defaults to true.
	assert.NotNil(t, h.Hydrate("c1", map[string]interface{}{"title": "Visible"}, nil))
}

func TestHydratePaidFreeInference(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	// No isPaid, no isFree, no price: free by default.
	course := h.Hydrate("c1", map[string]interface{}{"title": "X"}, nil)
	require.NotNil(t, course)
	assert.False(t, course.IsPaid)
	assert.True(t, course.IsFree)
	assert.Equal(t, course.IsFree, !course.IsPaid)

	// Price present implies paid.
	course = h.Hydrate("c1", map[string]interface{}{"title": "X", "price": 49.99}, nil)
	require.NotNil(t, course)
	assert.True(t, course.IsPaid)
	assert.False(t, course.IsFree)

	// Explicit boolean isFree wins over inferred price.
	course = h.Hydrate("c1", map[string]interface{}{"title": "X", "price": 49.99, "isFree": true}, nil)
	require.NotNil(t, course)
	assert.False(t, course.IsPaid)
	assert.True(t, course.IsFree)

	// Explicit boolean isPaid wins over everything.
	course = h.Hydrate("c1", map[string]interface{}{"title": "X", "isFree": true, "isPaid": true}, nil)
	require.NotNil(t, course)
	assert.True(t, course.IsPaid)
	assert.False(t, course.IsFree)
}

func TestHydrateStringPrice(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	course := h.Hydrate("c1", map[string]interface{}{
		"title": "X",
		"price": "49.99",
	}, nil)
	require.NotNil(t, course)
	assert.Equal(t, "X", course.Title)
	require.NotNil(t, course.Price)
	assert.Equal(t, 49.99, *course.Price)
	assert.True(t, course.IsPaid)
	assert.False(t, course.IsFree)
	assert.Equal(t, "USD", course.Currency)
}

func TestHydrateNonParseablePriceIsAbsent(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	course := h.Hydrate("c1", map[string]interface{}{
		"title": "X",
		"price": "call us",
	}, nil)
	require.NotNil(t, course)
	assert.Nil(t, course.Price)
	assert.False(t, course.IsPaid)
	assert.Empty(t, course.Currency)
}

func TestHydrateCurrencyOnlyWithPrice(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	course := h.Hydrate("c1", map[string]interface{}{
		"title":    "X",
		"currency": "EUR",
	}, nil)
	require.NotNil(t, course)
	assert.Empty(t, course.Currency)

	course = h.Hydrate("c1", map[string]interface{}{
		"title":    "X",
		"price":    10,
		"currency": "EUR",
	}, nil)
	require.NotNil(t, course)
	assert.Equal(t, "EUR", course.Currency)
}

func TestHydrateThumbnailFallback(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	course := h.Hydrate("course-42", map[string]interface{}{"title": "X"}, nil)
	require.NotNil(t, course)
	assert.Equal(t, "https://picsum.photos/seed/course-42/640/360", course.ThumbnailURL)

	// Same id, same placeholder.
	again := h.Hydrate("course-42", map[string]interface{}{"title": "X"}, nil)
	assert.Equal(t, course.ThumbnailURL, again.ThumbnailURL)

	course = h.Hydrate("course-42", map[string]interface{}{
		"title":     "X",
		"thumbnail": "https://cdn.example.com/img.png",
	}, nil)
	assert.Equal(t, "https://cdn.example.com/img.png", course.ThumbnailURL)

	course = h.Hydrate("course-42", map[string]interface{}{
		"title":        "X",
		"thumbnail":    "https://cdn.example.com/old.png",
		"thumbnailUrl": "https://cdn.example.com/new.png",
	}, nil)
	assert.Equal(t, "https://cdn.example.com/new.png", course.ThumbnailURL)
}

func TestHydrateStringArrays(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	course := h.Hydrate("c1", map[string]interface{}{
		"title":    "X",
		"tags":     []interface{}{"go", 7, "backend", nil},
		"includes": []interface{}{42, true},
	}, nil)
	require.NotNil(t, course)
	assert.Equal(t, []string{"go", "backend"}, course.Tags)
	// includes filtered down to nothing counts as absent.
	assert.Nil(t, course.Includes)

	// tags are never nil.
	course = h.Hydrate("c1", map[string]interface{}{"title": "X"}, nil)
	require.NotNil(t, course)
	assert.NotNil(t, course.Tags)
	assert.Empty(t, course.Tags)
}

func TestHydrateStructuredArraysDropInvalidEntries(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	course := h.Hydrate("c1", map[string]interface{}{
		"title": "X",
		"faqs": []interface{}{
			map[string]interface{}{"question": "Q1", "answer": "A1"},
			map[string]interface{}{"question": "Q2"},
			"not a faq",
		},
		"resources": []interface{}{
			map[string]interface{}{"name": "slides.pdf", "type": "PDF", "size": "2 MB"},
			map[string]interface{}{"name": "scene.blend", "type": "BlendFile"},
			map[string]interface{}{"name": "weird.exe", "type": "EXE"},
			map[string]interface{}{"type": "ZIP"},
		},
		"comments": []interface{}{
			map[string]interface{}{
				"user": "ada",
				"text": "great course",
				"replies": []interface{}{
					map[string]interface{}{"user": "bob", "text": "agreed"},
					map[string]interface{}{"user": "mallory"},
				},
			},
			map[string]interface{}{"text": "anonymous"},
		},
	}, nil)
	require.NotNil(t, course)

	require.Len(t, course.FAQs, 1)
	assert.Equal(t, models.FAQ{Question: "Q1", Answer: "A1"}, course.FAQs[0])

	require.Len(t, course.Resources, 2)
	assert.Equal(t, "PDF", course.Resources[0].Type)
	assert.Equal(t, "BlendFile", course.Resources[1].Type)

	require.Len(t, course.Comments, 1)
	assert.Equal(t, "ada", course.Comments[0].User)
	require.Len(t, course.Comments[0].Replies, 1)
	assert.Equal(t, "bob", course.Comments[0].Replies[0].User)
}

func TestHydrateDefaultSection(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	course := h.Hydrate("c1", map[string]interface{}{
		"title": "X",
		"lectures": []interface{}{
			map[string]interface{}{"id": "l1", "title": "Intro", "isCompleted": true},
			map[string]interface{}{"id": "l2", "title": "Deep dive"},
			map[string]interface{}{"id": "l3", "title": "Outro"},
		},
	}, nil)
	require.NotNil(t, course)

	require.Len(t, course.Sections, 1)
	section := course.Sections[0]
	assert.Equal(t, "Course Modules", section.Title)
	assert.Equal(t, course.Lectures, section.Lectures)
	// round(100 * 1/3) = 33
	assert.Equal(t, 33, section.Progress)
}

func TestHydrateDefaultSectionNoLectures(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	course := h.Hydrate("c1", map[string]interface{}{"title": "X"}, nil)
	require.NotNil(t, course)
	require.Len(t, course.Sections, 1)
	assert.Equal(t, "Course Modules", course.Sections[0].Title)
	assert.Empty(t, course.Sections[0].Lectures)
	assert.Equal(t, 0, course.Sections[0].Progress)
}

func TestHydrateExplicitSections(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	course := h.Hydrate("c1", map[string]interface{}{
		"title": "X",
		"sections": []interface{}{
			map[string]interface{}{
				"title": "Basics",
				"lectures": []interface{}{
					map[string]interface{}{"id": "l1", "isCompleted": true},
					map[string]interface{}{"id": "l2"},
				},
			},
			map[string]interface{}{"title": "Extras"},
		},
	}, nil)
	require.NotNil(t, course)

	require.Len(t, course.Sections, 2)
	assert.Equal(t, "Basics", course.Sections[0].Title)
	assert.Equal(t, 50, course.Sections[0].Progress)
	assert.Equal(t, "Extras", course.Sections[1].Title)
	assert.Empty(t, course.Sections[1].Lectures)
}

func TestHydrateMalformedSectionsFallBack(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	course := h.Hydrate("c1", map[string]interface{}{
		"title": "X",
		"sections": []interface{}{
			map[string]interface{}{"title": "Good"},
			map[string]interface{}{"name": "missing title"},
		},
		"lectures": []interface{}{
			map[string]interface{}{"id": "l1"},
		},
	}, nil)
	require.NotNil(t, course)

	require.Len(t, course.Sections, 1)
	assert.Equal(t, "Course Modules", course.Sections[0].Title)
	assert.Len(t, course.Sections[0].Lectures, 1)
}

func TestHydrateLectureResolutionOrder(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	raw := map[string]interface{}{
		"title": "X",
		"lectures": []interface{}{
			map[string]interface{}{"id": "inline-1", "title": "Inline"},
		},
	}

	// Fetched sub-collection wins.
	course := h.Hydrate("c1", raw, []map[string]interface{}{
		{"id": "sub-1", "title": "Fetched"},
	})
	require.NotNil(t, course)
	require.Len(t, course.Lectures, 1)
	assert.Equal(t, "sub-1", course.Lectures[0].ID)

	// Empty sub-collection falls back to the inline field.
	course = h.Hydrate("c1", raw, nil)
	require.NotNil(t, course)
	require.Len(t, course.Lectures, 1)
	assert.Equal(t, "inline-1", course.Lectures[0].ID)

	// Neither: empty sequence, not nil.
	course = h.Hydrate("c1", map[string]interface{}{"title": "X"}, nil)
	require.NotNil(t, course)
	assert.NotNil(t, course.Lectures)
	assert.Empty(t, course.Lectures)
}

func TestHydrateBoolCoercion(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	course := h.Hydrate("c1", map[string]interface{}{
		"title": "X",
		"lectures": []interface{}{
			map[string]interface{}{"id": "l1", "isCompleted": "TRUE", "isPreview": 1},
			map[string]interface{}{"id": "l2", "isCompleted": 0.0, "isPreview": "nope"},
		},
	}, nil)
	require.NotNil(t, course)
	assert.True(t, course.Lectures[0].IsCompleted)
	assert.True(t, course.Lectures[0].IsPreview)
	assert.False(t, course.Lectures[1].IsCompleted)
	assert.False(t, course.Lectures[1].IsPreview)
}

func TestHydrateIdempotent(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	raw := map[string]interface{}{
		"title": "X",
		"price": "12.50",
		"tags":  []interface{}{"a", "b"},
		"lectures": []interface{}{
			map[string]interface{}{"id": "l1", "isCompleted": true},
		},
	}

	first := h.Hydrate("c1", raw, nil)
	second := h.Hydrate("c1", raw, nil)
	assert.Equal(t, first, second)
}

func TestGetCourse(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	require.NoError(t, st.SetDocument(ctx, "courses", "c1", map[string]interface{}{"title": "X"}))
	require.NoError(t, st.SetDocument(ctx, "courses/c1/lectures", "l1", map[string]interface{}{
		"id":    "l1",
		"title": "From sub-collection",
	}))

	h := newHydrator(st)
	course, err := h.GetCourse(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, course)
	require.Len(t, course.Lectures, 1)
	assert.Equal(t, "From sub-collection", course.Lectures[0].Title)
}

func TestGetCourseNotFound(t *testing.T) {
	h := newHydrator(store.NewMemStore())

	_, err := h.GetCourse(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetAllCoursesDedupLastSeenWins(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	require.NoError(t, st.SetDocument(ctx, "courses", "c1", map[string]interface{}{"title": "Parent"}))
	// The parent stores a variant of c2 plus an override of c1.
	require.NoError(t, st.SetDocument(ctx, "courses/c1/courses", "c2", map[string]interface{}{"title": "Variant"}))
	require.NoError(t, st.SetDocument(ctx, "courses/c1/courses", "c1", map[string]interface{}{"title": "Override"}))

	h := newHydrator(st)
	courses, err := h.GetAllCourses(ctx)
	require.NoError(t, err)

	require.Len(t, courses, 2)
	assert.Equal(t, "Override", courses["c1"].Title)
	assert.Equal(t, "Variant", courses["c2"].Title)
}

func TestGetAllCoursesVariantKeepsSubCollectionLectures(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	require.NoError(t, st.SetDocument(ctx, "courses", "c1", map[string]interface{}{"title": "Original"}))
	require.NoError(t, st.SetDocument(ctx, "courses/c1/lectures", "l1", map[string]interface{}{
		"id":    "l1",
		"title": "Intro",
	}))
	// A variant record overwrites c1; its lectures still come from the
	// dedicated sub-collection.
	require.NoError(t, st.SetDocument(ctx, "courses/c1/courses", "c1", map[string]interface{}{"title": "Override"}))

	h := newHydrator(st)
	courses, err := h.GetAllCourses(ctx)
	require.NoError(t, err)

	require.Contains(t, courses, "c1")
	assert.Equal(t, "Override", courses["c1"].Title)
	require.Len(t, courses["c1"].Lectures, 1)
	assert.Equal(t, "Intro", courses["c1"].Lectures[0].Title)
}

func TestGetAllCoursesRootFailureIsFatal(t *testing.T) {
	st := &failingStore{
		MemStore:        store.NewMemStore(),
		failCollections: map[string]error{"courses": errors.New("boom")},
	}

	h := newHydrator(st)
	_, err := h.GetAllCourses(context.Background())
	assert.Error(t, err)
}

func TestGetAllCoursesNestedProbeFailureDegrades(t *testing.T) {
	mem := store.NewMemStore()
	ctx := context.Background()
	require.NoError(t, mem.SetDocument(ctx, "courses", "c1", map[string]interface{}{"title": "One"}))
	require.NoError(t, mem.SetDocument(ctx, "courses", "c2", map[string]interface{}{"title": "Two"}))

	st := &failingStore{
		MemStore:        mem,
		failCollections: map[string]error{"courses/c1/courses": errors.New("probe boom")},
	}

	h := newHydrator(st)
	courses, err := h.GetAllCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestGetAllCoursesSkipsUnpublished(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	require.NoError(t, st.SetDocument(ctx, "courses", "c1", map[string]interface{}{"title": "Live"}))
	require.NoError(t, st.SetDocument(ctx, "courses", "c2", map[string]interface{}{
		"title":       "Draft",
		"isPublished": false,
	}))

	h := newHydrator(st)
	courses, err := h.GetAllCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Contains(t, courses, "c1")
}
