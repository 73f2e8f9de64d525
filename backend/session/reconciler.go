package session

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"time"

	"learnio/backend/models"
	"learnio/backend/store"
)

// placeholderAvatarPattern matches avatar URLs generated by placeholder
// services. A stored avatar matching it counts as "no real avatar set yet"
// and may be overwritten; anything else is user-chosen and never touched.
var placeholderAvatarPattern = regexp.MustCompile(`ui-avatars\.com|api\.dicebear\.com|picsum\.photos`)

// Reconciler idempotently fetches or creates user profiles, applying
// streak/login bookkeeping as a side effect of every successful sign-in.
// Every call performs exactly one read and exactly one write. Errors
// propagate to the caller; retry, if any, is the caller's responsibility.
type Reconciler struct {
	Store store.DocumentStore
	Now   func() time.Time
}

func New(st store.DocumentStore) *Reconciler {
	return &Reconciler{Store: st, Now: time.Now}
}

// GetOrCreateUser loads the profile for uid, creating it on first sign-in,
// and recomputes the daily login streak and avatar/theme fields.
func (r *Reconciler) GetOrCreateUser(ctx context.Context, uid, displayName, email, photoURL string) (*models.User, error) {
	now := r.Now()

	raw, err := r.Store.GetDocument(ctx, "users", uid)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		user := newUser(uid, displayName, email, photoURL, now)
		doc, err := userToDoc(user)
		if err != nil {
			return nil, err
		}
		if err := r.Store.SetDocument(ctx, "users", uid, doc); err != nil {
			return nil, err
		}
		return user, nil
	}

	user, err := userFromDoc(uid, raw)
	if err != nil {
		return nil, err
	}

	patch := map[string]interface{}{}

	user.Streak = nextStreak(user.Streak, user.LastLogin, now)
	patch["streak"] = user.Streak

	user.LastLogin = &now
	patch["lastLogin"] = now.Format(time.RFC3339)

	// One-time migration for profiles written before themes existed.
	if user.ThemePreference == "" {
		user.ThemePreference = models.ThemeLight
		patch["themePreference"] = models.ThemeLight
	}

	if photoURL != "" && (user.Avatar == "" || placeholderAvatarPattern.MatchString(user.Avatar)) {
		user.Avatar = photoURL
		patch["avatar"] = photoURL
	}

	if err := r.Store.UpdateDocument(ctx, "users", uid, patch); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser loads a profile without any reconciliation side effects.
func (r *Reconciler) GetUser(ctx context.Context, uid string) (*models.User, error) {
	raw, err := r.Store.GetDocument(ctx, "users", uid)
	if err != nil {
		return nil, err
	}
	return userFromDoc(uid, raw)
}

// nextStreak applies the calendar-day streak rules: a gap of exactly one day
// extends the streak, a longer gap resets it to 1, and a same-day (or
// clock-skewed) sign-in leaves it alone. Time-of-day is ignored.
func nextStreak(current int, lastLogin *time.Time, now time.Time) int {
	if lastLogin == nil {
		if current < 1 {
			return 1
		}
		return current
	}

	// Compare calendar days in one location; a stored offset differing from
	// the server's, or a DST shift, must not shrink a day below the truncation
	// threshold.
	last := lastLogin.In(now.Location())
	diffDays := int(math.Round(midnight(now).Sub(midnight(last)).Hours() / 24))
	switch {
	case diffDays == 1:
		return current + 1
	case diffDays > 1:
		return 1
	default:
		return current
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func newUser(uid, displayName, email, photoURL string, now time.Time) *models.User {
	return &models.User{
		UID:             uid,
		Name:            displayName,
		Email:           email,
		Avatar:          photoURL,
		Level:           1,
		Points:          0,
		Streak:          1,
		OngoingCourses:  []string{},
		Wishlist:        []string{},
		PendingTasks:    []models.Task{},
		LastLogin:       &now,
		ThemePreference: models.ThemeLight,
	}
}

func userToDoc(user *models.User) (map[string]interface{}, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	doc := map[string]interface{}{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// userFromDoc decodes a stored profile, tolerating missing or mistyped
// fields; anything unusable decays to the zero value.
func userFromDoc(uid string, raw map[string]interface{}) (*models.User, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	user := &models.User{}
	if err := json.Unmarshal(encoded, user); err != nil {
		// Mistyped legacy fields keep their zero value; the decoder fills
		// every other field before reporting the first type mismatch. Only
		// a document broken beyond field level is surfaced.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, err
		}
	}
	user.UID = uid
	if user.OngoingCourses == nil {
		user.OngoingCourses = []string{}
	}
	if user.Wishlist == nil {
		user.Wishlist = []string{}
	}
	if user.PendingTasks == nil {
		user.PendingTasks = []models.Task{}
	}
	return user, nil
}
