package session

import (
	"context"
	"fmt"

	"learnio/backend/models"
)

// Thin profile update functions. Each performs a single partial update
// against the user's document; reads needed to compute the new value are
// plain reads, not reconciliation.

func (r *Reconciler) SetTheme(ctx context.Context, uid, theme string) error {
	if theme != models.ThemeLight && theme != models.ThemeDark {
		return fmt.Errorf("invalid theme preference %q", theme)
	}
	return r.Store.UpdateDocument(ctx, "users", uid, map[string]interface{}{
		"themePreference": theme,
	})
}

// ToggleWishlist adds or removes a course and reports whether the course is
// wishlisted after the call.
func (r *Reconciler) ToggleWishlist(ctx context.Context, uid, courseID string) (bool, error) {
	user, err := r.GetUser(ctx, uid)
	if err != nil {
		return false, err
	}

	wishlist := make([]string, 0, len(user.Wishlist)+1)
	added := true
	for _, id := range user.Wishlist {
		if id == courseID {
			added = false
			continue
		}
		wishlist = append(wishlist, id)
	}
	if added {
		wishlist = append(wishlist, courseID)
	}

	err = r.Store.UpdateDocument(ctx, "users", uid, map[string]interface{}{
		"wishlist": wishlist,
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// EnrollCourse adds the course to the user's ongoing set. Enrolling twice is
// a no-op.
func (r *Reconciler) EnrollCourse(ctx context.Context, uid, courseID string) error {
	user, err := r.GetUser(ctx, uid)
	if err != nil {
		return err
	}

	for _, id := range user.OngoingCourses {
		if id == courseID {
			return nil
		}
	}

	return r.Store.UpdateDocument(ctx, "users", uid, map[string]interface{}{
		"ongoingCourses": append(user.OngoingCourses, courseID),
	})
}

func (r *Reconciler) AddTask(ctx context.Context, uid string, task models.Task) error {
	user, err := r.GetUser(ctx, uid)
	if err != nil {
		return err
	}

	return r.Store.UpdateDocument(ctx, "users", uid, map[string]interface{}{
		"pendingTasks": append(user.PendingTasks, task),
	})
}

// CompleteTask removes a pending task. Completing an unknown task is a no-op
// rather than an error; the task list is denormalized and the client may be
// stale.
func (r *Reconciler) CompleteTask(ctx context.Context, uid, taskID string) error {
	user, err := r.GetUser(ctx, uid)
	if err != nil {
		return err
	}

	tasks := make([]models.Task, 0, len(user.PendingTasks))
	for _, task := range user.PendingTasks {
		if task.ID == taskID {
			continue
		}
		tasks = append(tasks, task)
	}

	return r.Store.UpdateDocument(ctx, "users", uid, map[string]interface{}{
		"pendingTasks": tasks,
	})
}

// AwardPoints bumps the user's score for the leaderboard.
func (r *Reconciler) AwardPoints(ctx context.Context, uid string, points int) error {
	user, err := r.GetUser(ctx, uid)
	if err != nil {
		return err
	}
	return r.Store.UpdateDocument(ctx, "users", uid, map[string]interface{}{
		"points": user.Points + points,
	})
}
