package evaluation

import (
	"time"

	"shortorder/internal/models"
)

// CourseResult is the outcome of checking one course of an order.
type CourseResult struct {
	Course models.Course `json:"course"`
	// Applicable is false when the customer did not want the course. A course that
	// is not applicable is reported as correct and contributes no failure.
	Applicable bool `json:"applicable"`
	Correct    bool `json:"correct"`
	// Missing and Extra list ingredient IDs, one entry per unit.
	Missing []string `json:"missing,omitempty"`
	Extra   []string `json:"extra,omitempty"`
}

// Verdict holds the per-course results for one served order.
type Verdict struct {
	OrderID   string         `json:"order_id"`
	Courses   []CourseResult `json:"courses"`
	CheckedAt time.Time      `json:"checked_at"`
}

// Course returns the result for a course.
func (v *Verdict) Course(course models.Course) (CourseResult, bool) {
	for _, r := range v.Courses {
		if r.Course == course {
			return r, true
		}
	}
	return CourseResult{}, false
}

// EntreeCorrect reports whether the entree was built correctly.
func (v *Verdict) EntreeCorrect() bool { return v.correct(models.CourseEntree) }

// SideCorrect reports whether the side was built correctly or was not wanted.
func (v *Verdict) SideCorrect() bool { return v.correct(models.CourseSide) }

// DrinkCorrect reports whether the drink was built correctly or was not wanted.
func (v *Verdict) DrinkCorrect() bool { return v.correct(models.CourseDrink) }

func (v *Verdict) correct(course models.Course) bool {
	r, ok := v.Course(course)
	return ok && r.Correct
}

// AllCorrect reports whether every applicable course is correct.
func (v *Verdict) AllCorrect() bool {
	for _, r := range v.Courses {
		if r.Applicable && !r.Correct {
			return false
		}
	}
	return true
}
