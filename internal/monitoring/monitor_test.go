package monitoring

import (
	"testing"
	"time"

	"shortorder/internal/evaluation"
	"shortorder/internal/models"
)

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	metrics := m.GetMetrics()

	// Check if our metric is present
	value, exists := metrics["test_metric"]
	if !exists {
		t.Fatalf("Expected 'test_metric' to be present in metrics, but it was not")
	}

	if value != 42 {
		t.Errorf("Expected 'test_metric' to be 42, but got %v", value)
	}

	for _, key := range []string{"uptime_seconds", "orders_served", "orders_correct"} {
		if _, exists := metrics[key]; !exists {
			t.Errorf("Expected %q to be present in metrics, but it was not", key)
		}
	}
}

func TestMonitor_RecordVerdict(t *testing.T) {
	m := NewMonitor()
	checked := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)

	m.RecordVerdict(&evaluation.Verdict{
		OrderID: "a",
		Courses: []evaluation.CourseResult{
			{Course: models.CourseEntree, Applicable: true, Correct: true},
			{Course: models.CourseSide, Correct: true},
			{Course: models.CourseDrink, Applicable: true, Correct: true},
		},
		CheckedAt: checked,
	})
	m.RecordVerdict(&evaluation.Verdict{
		OrderID: "b",
		Courses: []evaluation.CourseResult{
			{Course: models.CourseEntree, Applicable: true, Correct: false},
			{Course: models.CourseSide, Applicable: true, Correct: true},
			{Course: models.CourseDrink, Correct: true},
		},
		CheckedAt: checked,
	})

	s := m.Scoreboard()
	if s.Served != 2 || s.Correct != 1 {
		t.Fatalf("Expected 2 served and 1 correct, got %d and %d", s.Served, s.Correct)
	}

	want := map[string]CourseTally{
		"ENTREE": {Checked: 2, Correct: 1},
		"SIDE":   {Checked: 1, Correct: 1, Skipped: 1},
		"DRINK":  {Checked: 1, Correct: 1, Skipped: 1},
	}
	for course, tally := range want {
		if s.Courses[course] != tally {
			t.Errorf("Course %s: expected %+v, got %+v", course, tally, s.Courses[course])
		}
	}

	if s.LastServed != "2024-03-01T18:30:00Z" {
		t.Errorf("Expected last served timestamp, got %q", s.LastServed)
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)
	m.RecordVerdict(&evaluation.Verdict{Courses: []evaluation.CourseResult{{Course: models.CourseEntree, Applicable: true}}})

	m.Reset()

	metrics := m.GetMetrics()

	// Our test metric should be gone, but uptime should still be there
	if _, exists := metrics["test_metric"]; exists {
		t.Errorf("Expected 'test_metric' to be removed after Reset(), but it was present")
	}
	if metrics["orders_served"] != 0 {
		t.Errorf("Expected served count to be reset, got %v", metrics["orders_served"])
	}
	if _, exists := metrics["uptime_seconds"]; !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
	if s := m.Scoreboard(); s.Courses["ENTREE"] != (CourseTally{}) {
		t.Errorf("Expected entree tally to be reset, got %+v", s.Courses["ENTREE"])
	}
}
