package monitoring

import (
	"sync"
	"time"

	"shortorder/internal/evaluation"
	"shortorder/internal/models"
)

// CourseTally counts checks of one course.
type CourseTally struct {
	Checked int `json:"checked"`
	Correct int `json:"correct"`
	Skipped int `json:"skipped"`
}

// Scoreboard is a snapshot of the day's results.
type Scoreboard struct {
	Served        int                    `json:"served"`
	Correct       int                    `json:"correct"`
	Courses       map[string]CourseTally `json:"courses"`
	LastServed    string                 `json:"last_served,omitempty"`
	UptimeSeconds float64                `json:"uptime_seconds"`
}

// Monitor keeps the day scoreboard and free-form metrics for the kitchen
type Monitor struct {
	metrics      map[string]interface{}
	served       int
	correct      int
	courses      map[models.Course]*CourseTally
	lastServed   time.Time
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	m := &Monitor{startTime: time.Now()}
	m.resetLocked()
	return m
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	// Create a copy to avoid concurrent map access
	metrics := make(map[string]interface{}, len(m.metrics)+3)
	for k, v := range m.metrics {
		metrics[k] = v
	}

	metrics["orders_served"] = m.served
	metrics["orders_correct"] = m.correct
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// RecordVerdict adds a served order to the scoreboard.
func (m *Monitor) RecordVerdict(v *evaluation.Verdict) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	m.served++
	if v.AllCorrect() {
		m.correct++
	}
	for _, r := range v.Courses {
		tally, ok := m.courses[r.Course]
		if !ok {
			continue
		}
		switch {
		case !r.Applicable:
			tally.Skipped++
		case r.Correct:
			tally.Checked++
			tally.Correct++
		default:
			tally.Checked++
		}
	}
	m.lastServed = v.CheckedAt
}

// Scoreboard returns the day's tallies.
func (m *Monitor) Scoreboard() Scoreboard {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	s := Scoreboard{
		Served:        m.served,
		Correct:       m.correct,
		Courses:       make(map[string]CourseTally, len(m.courses)),
		UptimeSeconds: time.Since(m.startTime).Seconds(),
	}
	for c, tally := range m.courses {
		s.Courses[c.String()] = *tally
	}
	if !m.lastServed.IsZero() {
		s.LastServed = m.lastServed.Format(time.RFC3339)
	}
	return s
}

// Reset clears all metrics and tallies
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.resetLocked()
}

func (m *Monitor) resetLocked() {
	m.metrics = make(map[string]interface{})
	m.served = 0
	m.correct = 0
	m.lastServed = time.Time{}
	m.courses = make(map[models.Course]*CourseTally, len(models.Courses))
	for _, c := range models.Courses {
		m.courses[c] = &CourseTally{}
	}
}
