// Package kitchen runs the kitchen floor: it owns the pending order queue and the order
// stations, hands out orders on a timer and gates what the player may do with them.
package kitchen

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"shortorder/internal/evaluation"
	"shortorder/internal/models"
)

var (
	ErrNoSuchStation          = errors.New("no such station")
	ErrStationEmpty           = errors.New("station has no order")
	ErrOrderNotRead           = errors.New("order has not been read")
	ErrCourseNotWanted        = errors.New("course not wanted by customer")
	ErrIngredientUnavailable  = errors.New("ingredient unavailable for this order")
	ErrIngredientWrongStation = errors.New("ingredient does not belong to this course")
)

// DefaultInterval is the pause between two dispatches.
const DefaultInterval = 5 * time.Second

// IngredientSource is the part of the catalog the kitchen reads.
type IngredientSource interface {
	Ingredient(id string) (models.Ingredient, error)
	IngredientTypes() []string
	IngredientsAt(station, ingredientType string) []models.Ingredient
}

// Checker validates a served order.
type Checker interface {
	Check(order *models.Order) (*evaluation.Verdict, error)
}

// Metrics receives kitchen measurements.
type Metrics interface {
	RecordVerdict(v *evaluation.Verdict)
	RecordServiceTime(seconds float64)
	SetQueueDepth(n int)
	SetStationsAvailable(n int)
}

// VerdictRecorder receives every verdict, e.g. a scoreboard.
type VerdictRecorder interface {
	RecordVerdict(v *evaluation.Verdict)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithInterval sets the pause between dispatches.
func WithInterval(d time.Duration) Option {
	return func(k *Dispatcher) {
		if d > 0 {
			k.interval = d
		}
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(log zerolog.Logger) Option {
	return func(k *Dispatcher) {
		k.log = log
	}
}

// WithEvents sets the event sink.
func WithEvents(sink EventSink) Option {
	return func(k *Dispatcher) {
		if sink != nil {
			k.events = sink
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m Metrics) Option {
	return func(k *Dispatcher) {
		k.metrics = m
	}
}

// WithRecorder adds a verdict recorder.
func WithRecorder(r VerdictRecorder) Option {
	return func(k *Dispatcher) {
		if r != nil {
			k.recorders = append(k.recorders, r)
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(k *Dispatcher) {
		k.now = now
	}
}

type station struct {
	number     int
	order      *models.Order
	assignedAt time.Time
}

// Dispatcher owns the pending queue and the stations. All methods are safe for
// concurrent use; every mutation is serialized on one mutex.
type Dispatcher struct {
	mu        sync.Mutex
	queue     []*models.Order
	stations  []*station
	available []int

	ingredients IngredientSource
	checker     Checker
	interval    time.Duration
	log         zerolog.Logger
	events      EventSink
	metrics     Metrics
	recorders   []VerdictRecorder
	now         func() time.Time
}

// New creates a dispatcher with stations numbered 1..stations, all available.
func New(stations int, ingredients IngredientSource, checker Checker, opts ...Option) *Dispatcher {
	k := &Dispatcher{
		ingredients: ingredients,
		checker:     checker,
		interval:    DefaultInterval,
		log:         zerolog.Nop(),
		events:      nopSink{},
		now:         time.Now,
	}
	for i := 1; i <= stations; i++ {
		k.stations = append(k.stations, &station{number: i})
		k.available = append(k.available, i)
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Load replaces the pending queue with a freshly generated day.
func (k *Dispatcher) Load(queue []*models.Order) {
	k.mu.Lock()
	k.queue = append([]*models.Order(nil), queue...)
	k.updateGaugesLocked()
	k.mu.Unlock()

	k.log.Info().Int("orders", len(queue)).Msg("Loaded day queue")
}

// Pending returns the number of orders still waiting for a station.
func (k *Dispatcher) Pending() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.queue)
}

// Tick dispatches one order to the lowest-numbered free station. It reports the station
// used, or false when the queue is empty or every station is busy.
func (k *Dispatcher) Tick() (int, bool) {
	k.mu.Lock()
	if len(k.queue) == 0 || len(k.available) == 0 {
		k.mu.Unlock()
		return 0, false
	}

	number := k.available[0]
	k.available = k.available[1:]
	order := k.queue[0]
	k.queue = k.queue[1:]

	st := k.stations[number-1]
	st.order = order
	st.assignedAt = k.now()
	pending := len(k.queue)
	k.updateGaugesLocked()
	k.mu.Unlock()

	k.log.Info().Int("station", number).Str("order", order.ID).Int("pending", pending).Msg("Order assigned")
	k.publish(Event{Type: EventOrderAssigned, Station: number, OrderID: order.ID, Pending: pending})
	return number, true
}

// Run dispatches one order per interval until the queue is empty or ctx is done.
func (k *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for k.Pending() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			k.Tick()
		}
	}

	k.log.Info().Msg("Order queue empty")
	k.publish(Event{Type: EventQueueEmpty})
	return nil
}

// Reveal marks the station's order as read and returns its tickets.
func (k *Dispatcher) Reveal(number int) ([]models.Ticket, error) {
	k.mu.Lock()
	st, err := k.occupiedLocked(number)
	if err != nil {
		k.mu.Unlock()
		return nil, err
	}
	order := st.order
	order.IsRead = true
	shown := order.Tickets()
	pending := len(k.queue)
	k.mu.Unlock()

	k.publish(Event{Type: EventOrderRevealed, Station: number, OrderID: order.ID, Pending: pending})
	return shown, nil
}

// AddIngredient adds a catalog ingredient to one course of the station's order. The order
// must have been read, the course wanted, the ingredient's station must build that course
// and the ingredient must not be grayed out.
func (k *Dispatcher) AddIngredient(number int, course models.Course, ingredientID string) error {
	if !course.Valid() {
		return fmt.Errorf("%w: %d", models.ErrInvalidCourse, int(course))
	}
	ing, err := k.ingredients.Ingredient(ingredientID)
	if err != nil {
		return err
	}

	k.mu.Lock()
	st, err := k.occupiedLocked(number)
	if err != nil {
		k.mu.Unlock()
		return err
	}
	order := st.order
	if err := gate(order, course, ing); err != nil {
		k.mu.Unlock()
		return err
	}
	if err := order.AddIngredient(ing, course); err != nil {
		k.mu.Unlock()
		return err
	}
	pending := len(k.queue)
	k.mu.Unlock()

	k.log.Debug().Int("station", number).Str("course", course.String()).Str("ingredient", ing.ID).Msg("Ingredient added")
	k.publish(Event{Type: EventIngredientAdded, Station: number, OrderID: order.ID, Course: course, Ingredient: ing.ID, Pending: pending})
	return nil
}

func gate(order *models.Order, course models.Course, ing models.Ingredient) error {
	if !order.IsRead {
		return ErrOrderNotRead
	}
	if !order.Wants(course) {
		return fmt.Errorf("%w: %s", ErrCourseNotWanted, course)
	}
	if c, ok := models.CourseForStation(ing.Station); !ok || c != course {
		return fmt.Errorf("%w: %s is prepared at %s", ErrIngredientWrongStation, ing.ID, ing.Station)
	}
	if !order.CanAdd(ing, course) {
		return fmt.Errorf("%w: %s", ErrIngredientUnavailable, ing.ID)
	}
	return nil
}

// Serve checks the station's order and frees the station. The order is discarded. When the
// check fails the order stays on the station.
func (k *Dispatcher) Serve(number int) (*evaluation.Verdict, error) {
	k.mu.Lock()
	st, err := k.occupiedLocked(number)
	if err != nil {
		k.mu.Unlock()
		return nil, err
	}
	order := st.order
	if !order.IsRead {
		k.mu.Unlock()
		return nil, ErrOrderNotRead
	}
	verdict, err := k.checker.Check(order)
	if err != nil {
		k.mu.Unlock()
		return nil, fmt.Errorf("serve station %d: %w", number, err)
	}
	served := k.now().Sub(st.assignedAt)
	st.order = nil
	k.releaseLocked(number)
	pending := len(k.queue)
	k.updateGaugesLocked()
	k.mu.Unlock()

	if k.metrics != nil {
		k.metrics.RecordVerdict(verdict)
		k.metrics.RecordServiceTime(served.Seconds())
	}
	for _, r := range k.recorders {
		r.RecordVerdict(verdict)
	}

	k.log.Info().
		Int("station", number).
		Str("order", order.ID).
		Bool("correct", verdict.AllCorrect()).
		Dur("service_time", served).
		Msg("Order served")
	k.publish(Event{Type: EventOrderServed, Station: number, OrderID: order.ID, Verdict: verdict, Pending: pending})
	return verdict, nil
}

// Availability is one ingredient choice and whether it may still be added.
type Availability struct {
	Ingredient models.Ingredient `json:"ingredient"`
	Available  bool              `json:"available"`
}

// Menu lists the ingredients that build the course, grouped by type and sorted by name
// inside a type, with the gray-out state for the station's order.
func (k *Dispatcher) Menu(number int, course models.Course) ([]Availability, error) {
	if !course.Valid() {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidCourse, int(course))
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	st, err := k.occupiedLocked(number)
	if err != nil {
		return nil, err
	}

	var out []Availability
	for _, ingredientType := range k.ingredients.IngredientTypes() {
		for _, name := range stationsFor(course) {
			for _, ing := range k.ingredients.IngredientsAt(name, ingredientType) {
				out = append(out, Availability{Ingredient: ing, Available: st.order.CanAdd(ing, course)})
			}
		}
	}
	return out, nil
}

func stationsFor(course models.Course) []string {
	var out []string
	for _, name := range []string{models.StationOrder, models.StationGrill, models.StationTopping, models.StationSides, models.StationDrink} {
		if c, ok := models.CourseForStation(name); ok && c == course {
			out = append(out, name)
		}
	}
	return out
}

// StationView is a snapshot of one station.
type StationView struct {
	Number      int                                   `json:"number"`
	OrderID     string                                `json:"order_id,omitempty"`
	IsRead      bool                                  `json:"is_read"`
	Tickets     []models.Ticket                       `json:"tickets,omitempty"`
	Ingredients map[models.Course][]models.Ingredient `json:"ingredients,omitempty"`
}

// Stations returns a snapshot of every station. Tickets are only shown once read.
func (k *Dispatcher) Stations() []StationView {
	k.mu.Lock()
	defer k.mu.Unlock()

	views := make([]StationView, 0, len(k.stations))
	for _, st := range k.stations {
		views = append(views, viewOf(st))
	}
	return views
}

// Station returns a snapshot of one station.
func (k *Dispatcher) Station(number int) (StationView, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if number < 1 || number > len(k.stations) {
		return StationView{}, fmt.Errorf("%w: %d", ErrNoSuchStation, number)
	}
	return viewOf(k.stations[number-1]), nil
}

// Available returns the free station numbers in ascending order.
func (k *Dispatcher) Available() []int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]int(nil), k.available...)
}

func viewOf(st *station) StationView {
	v := StationView{Number: st.number}
	if st.order == nil {
		return v
	}
	v.OrderID = st.order.ID
	v.IsRead = st.order.IsRead
	if st.order.IsRead {
		v.Tickets = st.order.Tickets()
		v.Ingredients = make(map[models.Course][]models.Ingredient, len(models.Courses))
		for _, c := range models.Courses {
			v.Ingredients[c] = st.order.Ingredients(c)
		}
	}
	return v
}

func (k *Dispatcher) occupiedLocked(number int) (*station, error) {
	if number < 1 || number > len(k.stations) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchStation, number)
	}
	st := k.stations[number-1]
	if st.order == nil {
		return nil, fmt.Errorf("%w: %d", ErrStationEmpty, number)
	}
	return st, nil
}

// releaseLocked returns a station to the available list, kept sorted and free of duplicates.
func (k *Dispatcher) releaseLocked(number int) {
	i := sort.SearchInts(k.available, number)
	if i < len(k.available) && k.available[i] == number {
		return
	}
	k.available = append(k.available, 0)
	copy(k.available[i+1:], k.available[i:])
	k.available[i] = number
}

func (k *Dispatcher) updateGaugesLocked() {
	if k.metrics == nil {
		return
	}
	k.metrics.SetQueueDepth(len(k.queue))
	k.metrics.SetStationsAvailable(len(k.available))
}

func (k *Dispatcher) publish(e Event) {
	e.Timestamp = k.now()
	k.events.Publish(e)
}
