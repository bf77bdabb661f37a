package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortorder/internal/catalog"
	"shortorder/internal/evaluation"
	"shortorder/internal/kitchen"
	"shortorder/internal/models"
	"shortorder/internal/monitoring"
)

type fixture struct {
	server  *Server
	kitchen *kitchen.Dispatcher
	monitor *monitoring.Monitor
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := catalog.Default()
	require.NoError(t, err)
	entree, err := c.Recipe("classic_burger")
	require.NoError(t, err)
	side, err := c.Recipe("fries_regular")
	require.NoError(t, err)
	drink, err := c.Recipe("cola")
	require.NoError(t, err)

	order := models.NewOrder(entree, side, drink)
	for _, course := range models.Courses {
		order.Requests[course] = []models.Ingredient{}
	}

	monitor := monitoring.NewMonitor()
	k := kitchen.New(2, c, evaluation.NewValidator(zerolog.Nop()), kitchen.WithRecorder(monitor))
	k.Load([]*models.Order{order})
	_, ok := k.Tick()
	require.True(t, ok)

	opts = append([]Option{WithMonitor(monitor)}, opts...)
	return fixture{server: NewServer(c, k, opts...), kitchen: k, monitor: monitor}
}

func (f fixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["pending"])
}

func TestCatalogRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/catalog/ingredients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []models.Ingredient
	decode(t, w, &ingredients)
	require.NotEmpty(t, ingredients)
	assert.Equal(t, "bun_sesame", ingredients[0].ID)

	w = f.do(http.MethodGet, "/api/v1/catalog/recipes/classic_burger", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recipe struct {
		ID   string   `json:"id"`
		Card []string `json:"card"`
	}
	decode(t, w, &recipe)
	assert.Equal(t, "classic_burger", recipe.ID)
	assert.Contains(t, recipe.Card, "SANDWICHED BETWEEN A SESAME BUN")

	w = f.do(http.MethodGet, "/api/v1/catalog/recipes/hot_dog", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/api/v1/catalog/foods", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var foods []foodView
	decode(t, w, &foods)
	require.NotEmpty(t, foods)
	assert.Equal(t, "burger", foods[0].ID)
	assert.Equal(t, models.CourseEntree, foods[0].Course)
	assert.Equal(t, []string{"classic_burger", "double_cheeseburger", "bacon_burger"}, foods[0].Recipes)
}

func TestStationNumberErrors(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/v1/stations/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/v1/stations/9", nil).Code)
	assert.Equal(t, http.StatusConflict, f.do(http.MethodPost, "/api/v1/stations/2/serve", nil).Code)
}

func TestStationMenu(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/stations/1/ingredients?course=side", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var menu []kitchen.Availability
	decode(t, w, &menu)
	assert.Len(t, menu, 3)

	w = f.do(http.MethodGet, "/api/v1/stations/1/ingredients?course=dessert", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuildAndServeOrder(t *testing.T) {
	f := newFixture(t)
	add := func(course, id string) *httptest.ResponseRecorder {
		return f.do(http.MethodPost, "/api/v1/stations/1/ingredients", gin.H{"course": course, "ingredient_id": id})
	}

	assert.Equal(t, http.StatusConflict, add("ENTREE", "bun_sesame").Code, "order not read yet")

	w := f.do(http.MethodPost, "/api/v1/stations/1/reveal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var revealed struct {
		Station int             `json:"station"`
		Tickets []models.Ticket `json:"tickets"`
	}
	decode(t, w, &revealed)
	assert.Equal(t, 1, revealed.Station)
	require.Len(t, revealed.Tickets, 3)
	assert.Equal(t, "Classic Burger", revealed.Tickets[0].Recipe)

	for _, id := range []string{"bun_sesame", "patty_beef", "cheese_cheddar", "lettuce", "tomato", "pickle", "ketchup"} {
		require.Equal(t, http.StatusOK, add("ENTREE", id).Code, id)
	}
	assert.Equal(t, http.StatusConflict, add("ENTREE", "bun_brioche").Code, "bun already on the order")
	assert.Equal(t, http.StatusBadRequest, add("ENTREE", "fries").Code, "fries come from the side station")
	assert.Equal(t, http.StatusNotFound, add("ENTREE", "truffle").Code)
	assert.Equal(t, http.StatusBadRequest, add("", "salt").Code)

	for _, id := range []string{"fries", "salt"} {
		require.Equal(t, http.StatusOK, add("SIDE", id).Code, id)
	}
	for _, id := range []string{"ice", "cola", "cup"} {
		require.Equal(t, http.StatusOK, add("DRINK", id).Code, id)
	}

	w = f.do(http.MethodPost, "/api/v1/stations/1/serve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var served struct {
		AllCorrect bool               `json:"all_correct"`
		Verdict    evaluation.Verdict `json:"verdict"`
	}
	decode(t, w, &served)
	assert.True(t, served.AllCorrect)
	assert.Len(t, served.Verdict.Courses, 3)

	assert.Equal(t, http.StatusConflict, f.do(http.MethodPost, "/api/v1/stations/1/serve", nil).Code)

	w = f.do(http.MethodGet, "/api/v1/queue", nil)
	var queue struct {
		Pending   int   `json:"pending"`
		Available []int `json:"available"`
	}
	decode(t, w, &queue)
	assert.Equal(t, 0, queue.Pending)
	assert.Equal(t, []int{1, 2}, queue.Available)

	w = f.do(http.MethodGet, "/api/v1/scoreboard", nil)
	var board monitoring.Scoreboard
	decode(t, w, &board)
	assert.Equal(t, 1, board.Served)
	assert.Equal(t, 1, board.Correct)
	assert.Equal(t, monitoring.CourseTally{Checked: 1, Correct: 1}, board.Courses["SIDE"])

	f.monitor.RecordMetric("orders_generated", 1)
	w = f.do(http.MethodGet, "/api/v1/metrics", nil)
	var metrics map[string]interface{}
	decode(t, w, &metrics)
	assert.EqualValues(t, 1, metrics["orders_generated"])
	assert.EqualValues(t, 1, metrics["orders_served"])
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "line-cook",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "grill-secret"
	f := newFixture(t, WithJWTSecret(secret))

	request := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stations", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		f.server.Router().ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, request(""))
	assert.Equal(t, http.StatusUnauthorized, request("Bearer not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, request("Bearer "+signedToken(t, "other-secret")))
	assert.Equal(t, http.StatusOK, request("Bearer "+signedToken(t, secret)))
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", nil).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", kitchen.ErrNoSuchStation), http.StatusNotFound},
		{catalog.ErrUnknownIngredient, http.StatusNotFound},
		{kitchen.ErrOrderNotRead, http.StatusConflict},
		{kitchen.ErrIngredientUnavailable, http.StatusConflict},
		{kitchen.ErrIngredientWrongStation, http.StatusBadRequest},
		{models.ErrInvalidCourse, http.StatusBadRequest},
		{evaluation.ErrCourseNotPopulated, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestHubStreamsEvents(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	f := newFixture(t, WithHub(hub))
	srv := httptest.NewServer(f.server.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(kitchen.Event{Type: kitchen.EventOrderRevealed, Station: 1, OrderID: "abc", Pending: 4})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got map[string]interface{}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "order_revealed", got["type"])
	assert.EqualValues(t, 1, got["station"])
	assert.Equal(t, "abc", got["order_id"])

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}
