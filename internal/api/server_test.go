package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"weekmenu/internal/api"
	"weekmenu/internal/auth"
	"weekmenu/internal/clock"
	"weekmenu/internal/config"
	"weekmenu/internal/database"
	"weekmenu/internal/history"
	"weekmenu/internal/images"
	"weekmenu/internal/importer"
	"weekmenu/internal/metrics"
	"weekmenu/internal/recipe"
	"weekmenu/internal/shopping"
	"weekmenu/internal/suggestion"
	"weekmenu/internal/weather"
	"weekmenu/internal/weekplan"
)

type fakeProvider struct {
	snap weather.Snapshot
	days []weather.ForecastDay
}

func (p *fakeProvider) Current(context.Context) (*weather.Snapshot, error) {
	s := p.snap
	return &s, nil
}

func (p *fakeProvider) WeekForecast(context.Context) ([]weather.ForecastDay, error) {
	return p.days, nil
}

type testServer struct {
	router  *gin.Engine
	token   string
	recipes *recipe.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	imageStore, err := images.NewStore(t.TempDir())
	require.NoError(t, err)

	clk := clock.Fixed{T: time.Date(2026, 1, 15, 18, 0, 0, 0, time.Local)}
	provider := &fakeProvider{snap: weather.Snapshot{Temp: 4, Condition: "Rain", Icon: "10d"}}
	for i := 0; i < 6; i++ {
		provider.days = append(provider.days, weather.ForecastDay{
			Date: clk.T.AddDate(0, 0, i+1).Format(clock.DateFormat),
			Temp: 6, Icon: "04d",
		})
	}

	recipes := recipe.NewRepository(db.SQL)
	historyRepo := history.NewRepository(db.SQL)
	suggestions := suggestion.NewRepository(db.SQL)
	plans := weekplan.NewRepository(db.SQL)
	rng := rand.New(rand.NewSource(1))
	logger := zap.NewNop()

	authCfg := config.AuthConfig{Password: "hunter2", Secret: "secret", TokenTTL: time.Hour}
	authSvc := auth.NewService(authCfg)
	token, err := authSvc.Login("hunter2")
	require.NoError(t, err)

	server := api.NewServer(api.Deps{
		Config:     &config.Config{Auth: authCfg},
		Logger:     logger,
		Recipes:    recipes,
		History:    historyRepo,
		Engine:     suggestion.NewEngine(recipes, historyRepo, suggestions, provider, clk, rng, logger),
		Resolver:   weekplan.NewResolver(recipes, suggestions, plans, provider, clk, rng, logger),
		Weather:    provider,
		Clock:      clk,
		Auth:       authSvc,
		Scraper:    importer.NewScraper(logger),
		ImageStore: imageStore,
		Usage:      metrics.NewStore(db.SQL),
	})

	return &testServer{router: server.Router(), token: token, recipes: recipes}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestHealthIsOpen(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""
	w := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""
	w := ts.do(t, http.MethodGet, "/api/recipes", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	ts.token = "rubbish"
	w = ts.do(t, http.MethodGet, "/api/recipes", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""

	w := ts.do(t, http.MethodPost, "/api/login", gin.H{"password": "fout"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/login", gin.H{"password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
}

func TestRecipeCRUD(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/recipes", gin.H{
		"name":     "Erwtensoep",
		"category": "soep",
		"servings": 4,
		"ingredients": []gin.H{
			{"name": "spliterwten", "amount": 500, "unit": "g"},
		},
		"seasonTags": []string{"winter"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created recipe.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "erwtensoep", created.Slug)

	w = ts.do(t, http.MethodGet, "/api/recipes/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Slug lookup works on the same route.
	w = ts.do(t, http.MethodGet, "/api/recipes/erwtensoep", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPut, "/api/recipes/"+created.ID, gin.H{
		"name":     "Erwtensoep met rookworst",
		"category": "soep",
		"servings": 6,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated recipe.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "erwtensoep-met-rookworst", updated.Slug)

	w = ts.do(t, http.MethodDelete, "/api/recipes/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/api/recipes/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/recipes", gin.H{"category": "soep"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/recipes", gin.H{"name": "X", "category": "brunch"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestionFlow(t *testing.T) {
	ts := newTestServer(t)

	// Empty catalog yields the dedicated error code.
	w := ts.do(t, http.MethodGet, "/api/suggestion/today", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NO_RECIPES_AVAILABLE")

	require.NoError(t, ts.recipes.Create(context.Background(), &recipe.Recipe{
		Name: "Stamppot", Category: recipe.CategoryDiner, Servings: 2,
	}))

	w = ts.do(t, http.MethodGet, "/api/suggestion/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result suggestion.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, suggestion.StatusPending, result.Suggestion.Status)

	w = ts.do(t, http.MethodPost,
		"/api/suggestion/"+strconv.FormatInt(result.Suggestion.ID, 10)+"/accept", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accepted"`)
}

func TestLogMealValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/history", gin.H{"servings": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
}

func TestWeekAndShoppingList(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	amount := 2.0
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		require.NoError(t, ts.recipes.Create(ctx, &recipe.Recipe{
			Name: name, Category: recipe.CategoryDiner, Servings: 2,
			Ingredients: []recipe.Ingredient{{Name: "ui " + name, Amount: &amount}},
		}))
	}

	w := ts.do(t, http.MethodGet, "/api/week", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var week struct {
		Days []weekplan.Day `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &week))
	assert.Len(t, week.Days, 7)

	w = ts.do(t, http.MethodGet, "/api/shopping-list", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list shopping.List
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	var categories []string
	for _, group := range list.Categories {
		categories = append(categories, group.Name)
	}
	assert.Contains(t, categories, "Groente & Fruit")

	w = ts.do(t, http.MethodDelete, "/api/week/"+week.Days[1].Date, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/week/15-01-2026", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
