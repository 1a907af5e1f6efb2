package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spacedock-search/cache"
	"spacedock-search/config"
	"spacedock-search/database"
	"spacedock-search/models"
	"spacedock-search/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

const testCorpus = `{
  "games": [{"id": 1, "name": "Kerbal Space Program", "short": "KSP", "versions": ["1.11", "1.12"]}],
  "users": [
    {"username": "Alice", "public": true, "description": "Rocket builder"},
    {"username": "bob", "public": true}
  ],
  "mods": [
    {"id": 1, "name": "Fuel Tanks", "user": "Alice", "game_id": 1, "published": true, "downloads": 30,
     "short_description": "More rocket fuel", "versions": [{"version": "1.0", "game_version": "1.12", "default": true}]},
    {"id": 2, "name": "Rocket Fuel Gauge", "user": "bob", "game_id": 1, "published": true, "downloads": 10, "featured": true,
     "short_description": "Shows rocket fuel", "versions": [{"version": "0.2", "game_version": "1.11", "default": true}]},
    {"id": 3, "name": "Landing Legs", "user": "bob", "game_id": 1, "published": true, "downloads": 1,
     "short_description": "Sturdy legs", "versions": [{"version": "3.1", "game_version": "1.12", "default": true}]}
  ]
}`

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("file:"+name+"?mode=memory&cache=shared", gormlogger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	corpus, err := database.ParseCorpus([]byte(testCorpus))
	require.NoError(t, err)
	ds, err := corpus.Build()
	require.NoError(t, err)
	require.NoError(t, database.SeedDataset(db, ds))

	ctx := context.Background()
	scores := services.NewScoreService(db)
	_, err = scores.RescoreAll(ctx)
	require.NoError(t, err)
	similarity := services.NewSimilarityService(db)
	_, err = similarity.RefreshAll(ctx, 6, 2)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.PageSize = 2
	search := services.NewSearchService(db, cfg, cache.NewTTLCache[string, *services.SearchResult](cfg.CacheTTL()))
	events := services.NewEventService(db, scores, search)

	return &testServer{
		router: NewRouter(NewSearchHandler(search, cfg), NewModHandler(similarity, events, cfg)),
	}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func responseIDs(mods []models.ModResponse) []uint {
	ids := make([]uint, len(mods))
	for i, m := range mods {
		ids[i] = m.ID
	}
	return ids
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSearchModsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/search/mod?query=rocket", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.ModListResponse](t, w)
	assert.Equal(t, []uint{1, 2}, responseIDs(resp.Mods))
	assert.Equal(t, "rocket", resp.Metadata.Query)
	assert.EqualValues(t, 2, resp.Metadata.Total)
	assert.Equal(t, "Alice", resp.Mods[0].Author)

	w = s.do(t, http.MethodGet, "/api/search/mod?query=-user:Alice&game=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[models.ModListResponse](t, w)
	assert.Equal(t, []uint{2, 3}, responseIDs(resp.Mods))
	assert.Equal(t, "1", resp.Metadata.Filters["game"])

	w = s.do(t, http.MethodGet, "/api/search/mod?page=9999", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[models.ModListResponse](t, w)
	assert.Equal(t, 2, resp.Metadata.Page)
	assert.Equal(t, 2, resp.Metadata.TotalPages)
	assert.Equal(t, []uint{3}, responseIDs(resp.Mods))
}

func TestSearchModsBadRequests(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/search/mod?query=downloads:>many", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "Invalid query", errResp.Error)

	w = s.do(t, http.MethodGet, "/api/search/mod?game=ksp", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTypeaheadEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/typeahead/mod?query=fuel", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.ModListResponse](t, w)
	assert.Equal(t, []uint{1, 2}, responseIDs(resp.Mods))
}

func TestSearchUsersEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/search/user?query=bob", "")
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]models.UserResponse](t, w)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
	assert.ElementsMatch(t, []uint{2, 3}, responseIDs(users[0].Mods))
}

func TestBrowseEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/browse?orderby=name&order=asc&count=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.ModListResponse](t, w)
	assert.Equal(t, []uint{1, 3, 2}, responseIDs(resp.Mods))
	assert.Equal(t, "name", resp.Metadata.Filters["orderby"])

	w = s.do(t, http.MethodGet, "/api/browse/top?count=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[models.ModListResponse](t, w)
	assert.Equal(t, []uint{1, 2, 3}, responseIDs(resp.Mods))

	w = s.do(t, http.MethodGet, "/api/browse/featured", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[models.ModListResponse](t, w)
	assert.Equal(t, []uint{2}, responseIDs(resp.Mods))
}

func TestSimilarEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/mod/1/similar", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		ModID   uint                        `json:"mod_id"`
		Similar []models.SimilarModResponse `json:"similar"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Similar, 1)
	assert.Equal(t, uint(2), body.Similar[0].ID)
	assert.Greater(t, body.Similar[0].Similarity, 0.0)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/mod/99/similar", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/mod/abc/similar", "").Code)
}

func TestEventEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/search/mod?query=downloads:>2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode[models.ModListResponse](t, w).Metadata.Total)

	w = s.do(t, http.MethodPost, "/api/mod/3/download", "")
	require.Equal(t, http.StatusOK, w.Code)
	download := decode[models.DownloadEvent](t, w)
	assert.Equal(t, 1, download.Downloads)

	w = s.do(t, http.MethodPost, "/api/mod/3/download/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[models.DownloadEvent](t, w).Downloads)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/mod/3/download/1", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/mod/99/download", "").Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/mod/3/follow", "").Code)
	w = s.do(t, http.MethodPost, "/api/mod/3/unfollow", "")
	require.Equal(t, http.StatusOK, w.Code)
	follow := decode[models.FollowEvent](t, w)
	assert.Equal(t, 2, follow.Events)
	assert.Equal(t, 0, follow.Delta)

	w = s.do(t, http.MethodPost, "/api/mod/3/referral", `{"host": "reddit.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/mod/3/referral", `{}`).Code)

	w = s.do(t, http.MethodGet, "/api/mod/3/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[models.ModStatsResponse](t, w)
	assert.Equal(t, uint(3), stats.ModID)
	require.Len(t, stats.Downloads, 1)
	assert.Equal(t, 2, stats.Downloads[0].Downloads)
	assert.Len(t, stats.Follows, 1)
	require.Len(t, stats.Referrals, 1)
	assert.Equal(t, "reddit.com", stats.Referrals[0].Host)

	// the cached page was dropped once mod 3 reached three downloads
	w = s.do(t, http.MethodGet, "/api/search/mod?query=downloads:>2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode[models.ModListResponse](t, w).Metadata.Total)
}
