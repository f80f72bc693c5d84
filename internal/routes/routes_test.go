package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/handlers"
	"github.com/BradenHooton/roster/internal/middleware"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
)

type recorded struct {
	optimize   []bool
	principal  string
	orderPages []query.PageRequest
}

func newRouter(t *testing.T, tm *auth.TokenManager, limit int) (http.Handler, *recorded) {
	t.Helper()
	rec := &recorded{}

	members := &handlers.MockMemberService{
		SearchPageFunc: func(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error) {
			rec.optimize = append(rec.optimize, optimizeCount)
			return &query.Page[models.MemberTeam]{Content: []models.MemberTeam{}, TotalElements: new(int64), Size: req.Size}, nil
		},
		GetMemberFunc: func(ctx context.Context, id int64) (*models.Member, error) {
			rec.principal = auth.PrincipalFromContext(ctx)
			return &models.Member{ID: id, Username: "member1"}, nil
		},
	}

	orders := &handlers.MockOrderService{
		SearchOrdersPageFunc: func(ctx context.Context, search models.OrderSearch, req query.PageRequest) (*query.Page[models.OrderSummary], error) {
			rec.orderPages = append(rec.orderPages, req)
			return &query.Page[models.OrderSummary]{Content: []models.OrderSummary{}, TotalElements: new(int64), Size: req.Size}, nil
		},
	}

	router := chi.NewRouter()
	RegisterRoutes(router, Handlers{
		Members: handlers.NewMemberHandler(members, handlers.PagingParams{DefaultSize: 20, MaxSize: 2000}),
		Teams:   handlers.NewTeamHandler(&handlers.MockTeamService{}),
		Items:   handlers.NewItemHandler(&handlers.MockItemService{}),
		Orders:  handlers.NewOrderHandler(orders, handlers.PagingParams{DefaultSize: 20, MaxSize: 2000}),
	}, Options{
		TokenManager: tm,
		SearchLimit:  middleware.RateLimitConfig{RequestsPerMinute: limit},
		Logger:       slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	return router, rec
}

func serve(h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "192.0.2.10:4000"
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRoutes_SearchVersionsSelectCountPolicy(t *testing.T) {
	router, rec := newRouter(t, nil, 0)

	assert.Equal(t, http.StatusOK, serve(router, "GET", "/v2/members", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, "GET", "/v3/members", nil).Code)

	assert.Equal(t, []bool{false, true}, rec.optimize)
}

func TestRoutes_UnknownRoute(t *testing.T) {
	router, _ := newRouter(t, nil, 0)

	assert.Equal(t, http.StatusNotFound, serve(router, "GET", "/v4/members", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(router, "PATCH", "/members/1", nil).Code)
}

func TestRoutes_SearchIsRateLimited(t *testing.T) {
	router, _ := newRouter(t, nil, 1)

	assert.Equal(t, http.StatusOK, serve(router, "GET", "/v3/members", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, "GET", "/v3/members", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, "GET", "/members/1", nil).Code)
}

func TestRoutes_PrincipalFromBearerToken(t *testing.T) {
	tm := auth.NewTokenManager("routes-test-secret-0123456789", time.Hour)
	token, err := tm.GenerateToken("alice")
	require.NoError(t, err)

	router, rec := newRouter(t, tm, 0)

	w := serve(router, "GET", "/members/1", http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", rec.principal)

	w = serve(router, "GET", "/members/1", http.Header{"Authorization": {"Bearer forged"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(router, "GET", "/members/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "alice", rec.principal)
	assert.NotEqual(t, auth.SystemPrincipal, rec.principal)
}

func TestRoutes_StaticMemberPathsBeatID(t *testing.T) {
	router, rec := newRouter(t, nil, 0)

	assert.Equal(t, http.StatusOK, serve(router, "GET", "/members/teams", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, "GET", "/members/by-username?username=member1", nil).Code)
	assert.Empty(t, rec.principal, "GetMember must not handle static paths")
}

func TestRoutes_ItemsAndOrderPages(t *testing.T) {
	router, rec := newRouter(t, nil, 1)

	assert.Equal(t, http.StatusOK, serve(router, "GET", "/items", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, "GET", "/items/3", nil).Code)

	assert.Equal(t, http.StatusOK, serve(router, "GET", "/v2/orders?size=5", nil).Code)
	require.Len(t, rec.orderPages, 1)
	assert.Equal(t, 5, rec.orderPages[0].Size)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, "GET", "/v2/orders", nil).Code)
}
