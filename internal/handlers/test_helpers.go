package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// WithChiRouteContext sets URL parameters the chi router would normally
// extract from the path.
//
//	req = WithChiRouteContext(req, map[string]string{"id": "7"})
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// MockMemberService implements MemberService for testing
type MockMemberService struct {
	CreateMemberFunc    func(ctx context.Context, member *models.Member) (*models.Member, error)
	GetMemberFunc       func(ctx context.Context, id int64) (*models.Member, error)
	ListMembersFunc     func(ctx context.Context, req query.PageRequest) (*query.Page[*models.Member], error)
	ChangeTeamFunc      func(ctx context.Context, id int64, teamID *int64) (*models.Member, error)
	DeleteMemberFunc    func(ctx context.Context, id int64) error
	BulkAgePlusFunc     func(ctx context.Context, age int) (int64, error)
	FindByUsernameFunc  func(ctx context.Context, username string, olderThan *int) ([]*models.Member, error)
	FindByNamesFunc     func(ctx context.Context, names []string) ([]*models.Member, error)
	FindMemberTeamsFunc func(ctx context.Context) ([]models.MemberTeam, error)
	FindUsernamesFunc   func(ctx context.Context) ([]string, error)
	SearchFunc          func(ctx context.Context, cond models.MemberSearchCondition) ([]models.MemberTeam, error)
	SearchPageFunc      func(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error)
	SearchSliceFunc     func(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest) (*query.Page[models.MemberTeam], error)
}

func (m *MockMemberService) CreateMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	if m.CreateMemberFunc != nil {
		return m.CreateMemberFunc(ctx, member)
	}
	return nil, nil
}

func (m *MockMemberService) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	if m.GetMemberFunc != nil {
		return m.GetMemberFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockMemberService) ListMembers(ctx context.Context, req query.PageRequest) (*query.Page[*models.Member], error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockMemberService) ChangeTeam(ctx context.Context, id int64, teamID *int64) (*models.Member, error) {
	if m.ChangeTeamFunc != nil {
		return m.ChangeTeamFunc(ctx, id, teamID)
	}
	return nil, models.ErrNotFound
}

func (m *MockMemberService) DeleteMember(ctx context.Context, id int64) error {
	if m.DeleteMemberFunc != nil {
		return m.DeleteMemberFunc(ctx, id)
	}
	return nil
}

func (m *MockMemberService) BulkAgePlus(ctx context.Context, age int) (int64, error) {
	if m.BulkAgePlusFunc != nil {
		return m.BulkAgePlusFunc(ctx, age)
	}
	return 0, nil
}

func (m *MockMemberService) FindByNames(ctx context.Context, names []string) ([]*models.Member, error) {
	if m.FindByNamesFunc != nil {
		return m.FindByNamesFunc(ctx, names)
	}
	return nil, nil
}

func (m *MockMemberService) FindByUsername(ctx context.Context, username string, olderThan *int) ([]*models.Member, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username, olderThan)
	}
	return nil, nil
}

func (m *MockMemberService) FindMemberTeams(ctx context.Context) ([]models.MemberTeam, error) {
	if m.FindMemberTeamsFunc != nil {
		return m.FindMemberTeamsFunc(ctx)
	}
	return nil, nil
}

func (m *MockMemberService) FindUsernames(ctx context.Context) ([]string, error) {
	if m.FindUsernamesFunc != nil {
		return m.FindUsernamesFunc(ctx)
	}
	return nil, nil
}

func (m *MockMemberService) Search(ctx context.Context, cond models.MemberSearchCondition) ([]models.MemberTeam, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, cond)
	}
	return nil, nil
}

func (m *MockMemberService) SearchPage(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error) {
	if m.SearchPageFunc != nil {
		return m.SearchPageFunc(ctx, cond, req, optimizeCount)
	}
	return nil, nil
}

func (m *MockMemberService) SearchSlice(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest) (*query.Page[models.MemberTeam], error) {
	if m.SearchSliceFunc != nil {
		return m.SearchSliceFunc(ctx, cond, req)
	}
	return nil, nil
}

// MockTeamService implements TeamService for testing
type MockTeamService struct {
	CreateTeamFunc func(ctx context.Context, name string) (*models.Team, error)
	GetTeamFunc    func(ctx context.Context, id int64) (*models.Team, error)
	ListTeamsFunc  func(ctx context.Context) ([]*models.Team, error)
}

func (m *MockTeamService) CreateTeam(ctx context.Context, name string) (*models.Team, error) {
	if m.CreateTeamFunc != nil {
		return m.CreateTeamFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockTeamService) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockTeamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	if m.ListTeamsFunc != nil {
		return m.ListTeamsFunc(ctx)
	}
	return nil, nil
}

// MockItemService implements ItemService for testing
type MockItemService struct {
	CreateItemFunc func(ctx context.Context, item *models.Item) (*models.Item, error)
	GetItemFunc    func(ctx context.Context, id int64) (*models.Item, error)
	ListItemsFunc  func(ctx context.Context) ([]*models.Item, error)
}

func (m *MockItemService) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if m.CreateItemFunc != nil {
		return m.CreateItemFunc(ctx, item)
	}
	return nil, nil
}

func (m *MockItemService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockItemService) ListItems(ctx context.Context) ([]*models.Item, error) {
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(ctx)
	}
	return nil, nil
}

// MockOrderService implements OrderService for testing
type MockOrderService struct {
	PlaceOrderFunc       func(ctx context.Context, memberID, itemID int64, count int) (*models.Order, error)
	CancelOrderFunc      func(ctx context.Context, id int64) (*models.Order, error)
	GetOrderFunc         func(ctx context.Context, id int64) (*models.Order, error)
	SearchOrdersFunc     func(ctx context.Context, search models.OrderSearch) ([]models.OrderSummary, error)
	SearchOrdersPageFunc func(ctx context.Context, search models.OrderSearch, req query.PageRequest) (*query.Page[models.OrderSummary], error)
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, memberID, itemID int64, count int) (*models.Order, error) {
	if m.PlaceOrderFunc != nil {
		return m.PlaceOrderFunc(ctx, memberID, itemID, count)
	}
	return nil, nil
}

func (m *MockOrderService) CancelOrder(ctx context.Context, id int64) (*models.Order, error) {
	if m.CancelOrderFunc != nil {
		return m.CancelOrderFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockOrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockOrderService) SearchOrders(ctx context.Context, search models.OrderSearch) ([]models.OrderSummary, error) {
	if m.SearchOrdersFunc != nil {
		return m.SearchOrdersFunc(ctx, search)
	}
	return nil, nil
}

func (m *MockOrderService) SearchOrdersPage(ctx context.Context, search models.OrderSearch, req query.PageRequest) (*query.Page[models.OrderSummary], error) {
	if m.SearchOrdersPageFunc != nil {
		return m.SearchOrdersPageFunc(ctx, search, req)
	}
	return &query.Page[models.OrderSummary]{Content: []models.OrderSummary{}, TotalElements: new(int64), Index: req.Index, Size: req.Size}, nil
}
