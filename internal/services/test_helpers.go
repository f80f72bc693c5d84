package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

// MockMemberRepository implements MemberRepository for testing
type MockMemberRepository struct {
	CreateFunc                          func(ctx context.Context, member *models.Member) (*models.Member, error)
	GetByIDFunc                         func(ctx context.Context, id int64) (*models.Member, error)
	ListPageFunc                        func(ctx context.Context, req query.PageRequest) (*query.Page[*models.Member], error)
	DeleteFunc                          func(ctx context.Context, id int64) error
	ChangeTeamFunc                      func(ctx context.Context, id int64, teamID *int64) (*models.Member, error)
	FindByUsernameFunc                  func(ctx context.Context, username string) ([]*models.Member, error)
	FindByUsernameAndAgeGreaterThanFunc func(ctx context.Context, username string, age int) ([]*models.Member, error)
	FindByNamesFunc                     func(ctx context.Context, names []string) ([]*models.Member, error)
	FindMemberTeamsFunc                 func(ctx context.Context) ([]models.MemberTeam, error)
	FindUsernamesFunc                   func(ctx context.Context) ([]string, error)
	BulkAgePlusFunc                     func(ctx context.Context, age int) (int64, error)
	SearchFunc                          func(ctx context.Context, cond models.MemberSearchCondition) ([]models.MemberTeam, error)
	SearchPageFunc                      func(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error)
	SearchSliceFunc                     func(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest) (*query.Page[models.MemberTeam], error)
}

func (m *MockMemberRepository) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, member)
	}
	return nil, models.ErrInternalServer
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockMemberRepository) ListPage(ctx context.Context, req query.PageRequest) (*query.Page[*models.Member], error) {
	if m.ListPageFunc != nil {
		return m.ListPageFunc(ctx, req)
	}
	return &query.Page[*models.Member]{Content: []*models.Member{}, Index: req.Index, Size: req.Size}, nil
}

func (m *MockMemberRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockMemberRepository) ChangeTeam(ctx context.Context, id int64, teamID *int64) (*models.Member, error) {
	if m.ChangeTeamFunc != nil {
		return m.ChangeTeamFunc(ctx, id, teamID)
	}
	return nil, models.ErrNotFound
}

func (m *MockMemberRepository) FindByUsername(ctx context.Context, username string) ([]*models.Member, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return []*models.Member{}, nil
}

func (m *MockMemberRepository) FindByUsernameAndAgeGreaterThan(ctx context.Context, username string, age int) ([]*models.Member, error) {
	if m.FindByUsernameAndAgeGreaterThanFunc != nil {
		return m.FindByUsernameAndAgeGreaterThanFunc(ctx, username, age)
	}
	return []*models.Member{}, nil
}

func (m *MockMemberRepository) FindMemberTeams(ctx context.Context) ([]models.MemberTeam, error) {
	if m.FindMemberTeamsFunc != nil {
		return m.FindMemberTeamsFunc(ctx)
	}
	return []models.MemberTeam{}, nil
}

func (m *MockMemberRepository) FindByNames(ctx context.Context, names []string) ([]*models.Member, error) {
	if m.FindByNamesFunc != nil {
		return m.FindByNamesFunc(ctx, names)
	}
	return []*models.Member{}, nil
}

func (m *MockMemberRepository) FindUsernames(ctx context.Context) ([]string, error) {
	if m.FindUsernamesFunc != nil {
		return m.FindUsernamesFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockMemberRepository) BulkAgePlus(ctx context.Context, age int) (int64, error) {
	if m.BulkAgePlusFunc != nil {
		return m.BulkAgePlusFunc(ctx, age)
	}
	return 0, nil
}

func (m *MockMemberRepository) Search(ctx context.Context, cond models.MemberSearchCondition) ([]models.MemberTeam, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, cond)
	}
	return []models.MemberTeam{}, nil
}

func (m *MockMemberRepository) SearchPage(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error) {
	if m.SearchPageFunc != nil {
		return m.SearchPageFunc(ctx, cond, req, optimizeCount)
	}
	return nil, models.ErrInternalServer
}

func (m *MockMemberRepository) SearchSlice(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest) (*query.Page[models.MemberTeam], error) {
	if m.SearchSliceFunc != nil {
		return m.SearchSliceFunc(ctx, cond, req)
	}
	return nil, models.ErrInternalServer
}

// MockTeamRepository implements TeamRepository for testing
type MockTeamRepository struct {
	CreateFunc    func(ctx context.Context, team *models.Team) (*models.Team, error)
	GetByIDFunc   func(ctx context.Context, id int64) (*models.Team, error)
	GetByNameFunc func(ctx context.Context, name string) (*models.Team, error)
	ListFunc      func(ctx context.Context) ([]*models.Team, error)
}

func (m *MockTeamRepository) Create(ctx context.Context, team *models.Team) (*models.Team, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, team)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, models.ErrNotFound
}

func (m *MockTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Team{}, nil
}

// MockItemRepository implements ItemRepository for testing
type MockItemRepository struct {
	CreateFunc  func(ctx context.Context, item *models.Item) (*models.Item, error)
	GetByIDFunc func(ctx context.Context, id int64) (*models.Item, error)
	ListFunc    func(ctx context.Context) ([]*models.Item, error)
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	return nil, models.ErrInternalServer
}

func (m *MockItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Item{}, nil
}

// MockOrderRepository implements OrderRepository for testing
type MockOrderRepository struct {
	CreateFunc     func(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*models.Order, error)
	CancelFunc     func(ctx context.Context, id int64) (*models.Order, error)
	SearchFunc     func(ctx context.Context, search models.OrderSearch) ([]models.OrderSummary, error)
	SearchPageFunc func(ctx context.Context, search models.OrderSearch, req query.PageRequest) (*query.Page[models.OrderSummary], error)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	return nil, models.ErrInternalServer
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockOrderRepository) Cancel(ctx context.Context, id int64) (*models.Order, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, id)
	}
	return nil, models.ErrInternalServer
}

func (m *MockOrderRepository) Search(ctx context.Context, search models.OrderSearch) ([]models.OrderSummary, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, search)
	}
	return []models.OrderSummary{}, nil
}

func (m *MockOrderRepository) SearchPage(ctx context.Context, search models.OrderSearch, req query.PageRequest) (*query.Page[models.OrderSummary], error) {
	if m.SearchPageFunc != nil {
		return m.SearchPageFunc(ctx, search, req)
	}
	return &query.Page[models.OrderSummary]{Content: []models.OrderSummary{}, Index: req.Index, Size: req.Size}, nil
}

// pageRecord is one call captured by MockPageRecorder.
type pageRecord struct {
	Resource string
	Rows     int
	Counted  bool
}

// MockPageRecorder captures RecordPage calls
type MockPageRecorder struct {
	Records []pageRecord
}

func (m *MockPageRecorder) RecordPage(resource string, rows int, counted bool) {
	m.Records = append(m.Records, pageRecord{Resource: resource, Rows: rows, Counted: counted})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newAuditBuffer returns an AuditLogger whose JSON output lands in the buffer.
func newAuditBuffer() (*pkglogger.AuditLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return pkglogger.NewAuditLogger(pkglogger.New(buf, "info")), buf
}

// NewTestMember creates a test member with default values
func NewTestMember(id int64, username string, age int) *models.Member {
	return &models.Member{
		ID:       id,
		Username: username,
		Age:      age,
		Audit:    models.Audit{CreatedBy: "tester", LastModifiedBy: "tester"},
	}
}

// NewTestItem creates a stocked test item
func NewTestItem(id int64, name string, price, stock int) *models.Item {
	return &models.Item{ID: id, Name: name, Price: price, StockQuantity: stock}
}

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }
