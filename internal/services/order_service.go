package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	Cancel(ctx context.Context, id int64) (*models.Order, error)
	Search(ctx context.Context, search models.OrderSearch) ([]models.OrderSummary, error)
	SearchPage(ctx context.Context, search models.OrderSearch, req query.PageRequest) (*query.Page[models.OrderSummary], error)
}

// MemberLookup resolves members referenced by orders.
type MemberLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Member, error)
}

// ItemLookup resolves items referenced by orders.
type ItemLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Item, error)
}

type OrderService struct {
	orders      OrderRepository
	members     MemberLookup
	items       ItemLookup
	pages       PageRecorder
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewOrderService(orders OrderRepository, members MemberLookup, items ItemLookup, pages PageRecorder, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *OrderService {
	return &OrderService{
		orders:      orders,
		members:     members,
		items:       items,
		pages:       pages,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// PlaceOrder orders count units of itemID for memberID, taking them out of
// the item's stock. An unknown member or item yields models.ErrNotFound and
// ordering more than the stock holds yields models.ErrNotEnoughStock.
func (s *OrderService) PlaceOrder(ctx context.Context, memberID, itemID int64, count int) (*models.Order, error) {
	if count <= 0 {
		return nil, models.ErrBadRequest
	}
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		return nil, s.lookupError(err, "member", memberID)
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, s.lookupError(err, "item", itemID)
	}

	order, err := s.orders.Create(ctx, &models.Order{
		MemberID: memberID,
		Status:   models.OrderStatusOrder,
		Items:    []models.OrderItem{{ItemID: itemID, Count: count}},
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotEnoughStock):
			s.logger.Info("not enough stock", slog.Int64("item_id", itemID), slog.Int("count", count))
			return nil, models.ErrNotEnoughStock
		case errors.Is(err, models.ErrBadRequest):
			// member or item removed since the lookup
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to place order", slog.Int64("member_id", memberID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.audit(ctx, models.AuditEventOrderPlaced, order.ID)
	return order, nil
}

func (s *OrderService) lookupError(err error, entity string, id int64) error {
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Info(entity+" not found for order", slog.Int64(entity+"_id", id))
		return models.ErrNotFound
	}
	s.logger.Error("failed to look up order "+entity, slog.Int64(entity+"_id", id), slog.Any("error", err))
	return models.ErrInternalServer
}

// CancelOrder moves an order to CANCEL and returns its items to stock.
// Cancelling twice yields models.ErrOrderAlreadyCancelled.
func (s *OrderService) CancelOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusCancel {
		return nil, models.ErrOrderAlreadyCancelled
	}

	cancelled, err := s.orders.Cancel(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return nil, models.ErrNotFound
		case errors.Is(err, models.ErrOrderAlreadyCancelled):
			// lost a race with a concurrent cancel
			return nil, models.ErrOrderAlreadyCancelled
		}
		s.logger.Error("failed to cancel order", slog.Int64("order_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.audit(ctx, models.AuditEventOrderCancelled, id)
	return cancelled, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("order not found", slog.Int64("order_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get order", slog.Int64("order_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return order, nil
}

// SearchOrders lists orders matching search.
func (s *OrderService) SearchOrders(ctx context.Context, search models.OrderSearch) ([]models.OrderSummary, error) {
	if search.Status != nil && !search.Status.Valid() {
		return nil, models.ErrBadRequest
	}

	orders, err := s.orders.Search(ctx, search)
	if err != nil {
		s.logger.Error("order search failed", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return orders, nil
}

// SearchOrdersPage returns one page of orders matching search.
func (s *OrderService) SearchOrdersPage(ctx context.Context, search models.OrderSearch, req query.PageRequest) (*query.Page[models.OrderSummary], error) {
	if search.Status != nil && !search.Status.Valid() {
		return nil, models.ErrBadRequest
	}

	page, err := s.orders.SearchPage(ctx, search, req)
	if err != nil {
		if errors.Is(err, query.ErrInvalidPageRequest) {
			return nil, err
		}
		s.logger.Error("order page search failed", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.pages.RecordPage("order", len(page.Content), page.Counted)
	return page, nil
}

func (s *OrderService) audit(ctx context.Context, eventType string, id int64) {
	s.auditLogger.LogChange(ctx, pkglogger.ChangeEvent{
		EventType: eventType,
		Principal: auth.PrincipalFromContext(ctx),
		Entity:    "order",
		EntityID:  id,
	})
}
