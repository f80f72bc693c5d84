package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/models"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

// ItemRepository defines the interface for item data access
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	List(ctx context.Context) ([]*models.Item, error)
}

type ItemService struct {
	repo        ItemRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewItemService(repo ItemRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *ItemService {
	return &ItemService{repo: repo, logger: logger, auditLogger: auditLogger}
}

// CreateItem stocks a new item. Negative prices or quantities are rejected.
func (s *ItemService) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if item.Price < 0 || item.StockQuantity < 0 {
		return nil, models.ErrBadRequest
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			return nil, models.ErrBadRequest
		}
		s.logger.Error("failed to create item", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogChange(ctx, pkglogger.ChangeEvent{
		EventType: models.AuditEventItemCreated,
		Principal: auth.PrincipalFromContext(ctx),
		Entity:    "item",
		EntityID:  created.ID,
		Metadata: map[string]string{
			"name":  created.Name,
			"stock": strconv.Itoa(created.StockQuantity),
		},
	})
	return created, nil
}

func (s *ItemService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get item", slog.Int64("item_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return item, nil
}

func (s *ItemService) ListItems(ctx context.Context) ([]*models.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list items", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return items, nil
}
