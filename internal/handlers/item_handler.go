package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/BradenHooton/roster/internal/models"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
)

type ItemService interface {
	CreateItem(ctx context.Context, item *models.Item) (*models.Item, error)
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	ListItems(ctx context.Context) ([]*models.Item, error)
}

type ItemHandler struct {
	service ItemService
}

func NewItemHandler(service ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

type CreateItemRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=255"`
	Price         int    `json:"price" validate:"gte=0"`
	StockQuantity int    `json:"stock_quantity" validate:"gte=0"`
}

type ItemResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Price          int    `json:"price"`
	StockQuantity  int    `json:"stock_quantity"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	CreatedBy      string `json:"created_by"`
	LastModifiedBy string `json:"last_modified_by"`
}

func itemModelToResponse(i *models.Item) *ItemResponse {
	return &ItemResponse{
		ID:             i.ID,
		Name:           i.Name,
		Price:          i.Price,
		StockQuantity:  i.StockQuantity,
		CreatedAt:      i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      i.UpdatedAt.Format(time.RFC3339),
		CreatedBy:      i.CreatedBy,
		LastModifiedBy: i.LastModifiedBy,
	}
}

// CreateItem stocks a new item
//
// @Router /items [post]
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	item, err := h.service.CreateItem(r.Context(), &models.Item{
		Name:          req.Name,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		writeServiceError(w, err, "Item")
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, itemModelToResponse(item))
}

// @Router /items [get]
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		writeServiceError(w, err, "Item")
		return
	}

	out := make([]*ItemResponse, len(items))
	for i, item := range items {
		out[i] = itemModelToResponse(item)
	}
	pkghttp.WriteJSON(w, http.StatusOK, out)
}

// @Router /items/{id} [get]
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid item ID")
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Item")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, itemModelToResponse(item))
}
