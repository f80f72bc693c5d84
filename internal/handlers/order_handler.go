package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, memberID, itemID int64, count int) (*models.Order, error)
	CancelOrder(ctx context.Context, id int64) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	SearchOrders(ctx context.Context, search models.OrderSearch) ([]models.OrderSummary, error)
	SearchOrdersPage(ctx context.Context, search models.OrderSearch, req query.PageRequest) (*query.Page[models.OrderSummary], error)
}

type OrderHandler struct {
	service OrderService
	paging  PagingParams
}

func NewOrderHandler(service OrderService, paging PagingParams) *OrderHandler {
	return &OrderHandler{service: service, paging: paging}
}

type PlaceOrderRequest struct {
	MemberID int64 `json:"member_id" validate:"required,gte=1"`
	ItemID   int64 `json:"item_id" validate:"required,gte=1"`
	Count    int   `json:"count" validate:"required,gte=1"`
}

type OrderItemResponse struct {
	ItemID     int64 `json:"item_id"`
	OrderPrice int   `json:"order_price"`
	Count      int   `json:"count"`
}

type OrderResponse struct {
	ID             int64               `json:"id"`
	MemberID       int64               `json:"member_id"`
	Status         string              `json:"status"`
	OrderDate      string              `json:"order_date"`
	Items          []OrderItemResponse `json:"items"`
	TotalPrice     int                 `json:"total_price"`
	CreatedAt      string              `json:"created_at"`
	UpdatedAt      string              `json:"updated_at"`
	CreatedBy      string              `json:"created_by"`
	LastModifiedBy string              `json:"last_modified_by"`
}

type OrderSummaryResponse struct {
	OrderID    int64  `json:"order_id"`
	MemberID   int64  `json:"member_id"`
	MemberName string `json:"member_name"`
	Status     string `json:"status"`
	OrderDate  string `json:"order_date"`
}

func orderModelToResponse(o *models.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, line := range o.Items {
		items[i] = OrderItemResponse{ItemID: line.ItemID, OrderPrice: line.OrderPrice, Count: line.Count}
	}
	return &OrderResponse{
		ID:             o.ID,
		MemberID:       o.MemberID,
		Status:         string(o.Status),
		OrderDate:      o.OrderDate.Format(time.RFC3339),
		Items:          items,
		TotalPrice:     o.TotalPrice(),
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      o.UpdatedAt.Format(time.RFC3339),
		CreatedBy:      o.CreatedBy,
		LastModifiedBy: o.LastModifiedBy,
	}
}

func orderSummaryToResponse(o models.OrderSummary) OrderSummaryResponse {
	return OrderSummaryResponse{
		OrderID:    o.OrderID,
		MemberID:   o.MemberID,
		MemberName: o.MemberName,
		Status:     string(o.Status),
		OrderDate:  o.OrderDate.Format(time.RFC3339),
	}
}

// parseOrderSearch reads memberName and status. Status is case-insensitive.
func parseOrderSearch(r *http.Request) models.OrderSearch {
	search := models.OrderSearch{MemberName: pkghttp.QueryString(r, "memberName")}
	if raw := pkghttp.QueryString(r, "status"); raw != "" {
		status := models.OrderStatus(strings.ToUpper(raw))
		search.Status = &status
	}
	return search
}

// SearchOrders lists orders filtered by memberName (substring) and status.
//
// @Router /orders [get]
func (h *OrderHandler) SearchOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.SearchOrders(r.Context(), parseOrderSearch(r))
	if err != nil {
		writeServiceError(w, err, "Order")
		return
	}

	out := make([]OrderSummaryResponse, len(orders))
	for i, o := range orders {
		out[i] = orderSummaryToResponse(o)
	}
	pkghttp.WriteJSON(w, http.StatusOK, out)
}

// SearchOrdersPage returns a counted page of orders, newest first unless
// sort says otherwise.
//
// @Router /v2/orders [get]
func (h *OrderHandler) SearchOrdersPage(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r, h.paging)
	if err != nil {
		writeServiceError(w, err, "Order")
		return
	}

	page, err := h.service.SearchOrdersPage(r.Context(), parseOrderSearch(r), req)
	if err != nil {
		writeServiceError(w, err, "Order")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, toPageResponse(page, orderSummaryToResponse))
}

// PlaceOrder orders count units of an item for an existing member.
// Ordering more than the item's stock yields 409.
//
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), req.MemberID, req.ItemID, req.Count)
	if err != nil {
		writeServiceError(w, err, "Member or item")
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, orderModelToResponse(order))
}

// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid order ID")
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Order")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, orderModelToResponse(order))
}

// CancelOrder cancels an order. Cancelling twice yields 409.
//
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid order ID")
		return
	}

	order, err := h.service.CancelOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Order")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, orderModelToResponse(order))
}
