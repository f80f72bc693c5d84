package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
)

// MemberService defines the interface for member business logic
type MemberService interface {
	CreateMember(ctx context.Context, member *models.Member) (*models.Member, error)
	GetMember(ctx context.Context, id int64) (*models.Member, error)
	ListMembers(ctx context.Context, req query.PageRequest) (*query.Page[*models.Member], error)
	ChangeTeam(ctx context.Context, id int64, teamID *int64) (*models.Member, error)
	DeleteMember(ctx context.Context, id int64) error
	BulkAgePlus(ctx context.Context, age int) (int64, error)
	FindByUsername(ctx context.Context, username string, olderThan *int) ([]*models.Member, error)
	FindByNames(ctx context.Context, names []string) ([]*models.Member, error)
	FindMemberTeams(ctx context.Context) ([]models.MemberTeam, error)
	FindUsernames(ctx context.Context) ([]string, error)
	Search(ctx context.Context, cond models.MemberSearchCondition) ([]models.MemberTeam, error)
	SearchPage(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error)
	SearchSlice(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest) (*query.Page[models.MemberTeam], error)
}

// MemberHandler handles member HTTP requests
type MemberHandler struct {
	service MemberService
	paging  PagingParams
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(service MemberService, paging PagingParams) *MemberHandler {
	return &MemberHandler{service: service, paging: paging}
}

// Request/Response DTOs

// CreateMemberRequest represents the request body for creating a member
type CreateMemberRequest struct {
	Username string `json:"username" validate:"required,min=1,max=255"`
	Age      int    `json:"age" validate:"gte=0,lte=200"`
	TeamID   *int64 `json:"team_id" validate:"omitempty,gte=1"`
}

// ChangeTeamRequest moves a member. A null team_id removes the member from its team.
type ChangeTeamRequest struct {
	TeamID *int64 `json:"team_id" validate:"omitempty,gte=1"`
}

// BulkAgeRequest ages every member at or above Age.
type BulkAgeRequest struct {
	Age *int `json:"age" validate:"required,gte=0"`
}

type BulkAgeResponse struct {
	Updated int64 `json:"updated"`
}

// MemberResponse represents a member in the HTTP response
type MemberResponse struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Age            int    `json:"age"`
	TeamID         *int64 `json:"team_id"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	CreatedBy      string `json:"created_by"`
	LastModifiedBy string `json:"last_modified_by"`
}

// MemberTeamResponse is one search result row.
type MemberTeamResponse struct {
	MemberID int64   `json:"member_id"`
	Username string  `json:"username"`
	Age      int     `json:"age"`
	TeamID   *int64  `json:"team_id"`
	TeamName *string `json:"team_name"`
}

func memberModelToResponse(m *models.Member) *MemberResponse {
	return &MemberResponse{
		ID:             m.ID,
		Username:       m.Username,
		Age:            m.Age,
		TeamID:         m.TeamID,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      m.UpdatedAt.Format(time.RFC3339),
		CreatedBy:      m.CreatedBy,
		LastModifiedBy: m.LastModifiedBy,
	}
}

func memberTeamToResponse(m models.MemberTeam) MemberTeamResponse {
	return MemberTeamResponse{
		MemberID: m.MemberID,
		Username: m.Username,
		Age:      m.Age,
		TeamID:   m.TeamID,
		TeamName: m.TeamName,
	}
}

// SearchV1 lists every member matching the condition.
//
// @Router /v1/members [get]
func (h *MemberHandler) SearchV1(w http.ResponseWriter, r *http.Request) {
	cond, err := parseMemberCondition(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	rows, err := h.service.Search(r.Context(), cond)
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}

	out := make([]MemberTeamResponse, len(rows))
	for i, row := range rows {
		out[i] = memberTeamToResponse(row)
	}
	pkghttp.WriteJSON(w, http.StatusOK, out)
}

// SearchV2 returns a page of matching members, always issuing the count query.
//
// @Router /v2/members [get]
func (h *MemberHandler) SearchV2(w http.ResponseWriter, r *http.Request) {
	h.searchPage(w, r, false)
}

// SearchV3 returns a page of matching members, skipping the count query
// when the page itself determines the total.
//
// @Router /v3/members [get]
func (h *MemberHandler) SearchV3(w http.ResponseWriter, r *http.Request) {
	h.searchPage(w, r, true)
}

func (h *MemberHandler) searchPage(w http.ResponseWriter, r *http.Request, optimizeCount bool) {
	cond, req, ok := h.parseSearch(w, r)
	if !ok {
		return
	}

	page, err := h.service.SearchPage(r.Context(), cond, req, optimizeCount)
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, toPageResponse(page, memberTeamToResponse))
}

// SearchSlice returns a window of matching members without a total.
//
// @Router /v1/members/slice [get]
func (h *MemberHandler) SearchSlice(w http.ResponseWriter, r *http.Request) {
	cond, req, ok := h.parseSearch(w, r)
	if !ok {
		return
	}

	page, err := h.service.SearchSlice(r.Context(), cond, req)
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, toPageResponse(page, memberTeamToResponse))
}

func (h *MemberHandler) parseSearch(w http.ResponseWriter, r *http.Request) (models.MemberSearchCondition, query.PageRequest, bool) {
	cond, err := parseMemberCondition(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return cond, query.PageRequest{}, false
	}

	req, err := parsePageRequest(r, h.paging)
	if err != nil {
		writeServiceError(w, err, "Member")
		return cond, req, false
	}
	return cond, req, true
}

// ListMembers pages through members by id. Sort parameters are ignored.
//
// @Router /members [get]
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r, h.paging)
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}
	req.Sort = nil

	page, err := h.service.ListMembers(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, toPageResponse(page, memberModelToResponse))
}

// CreateMember creates a new member
//
// @Router /members [post]
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	created, err := h.service.CreateMember(r.Context(), &models.Member{
		Username: req.Username,
		Age:      req.Age,
		TeamID:   req.TeamID,
	})
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, memberModelToResponse(created))
}

// GetMember retrieves a member by ID
//
// @Router /members/{id} [get]
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid member ID")
		return
	}

	member, err := h.service.GetMember(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, memberModelToResponse(member))
}

// ChangeTeam moves a member to another team
//
// @Router /members/{id}/team [put]
func (h *MemberHandler) ChangeTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid member ID")
		return
	}

	var req ChangeTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	member, err := h.service.ChangeTeam(r.Context(), id, req.TeamID)
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, memberModelToResponse(member))
}

// DeleteMember removes a member
//
// @Router /members/{id} [delete]
func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid member ID")
		return
	}

	if err := h.service.DeleteMember(r.Context(), id); err != nil {
		writeServiceError(w, err, "Member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkAgePlus ages every member at or above the given age by one year
//
// @Router /members/bulk-age [post]
func (h *MemberHandler) BulkAgePlus(w http.ResponseWriter, r *http.Request) {
	var req BulkAgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	updated, err := h.service.BulkAgePlus(r.Context(), *req.Age)
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, BulkAgeResponse{Updated: updated})
}

// FindByUsername lists members with the exact username, optionally only
// those older than ageGt.
//
// @Router /members/by-username [get]
func (h *MemberHandler) FindByUsername(w http.ResponseWriter, r *http.Request) {
	olderThan, err := pkghttp.QueryIntPtr(r, "ageGt")
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	members, err := h.service.FindByUsername(r.Context(), pkghttp.QueryString(r, "username"), olderThan)
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}

	out := make([]*MemberResponse, len(members))
	for i, m := range members {
		out[i] = memberModelToResponse(m)
	}
	pkghttp.WriteJSON(w, http.StatusOK, out)
}

// MemberTeams lists members that belong to a team, with the team name.
//
// @Router /members/teams [get]
func (h *MemberHandler) MemberTeams(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.FindMemberTeams(r.Context())
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}

	out := make([]MemberTeamResponse, len(rows))
	for i, row := range rows {
		out[i] = memberTeamToResponse(row)
	}
	pkghttp.WriteJSON(w, http.StatusOK, out)
}

// FindByNames lists members whose username is one of the repeated name parameters.
//
// @Router /members/by-names [get]
func (h *MemberHandler) FindByNames(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.FindByNames(r.Context(), pkghttp.QueryValues(r, "name"))
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}

	out := make([]*MemberResponse, len(members))
	for i, m := range members {
		out[i] = memberModelToResponse(m)
	}
	pkghttp.WriteJSON(w, http.StatusOK, out)
}

// Usernames lists every username.
//
// @Router /members/usernames [get]
func (h *MemberHandler) Usernames(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.FindUsernames(r.Context())
	if err != nil {
		writeServiceError(w, err, "Member")
		return
	}
	if names == nil {
		names = []string{}
	}
	pkghttp.WriteJSON(w, http.StatusOK, names)
}
