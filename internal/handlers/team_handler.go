package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/BradenHooton/roster/internal/models"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
)

type TeamService interface {
	CreateTeam(ctx context.Context, name string) (*models.Team, error)
	GetTeam(ctx context.Context, id int64) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
}

type TeamHandler struct {
	service TeamService
}

func NewTeamHandler(service TeamService) *TeamHandler {
	return &TeamHandler{service: service}
}

type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type TeamResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	CreatedBy      string `json:"created_by"`
	LastModifiedBy string `json:"last_modified_by"`
}

func teamModelToResponse(t *models.Team) *TeamResponse {
	return &TeamResponse{
		ID:             t.ID,
		Name:           t.Name,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339),
		CreatedBy:      t.CreatedBy,
		LastModifiedBy: t.LastModifiedBy,
	}
}

// CreateTeam creates a team. Duplicate names yield 409.
//
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	team, err := h.service.CreateTeam(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err, "Team")
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, teamModelToResponse(team))
}

// @Router /teams [get]
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.ListTeams(r.Context())
	if err != nil {
		writeServiceError(w, err, "Team")
		return
	}

	out := make([]*TeamResponse, len(teams))
	for i, t := range teams {
		out[i] = teamModelToResponse(t)
	}
	pkghttp.WriteJSON(w, http.StatusOK, out)
}

// @Router /teams/{id} [get]
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid team ID")
		return
	}

	team, err := h.service.GetTeam(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Team")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, teamModelToResponse(team))
}
