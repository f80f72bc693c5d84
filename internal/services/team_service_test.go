package services

import (
	"context"
	"errors"
	"testing"

	"github.com/BradenHooton/roster/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamService_CreateTeam(t *testing.T) {
	auditLogger, buf := newAuditBuffer()
	svc := NewTeamService(&MockTeamRepository{
		CreateFunc: func(ctx context.Context, team *models.Team) (*models.Team, error) {
			switch team.Name {
			case "teamA":
				return nil, models.ErrConflict
			case "broken":
				return nil, errors.New("boom")
			}
			return &models.Team{ID: 3, Name: team.Name}, nil
		},
	}, discardLogger(), auditLogger)

	team, err := svc.CreateTeam(context.Background(), "teamC")
	require.NoError(t, err)
	assert.Equal(t, int64(3), team.ID)
	assert.Contains(t, buf.String(), `"event_type":"team_created"`)

	_, err = svc.CreateTeam(context.Background(), "teamA")
	assert.Equal(t, models.ErrConflict, err)

	_, err = svc.CreateTeam(context.Background(), "broken")
	assert.Equal(t, models.ErrInternalServer, err)
}

func TestTeamService_Lookups(t *testing.T) {
	auditLogger, _ := newAuditBuffer()
	svc := NewTeamService(&MockTeamRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Team, error) {
			if id == 1 {
				return &models.Team{ID: 1, Name: "teamA"}, nil
			}
			return nil, models.ErrNotFound
		},
		GetByNameFunc: func(ctx context.Context, name string) (*models.Team, error) {
			return nil, errors.New("boom")
		},
		ListFunc: func(ctx context.Context) ([]*models.Team, error) {
			return []*models.Team{{ID: 1, Name: "teamA"}, {ID: 2, Name: "teamB"}}, nil
		},
	}, discardLogger(), auditLogger)

	team, err := svc.GetTeam(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "teamA", team.Name)

	_, err = svc.GetTeam(context.Background(), 2)
	assert.Equal(t, models.ErrNotFound, err)

	_, err = svc.GetTeamByName(context.Background(), "teamA")
	assert.Equal(t, models.ErrInternalServer, err)

	teams, err := svc.ListTeams(context.Background())
	require.NoError(t, err)
	assert.Len(t, teams, 2)
}
