package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/models"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) (*models.Team, error)
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	GetByName(ctx context.Context, name string) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
}

type TeamService struct {
	repo        TeamRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewTeamService(repo TeamRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *TeamService {
	return &TeamService{repo: repo, logger: logger, auditLogger: auditLogger}
}

// CreateTeam stores a new team. Team names are unique.
func (s *TeamService) CreateTeam(ctx context.Context, name string) (*models.Team, error) {
	team, err := s.repo.Create(ctx, &models.Team{Name: name})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("team already exists", slog.String("team_name", name))
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create team", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogChange(ctx, pkglogger.ChangeEvent{
		EventType: models.AuditEventTeamCreated,
		Principal: auth.PrincipalFromContext(ctx),
		Entity:    "team",
		EntityID:  team.ID,
		Metadata:  map[string]string{"team_name": team.Name},
	})
	return team, nil
}

func (s *TeamService) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	team, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get team", slog.Int64("team_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return team, nil
}

func (s *TeamService) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	team, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get team by name", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return team, nil
}

func (s *TeamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list teams", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return teams, nil
}
