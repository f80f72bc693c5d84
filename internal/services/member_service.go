package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) (*models.Member, error)
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	ListPage(ctx context.Context, req query.PageRequest) (*query.Page[*models.Member], error)
	Delete(ctx context.Context, id int64) error
	ChangeTeam(ctx context.Context, id int64, teamID *int64) (*models.Member, error)
	FindByUsername(ctx context.Context, username string) ([]*models.Member, error)
	FindByUsernameAndAgeGreaterThan(ctx context.Context, username string, age int) ([]*models.Member, error)
	FindByNames(ctx context.Context, names []string) ([]*models.Member, error)
	FindMemberTeams(ctx context.Context) ([]models.MemberTeam, error)
	FindUsernames(ctx context.Context) ([]string, error)
	BulkAgePlus(ctx context.Context, age int) (int64, error)
	Search(ctx context.Context, cond models.MemberSearchCondition) ([]models.MemberTeam, error)
	SearchPage(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error)
	SearchSlice(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest) (*query.Page[models.MemberTeam], error)
}

// PageRecorder observes page results, e.g. for metrics.
type PageRecorder interface {
	RecordPage(resource string, rows int, counted bool)
}

// MemberService handles member business logic
type MemberService struct {
	repo        MemberRepository
	pages       PageRecorder
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewMemberService creates a new MemberService
func NewMemberService(repo MemberRepository, pages PageRecorder, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *MemberService {
	return &MemberService{
		repo:        repo,
		pages:       pages,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// CreateMember stores a new member. An unknown team yields models.ErrBadRequest.
func (s *MemberService) CreateMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	created, err := s.repo.Create(ctx, member)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			s.logger.Info("member references unknown team", slog.Any("team_id", member.TeamID))
			return nil, models.ErrBadRequest
		}
		s.logger.Error("failed to create member", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.audit(ctx, models.AuditEventMemberCreated, created.ID, map[string]string{"username": created.Username})
	s.logger.Info("member created", slog.Int64("member_id", created.ID))
	return created, nil
}

// GetMember retrieves a member by ID
func (s *MemberService) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "failed to get member", id)
	}
	return member, nil
}

// ListMembers pages through members ordered by id.
func (s *MemberService) ListMembers(ctx context.Context, req query.PageRequest) (*query.Page[*models.Member], error) {
	page, err := s.repo.ListPage(ctx, req)
	if err != nil {
		if errors.Is(err, query.ErrInvalidPageRequest) {
			return nil, err
		}
		s.logger.Error("failed to list members", slog.Int("page", req.Index), slog.Int("size", req.Size), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.pages.RecordPage("member_list", len(page.Content), page.Counted)
	return page, nil
}

// ChangeTeam moves a member to another team, or out of its team when teamID is nil.
func (s *MemberService) ChangeTeam(ctx context.Context, id int64, teamID *int64) (*models.Member, error) {
	member, err := s.repo.ChangeTeam(ctx, id, teamID)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			return nil, models.ErrBadRequest
		}
		return nil, s.lookupError(err, "failed to change member team", id)
	}

	team := "none"
	if teamID != nil {
		team = strconv.FormatInt(*teamID, 10)
	}
	s.audit(ctx, models.AuditEventMemberTeamChange, id, map[string]string{"team_id": team})
	return member, nil
}

// DeleteMember removes a member by ID
func (s *MemberService) DeleteMember(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.lookupError(err, "failed to delete member", id)
	}

	s.audit(ctx, models.AuditEventMemberDeleted, id, nil)
	s.logger.Info("member deleted", slog.Int64("member_id", id))
	return nil
}

// BulkAgePlus ages every member at or above age by one year.
func (s *MemberService) BulkAgePlus(ctx context.Context, age int) (int64, error) {
	changed, err := s.repo.BulkAgePlus(ctx, age)
	if err != nil {
		s.logger.Error("failed bulk age update", slog.Int("age", age), slog.Any("error", err))
		return 0, models.ErrInternalServer
	}

	s.audit(ctx, models.AuditEventMemberBulkAge, 0, map[string]string{
		"min_age":      strconv.Itoa(age),
		"rows_changed": strconv.FormatInt(changed, 10),
	})
	return changed, nil
}

func (s *MemberService) FindByNames(ctx context.Context, names []string) ([]*models.Member, error) {
	members, err := s.repo.FindByNames(ctx, names)
	if err != nil {
		s.logger.Error("failed to find members by names", slog.Int("names", len(names)), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return members, nil
}

// FindByUsername returns members named username, ordered by id. When
// olderThan is set only members strictly older are returned.
func (s *MemberService) FindByUsername(ctx context.Context, username string, olderThan *int) ([]*models.Member, error) {
	if strings.TrimSpace(username) == "" {
		return nil, models.ErrBadRequest
	}

	var (
		members []*models.Member
		err     error
	)
	if olderThan != nil {
		members, err = s.repo.FindByUsernameAndAgeGreaterThan(ctx, username, *olderThan)
	} else {
		members, err = s.repo.FindByUsername(ctx, username)
	}
	if err != nil {
		s.logger.Error("failed to find members by username", slog.String("username", username), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return members, nil
}

// FindMemberTeams lists members that belong to a team, with the team name.
func (s *MemberService) FindMemberTeams(ctx context.Context) ([]models.MemberTeam, error) {
	rows, err := s.repo.FindMemberTeams(ctx)
	if err != nil {
		s.logger.Error("failed to list member teams", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return rows, nil
}

func (s *MemberService) FindUsernames(ctx context.Context) ([]string, error) {
	names, err := s.repo.FindUsernames(ctx)
	if err != nil {
		s.logger.Error("failed to list usernames", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return names, nil
}

// Search returns every member matching cond.
func (s *MemberService) Search(ctx context.Context, cond models.MemberSearchCondition) ([]models.MemberTeam, error) {
	rows, err := s.repo.Search(ctx, cond)
	if err != nil {
		s.logger.Error("member search failed", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return rows, nil
}

// SearchPage returns one page of members matching cond. optimizeCount
// selects whether the total may be inferred from a short page.
func (s *MemberService) SearchPage(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error) {
	page, err := s.repo.SearchPage(ctx, cond, req, optimizeCount)
	if err != nil {
		return nil, s.searchError(err)
	}

	s.pages.RecordPage("member", len(page.Content), page.Counted)
	s.logger.Debug("member page served",
		slog.Int("page", req.Index),
		slog.Int("size", req.Size),
		slog.Int("rows", len(page.Content)),
		slog.Bool("counted", page.Counted),
	)
	return page, nil
}

// SearchSlice returns one page of members matching cond without a total.
func (s *MemberService) SearchSlice(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest) (*query.Page[models.MemberTeam], error) {
	page, err := s.repo.SearchSlice(ctx, cond, req)
	if err != nil {
		return nil, s.searchError(err)
	}

	s.pages.RecordPage("member_slice", len(page.Content), false)
	return page, nil
}

func (s *MemberService) searchError(err error) error {
	if errors.Is(err, query.ErrInvalidPageRequest) {
		return err
	}
	s.logger.Error("member search failed", slog.Any("error", err))
	return models.ErrInternalServer
}

func (s *MemberService) lookupError(err error, msg string, id int64) error {
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Info("member not found", slog.Int64("member_id", id))
		return models.ErrNotFound
	}
	s.logger.Error(msg, slog.Int64("member_id", id), slog.Any("error", err))
	return models.ErrInternalServer
}

func (s *MemberService) audit(ctx context.Context, eventType string, id int64, metadata map[string]string) {
	s.auditLogger.LogChange(ctx, pkglogger.ChangeEvent{
		EventType: eventType,
		Principal: auth.PrincipalFromContext(ctx),
		Entity:    "member",
		EntityID:  id,
		Metadata:  metadata,
	})
}
