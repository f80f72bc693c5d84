package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/database"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/repositories"
	"github.com/BradenHooton/roster/internal/services"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

var seedMemberCount int

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Load sample teams and members",
	Long:    "Creates teamA and teamB if missing, then members member0..memberN-1 aged 0..N-1, alternating between the two teams.",
	GroupID: "data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedMemberCount < 0 {
			return fmt.Errorf("--members must not be negative, got %d", seedMemberCount)
		}

		return withDB(func(ctx context.Context, db *database.DB) error {
			auditLogger := pkglogger.NewAuditLogger(logger)
			teams := services.NewTeamService(repositories.NewTeamRepository(db), logger, auditLogger)
			members := services.NewMemberService(repositories.NewMemberRepository(db), nopPages{}, logger, auditLogger)

			created, err := seedRoster(ctx, teams, members, seedMemberCount)
			if err != nil {
				return err
			}
			printSeedResult(cmd.OutOrStdout(), created)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedMemberCount, "members", 100, "number of members to create")
}

type teamSeeder interface {
	GetTeamByName(ctx context.Context, name string) (*models.Team, error)
	CreateTeam(ctx context.Context, name string) (*models.Team, error)
}

type memberSeeder interface {
	CreateMember(ctx context.Context, member *models.Member) (*models.Member, error)
}

var seedTeamNames = []string{"teamA", "teamB"}

// seedRoster writes as the system principal and returns the number of
// members created. Existing teams are reused.
func seedRoster(ctx context.Context, teams teamSeeder, members memberSeeder, n int) (int, error) {
	ctx = auth.WithPrincipal(ctx, auth.SystemPrincipal)

	teamIDs := make([]int64, len(seedTeamNames))
	for i, name := range seedTeamNames {
		team, err := teams.GetTeamByName(ctx, name)
		if errors.Is(err, models.ErrNotFound) {
			team, err = teams.CreateTeam(ctx, name)
		}
		if err != nil {
			return 0, fmt.Errorf("ensuring team %s: %w", name, err)
		}
		teamIDs[i] = team.ID
	}

	for i := 0; i < n; i++ {
		teamID := teamIDs[i%len(teamIDs)]
		_, err := members.CreateMember(ctx, &models.Member{
			Username: fmt.Sprintf("member%d", i),
			Age:      i,
			TeamID:   &teamID,
		})
		if err != nil {
			return i, fmt.Errorf("creating member%d: %w", i, err)
		}
	}
	return n, nil
}

func printSeedResult(w io.Writer, created int) {
	if jsonOutput {
		printJSON(w, map[string]int{"members_created": created})
		return
	}
	fmt.Fprintf(w, "Seeded %d members across %d teams\n", created, len(seedTeamNames))
}

// nopPages discards page metrics; the CLI exposes no scrape endpoint.
type nopPages struct{}

func (nopPages) RecordPage(string, int, bool) {}
