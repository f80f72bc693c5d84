package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BradenHooton/roster/internal/database"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	"github.com/BradenHooton/roster/internal/repositories"
	"github.com/BradenHooton/roster/internal/services"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

var searchCmd = &cobra.Command{
	Use:     "search",
	Short:   "Search members by username, team and age range",
	GroupID: "data",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cond, err := searchCondition(cmd)
		if err != nil {
			return err
		}

		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		sorts, _ := cmd.Flags().GetStringSlice("sort")
		optimize, _ := cmd.Flags().GetBool("optimize-count")
		slice, _ := cmd.Flags().GetBool("slice")

		orders, err := parseSortFlags(sorts)
		if err != nil {
			return err
		}
		req := query.NewPageRequest(page, clampSize(size, cfg.Paging.MaxSize), orders...)

		return withDB(func(ctx context.Context, db *database.DB) error {
			svc := services.NewMemberService(repositories.NewMemberRepository(db), nopPages{}, logger, pkglogger.NewAuditLogger(logger))

			var result *query.Page[models.MemberTeam]
			if slice {
				result, err = svc.SearchSlice(ctx, cond, req)
			} else {
				result, err = svc.SearchPage(ctx, cond, req, optimize)
			}
			if err != nil {
				return fmt.Errorf("searching members: %w", err)
			}

			if jsonOutput {
				printJSON(cmd.OutOrStdout(), result)
			} else {
				printMemberPageTable(cmd.OutOrStdout(), result)
			}
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().String("username", "", "exact username")
	searchCmd.Flags().String("team", "", "exact team name")
	searchCmd.Flags().Int("age-goe", 0, "minimum age, inclusive")
	searchCmd.Flags().Int("age-loe", 0, "maximum age, inclusive")
	searchCmd.Flags().Int("page", 0, "zero-based page index")
	searchCmd.Flags().Int("size", 20, "page size, capped at PAGE_MAX_SIZE")
	searchCmd.Flags().StringSlice("sort", nil, "sort as property[:asc|desc] (repeatable)")
	searchCmd.Flags().Bool("optimize-count", true, "skip the count query when the page determines the total")
	searchCmd.Flags().Bool("slice", false, "fetch one extra row instead of counting")
}

// searchCondition leaves age bounds unset unless their flags were given.
func searchCondition(cmd *cobra.Command) (models.MemberSearchCondition, error) {
	username, _ := cmd.Flags().GetString("username")
	team, _ := cmd.Flags().GetString("team")
	cond := models.MemberSearchCondition{Username: username, TeamName: team}

	if cmd.Flags().Changed("age-goe") {
		v, err := cmd.Flags().GetInt("age-goe")
		if err != nil {
			return cond, err
		}
		cond.AgeGoe = &v
	}
	if cmd.Flags().Changed("age-loe") {
		v, err := cmd.Flags().GetInt("age-loe")
		if err != nil {
			return cond, err
		}
		cond.AgeLoe = &v
	}
	return cond, nil
}

// clampSize caps --size at PAGE_MAX_SIZE, as the HTTP paging parser does.
func clampSize(size, max int) int {
	if max > 0 && size > max {
		return max
	}
	return size
}

func parseSortFlags(values []string) ([]query.Order, error) {
	orders := make([]query.Order, 0, len(values))
	for _, v := range values {
		prop, dir, _ := strings.Cut(v, ":")
		d, err := query.ParseDirection(dir)
		if err != nil {
			return nil, err
		}
		orders = append(orders, query.Order{Property: strings.TrimSpace(prop), Direction: d})
	}
	return orders, nil
}
