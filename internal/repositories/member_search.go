package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/roster/internal/database"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// memberSortable lists the properties member searches may sort by.
var memberSortable = query.Sortable{
	"id":       "m.member_id",
	"username": "m.username",
	"age":      "m.age",
	"teamName": "t.name",
}

const (
	memberTiebreak = "m.member_id"
	memberTeamJoin = " LEFT JOIN team t ON t.team_id = m.team_id"
)

// buildMemberTeamSQL renders the member/team projection query.
func buildMemberTeamSQL(q query.Query) (string, []any, error) {
	orderBy, err := memberSortable.OrderBy(q.Sort, memberTiebreak)
	if err != nil {
		return "", nil, err
	}

	args := &query.Args{}
	sql := "SELECT m.member_id, m.username, m.age, t.team_id, t.name FROM member m" +
		memberTeamJoin +
		query.Where(q.Where, args) +
		" ORDER BY " + orderBy
	if q.Limit > 0 {
		sql += " LIMIT " + args.Add(q.Limit)
	}
	if q.Offset > 0 {
		sql += " OFFSET " + args.Add(q.Offset)
	}
	return sql, args.Values(), nil
}

// buildMemberCountSQL renders the count query. The team join is only
// included when the predicate filters on a team column; the join is a left
// join on a foreign key, so it never changes the member count.
func buildMemberCountSQL(where *query.Predicate) (string, []any) {
	args := &query.Args{}
	sql := "SELECT COUNT(*) FROM member m"
	if where.Requires(query.JoinTeam) {
		sql += memberTeamJoin
	}
	sql += query.Where(where, args)
	return sql, args.Values()
}

// memberTeamExecutor runs member searches against Postgres.
type memberTeamExecutor struct {
	pool *pgxpool.Pool
}

func (e memberTeamExecutor) Fetch(ctx context.Context, q query.Query) ([]models.MemberTeam, error) {
	sql, args, err := buildMemberTeamSQL(q)
	if err != nil {
		return nil, err
	}

	rows, err := e.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}

	return scanMemberTeamRows(rows)
}

func (e memberTeamExecutor) Count(ctx context.Context, where *query.Predicate) (int64, error) {
	sql, args := buildMemberCountSQL(where)

	var total int64
	if err := e.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return total, nil
}

func scanMemberTeamRows(rows pgx.Rows) ([]models.MemberTeam, error) {
	defer rows.Close()

	out := make([]models.MemberTeam, 0)

	for rows.Next() {
		var mt models.MemberTeam
		if err := rows.Scan(&mt.MemberID, &mt.Username, &mt.Age, &mt.TeamID, &mt.TeamName); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", database.MapPostgresError(err))
		}
		out = append(out, mt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return out, nil
}

// Search returns every member matching cond, ordered by id.
func (r *MemberRepository) Search(ctx context.Context, cond models.MemberSearchCondition) ([]models.MemberTeam, error) {
	return r.search.Fetch(ctx, query.Query{Where: query.BuildMemberPredicate(cond)})
}

// SearchPage returns one page of members matching cond. With optimizeCount
// the count query is skipped when the page alone determines the total.
func (r *MemberRepository) SearchPage(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error) {
	if err := memberSortable.Check(req.Sort); err != nil {
		return nil, err
	}
	return query.Paginate[models.MemberTeam](ctx, query.BuildMemberPredicate(cond), req, r.search, optimizeCount)
}

// SearchSlice returns one page of members matching cond without a total.
func (r *MemberRepository) SearchSlice(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest) (*query.Page[models.MemberTeam], error) {
	if err := memberSortable.Check(req.Sort); err != nil {
		return nil, err
	}
	return query.FetchSlice[models.MemberTeam](ctx, query.BuildMemberPredicate(cond), req, r.search)
}
