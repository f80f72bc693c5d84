package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/database"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type MemberRepository struct {
	pool   *pgxpool.Pool
	list   memberExecutor
	search memberTeamExecutor
}

func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{
		pool:   db.Pool,
		list:   memberExecutor{pool: db.Pool},
		search: memberTeamExecutor{pool: db.Pool},
	}
}

const memberColumns = "member_id, username, age, team_id, " + auditColumns

// scanMemberRow populates a Member model from a database row
func scanMemberRow(scanner rowScanner) (*models.Member, error) {
	var member models.Member

	dest := append([]interface{}{&member.ID, &member.Username, &member.Age, &member.TeamID}, auditDest(&member.Audit)...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &member, nil
}

// scanMemberRows iterates through rows and scans each into Member models
func scanMemberRows(rows pgx.Rows) ([]*models.Member, error) {
	defer rows.Close()

	members := make([]*models.Member, 0)

	for rows.Next() {
		member, err := scanMemberRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}

// Create inserts member. An unknown team maps to models.ErrBadRequest.
func (r *MemberRepository) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	stampWrite(ctx, &member.Audit)

	sql := `
		INSERT INTO member (username, age, team_id, created_at, updated_at, created_by, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + memberColumns

	return scanMemberRow(r.pool.QueryRow(ctx, sql,
		member.Username, member.Age, member.TeamID,
		member.CreatedAt, member.UpdatedAt, member.CreatedBy, member.LastModifiedBy,
	))
}

func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	sql := `SELECT ` + memberColumns + ` FROM member WHERE member_id = $1`

	return scanMemberRow(r.pool.QueryRow(ctx, sql, id))
}

// memberExecutor pages through plain member rows.
type memberExecutor struct {
	pool *pgxpool.Pool
}

// buildMemberListSQL renders q over the member table alone, ordered by id.
func buildMemberListSQL(q query.Query) (string, []any) {
	args := &query.Args{}
	sql := `SELECT ` + memberColumns + ` FROM member m` + query.Where(q.Where, args) + ` ORDER BY m.member_id`
	if q.Limit > 0 {
		sql += " LIMIT " + args.Add(q.Limit)
	}
	if q.Offset > 0 {
		sql += " OFFSET " + args.Add(q.Offset)
	}
	return sql, args.Values()
}

func (e memberExecutor) Fetch(ctx context.Context, q query.Query) ([]*models.Member, error) {
	sql, args := buildMemberListSQL(q)

	rows, err := e.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}

	return scanMemberRows(rows)
}

func (e memberExecutor) Count(ctx context.Context, where *query.Predicate) (int64, error) {
	args := &query.Args{}
	sql := `SELECT COUNT(*) FROM member m` + query.Where(where, args)

	var total int64
	if err := e.pool.QueryRow(ctx, sql, args.Values()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return total, nil
}

// ListPage pages through every member by id, always counting. Sort orders
// in req are ignored.
func (r *MemberRepository) ListPage(ctx context.Context, req query.PageRequest) (*query.Page[*models.Member], error) {
	req.Sort = nil
	return query.Paginate[*models.Member](ctx, nil, req, r.list, false)
}

func (r *MemberRepository) Delete(ctx context.Context, id int64) error {
	sql := `DELETE FROM member WHERE member_id = $1`

	result, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ChangeTeam moves a member to teamID, or out of any team when teamID is nil.
func (r *MemberRepository) ChangeTeam(ctx context.Context, id int64, teamID *int64) (*models.Member, error) {
	sql := `
		UPDATE member SET team_id = $1, updated_at = NOW(), last_modified_by = $2
		WHERE member_id = $3
		RETURNING ` + memberColumns

	return scanMemberRow(r.pool.QueryRow(ctx, sql, teamID, auth.PrincipalFromContext(ctx), id))
}

func (r *MemberRepository) FindByUsername(ctx context.Context, username string) ([]*models.Member, error) {
	sql := `SELECT ` + memberColumns + ` FROM member WHERE username = $1 ORDER BY member_id`

	rows, err := r.pool.Query(ctx, sql, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query members by username: %w", err)
	}

	return scanMemberRows(rows)
}

func (r *MemberRepository) FindByUsernameAndAgeGreaterThan(ctx context.Context, username string, age int) ([]*models.Member, error) {
	sql := `SELECT ` + memberColumns + ` FROM member WHERE username = $1 AND age > $2 ORDER BY member_id`

	rows, err := r.pool.Query(ctx, sql, username, age)
	if err != nil {
		return nil, fmt.Errorf("failed to query members by username and age: %w", err)
	}

	return scanMemberRows(rows)
}

// FindByNames returns members whose username is any of names.
func (r *MemberRepository) FindByNames(ctx context.Context, names []string) ([]*models.Member, error) {
	if len(names) == 0 {
		return []*models.Member{}, nil
	}

	sql := `SELECT ` + memberColumns + ` FROM member WHERE username = ANY($1) ORDER BY member_id`

	rows, err := r.pool.Query(ctx, sql, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("failed to query members by names: %w", err)
	}

	return scanMemberRows(rows)
}

func (r *MemberRepository) FindUsernames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT username FROM member ORDER BY member_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query usernames: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating username rows: %w", err)
	}

	return names, nil
}

// BulkAgePlus adds one year to every member aged age or older and returns
// the number of rows changed.
func (r *MemberRepository) BulkAgePlus(ctx context.Context, age int) (int64, error) {
	sql := `
		UPDATE member SET age = age + 1, updated_at = NOW(), last_modified_by = $1
		WHERE age >= $2
	`

	result, err := r.pool.Exec(ctx, sql, auth.PrincipalFromContext(ctx), age)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return result.RowsAffected(), nil
}

// FindMemberTeams returns members that belong to a team, joined with it.
func (r *MemberRepository) FindMemberTeams(ctx context.Context) ([]models.MemberTeam, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.member_id, m.username, m.age, t.team_id, t.name
		FROM member m JOIN team t ON t.team_id = m.team_id
		ORDER BY m.member_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query member teams: %w", err)
	}

	return scanMemberTeamRows(rows)
}

