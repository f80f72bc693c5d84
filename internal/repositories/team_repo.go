package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/roster/internal/database"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeamRepository struct {
	pool *pgxpool.Pool
}

func NewTeamRepository(db *database.DB) *TeamRepository {
	return &TeamRepository{pool: db.Pool}
}

const teamColumns = "team_id, name, " + auditColumns

func scanTeamRow(scanner rowScanner) (*models.Team, error) {
	var team models.Team

	dest := append([]interface{}{&team.ID, &team.Name}, auditDest(&team.Audit)...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &team, nil
}

func scanTeamRows(rows pgx.Rows) ([]*models.Team, error) {
	defer rows.Close()

	teams := make([]*models.Team, 0)

	for rows.Next() {
		team, err := scanTeamRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}

	return teams, nil
}

// Create inserts team. A duplicate name maps to models.ErrConflict.
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) (*models.Team, error) {
	stampWrite(ctx, &team.Audit)

	query := `
		INSERT INTO team (name, created_at, updated_at, created_by, last_modified_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + teamColumns

	return scanTeamRow(r.pool.QueryRow(ctx, query,
		team.Name, team.CreatedAt, team.UpdatedAt, team.CreatedBy, team.LastModifiedBy,
	))
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM team WHERE team_id = $1`

	return scanTeamRow(r.pool.QueryRow(ctx, query, id))
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM team WHERE name = $1`

	return scanTeamRow(r.pool.QueryRow(ctx, query, name))
}

func (r *TeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM team ORDER BY team_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}

	return scanTeamRows(rows)
}
