package main

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
)

type fakeTeams struct {
	existing map[string]int64
	created  []string
}

func (f *fakeTeams) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	if id, ok := f.existing[name]; ok {
		return &models.Team{ID: id, Name: name}, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeTeams) CreateTeam(ctx context.Context, name string) (*models.Team, error) {
	f.created = append(f.created, name)
	id := int64(100 + len(f.created))
	f.existing[name] = id
	return &models.Team{ID: id, Name: name}, nil
}

type fakeMembers struct {
	members    []*models.Member
	principals []string
	failAt     int
}

func (f *fakeMembers) CreateMember(ctx context.Context, m *models.Member) (*models.Member, error) {
	if f.failAt > 0 && len(f.members) == f.failAt {
		return nil, models.ErrInternalServer
	}
	f.members = append(f.members, m)
	f.principals = append(f.principals, auth.PrincipalFromContext(ctx))
	return m, nil
}

func TestSeedRoster(t *testing.T) {
	teams := &fakeTeams{existing: map[string]int64{"teamA": 1}}
	members := &fakeMembers{}

	n, err := seedRoster(context.Background(), teams, members, 4)
	require.NoError(t, err)

	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"teamB"}, teams.created)
	require.Len(t, members.members, 4)
	assert.Equal(t, "member3", members.members[3].Username)
	assert.Equal(t, 3, members.members[3].Age)
	assert.Equal(t, int64(1), *members.members[0].TeamID)
	assert.Equal(t, int64(101), *members.members[1].TeamID)
	assert.Equal(t, []string{auth.SystemPrincipal, auth.SystemPrincipal, auth.SystemPrincipal, auth.SystemPrincipal}, members.principals)
}

func TestSeedRoster_StopsOnError(t *testing.T) {
	members := &fakeMembers{failAt: 2}

	n, err := seedRoster(context.Background(), &fakeTeams{existing: map[string]int64{}}, members, 5)

	assert.Equal(t, 2, n)
	assert.True(t, errors.Is(err, models.ErrInternalServer))
}

func TestParseSortFlags(t *testing.T) {
	orders, err := parseSortFlags([]string{"username:desc", "age"})
	require.NoError(t, err)
	assert.Equal(t, []query.Order{
		{Property: "username", Direction: query.Desc},
		{Property: "age", Direction: query.Asc},
	}, orders)

	_, err = parseSortFlags([]string{"age:sideways"})
	assert.ErrorIs(t, err, query.ErrInvalidPageRequest)
}

func TestClampSize(t *testing.T) {
	assert.Equal(t, 20, clampSize(20, 2000))
	assert.Equal(t, 2000, clampSize(2000, 2000))
	assert.Equal(t, 2000, clampSize(math.MaxInt, 2000))
	assert.Equal(t, 0, clampSize(0, 2000))
	assert.Equal(t, 5000, clampSize(5000, 0))

	req := query.NewPageRequest(0, clampSize(math.MaxInt, 2000))
	require.NoError(t, req.Validate())
	assert.Equal(t, 2000, req.Size)
}

func TestPrintMemberPageTable(t *testing.T) {
	total := int64(5)
	team := "teamA"
	page := &query.Page[models.MemberTeam]{
		Content: []models.MemberTeam{
			{MemberID: 4, Username: "member4", Age: 4, TeamName: &team},
			{MemberID: 5, Username: "member5", Age: 5},
		},
		TotalElements: &total,
		Index:         1,
		Size:          3,
	}

	var buf bytes.Buffer
	printMemberPageTable(&buf, page)

	out := buf.String()
	assert.Regexp(t, `member4\s+4\s+teamA`, out)
	assert.Regexp(t, `member5\s+5\s+-`, out)
	assert.Contains(t, out, "page 2 of 2, 5 total (count skipped)")
}
