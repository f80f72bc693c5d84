package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/roster/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPaging = PagingParams{DefaultSize: 20, MaxSize: 100}

func TestParsePageRequest_Defaults(t *testing.T) {
	req, err := parsePageRequest(httptest.NewRequest("GET", "/v2/members", nil), testPaging)
	require.NoError(t, err)

	assert.Equal(t, 0, req.Index)
	assert.Equal(t, 20, req.Size)
	assert.Empty(t, req.Sort)
}

func TestParsePageRequest_SortForms(t *testing.T) {
	r := httptest.NewRequest("GET", "/v2/members?page=2&size=5&sort=username,desc&sort=age&sort=teamName,id,ASC", nil)

	req, err := parsePageRequest(r, testPaging)
	require.NoError(t, err)

	assert.Equal(t, 2, req.Index)
	assert.Equal(t, 5, req.Size)
	assert.Equal(t, []query.Order{
		{Property: "username", Direction: query.Desc},
		{Property: "age", Direction: query.Asc},
		{Property: "teamName", Direction: query.Asc},
		{Property: "id", Direction: query.Asc},
	}, req.Sort)
}

func TestParsePageRequest_ClampsSize(t *testing.T) {
	req, err := parsePageRequest(httptest.NewRequest("GET", "/?size=5000", nil), testPaging)
	require.NoError(t, err)
	assert.Equal(t, 100, req.Size)
}

func TestParsePageRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"negative page", "/?page=-1"},
		{"zero size", "/?size=0"},
		{"non-numeric page", "/?page=two"},
		{"empty sort property", "/?sort=username,,desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePageRequest(httptest.NewRequest("GET", tt.url, nil), testPaging)
			assert.ErrorIs(t, err, query.ErrInvalidPageRequest)
		})
	}
}

func TestParseMemberCondition(t *testing.T) {
	r := httptest.NewRequest("GET", "/?username=member1&teamName=teamA&ageGoe=10&ageLoe=40", nil)

	cond, err := parseMemberCondition(r)
	require.NoError(t, err)

	assert.Equal(t, "member1", cond.Username)
	assert.Equal(t, "teamA", cond.TeamName)
	require.NotNil(t, cond.AgeGoe)
	require.NotNil(t, cond.AgeLoe)
	assert.Equal(t, 10, *cond.AgeGoe)
	assert.Equal(t, 40, *cond.AgeLoe)

	empty, err := parseMemberCondition(httptest.NewRequest("GET", "/?ageGoe=", nil))
	require.NoError(t, err)
	assert.Nil(t, empty.AgeGoe)

	_, err = parseMemberCondition(httptest.NewRequest("GET", "/?ageLoe=old", nil))
	assert.Error(t, err)
}

func TestToPageResponse_SliceOmitsTotals(t *testing.T) {
	page := &query.Page[int]{Content: []int{1, 2}, Index: 1, Size: 2}

	resp := toPageResponse(page, func(v int) int { return v * 10 })

	assert.Equal(t, []int{10, 20}, resp.Content)
	assert.Nil(t, resp.TotalElements)
	assert.Nil(t, resp.TotalPages)
	assert.False(t, resp.First)
	assert.Equal(t, 2, resp.NumberOfElements)
	assert.NotNil(t, resp.Sort)
}

func TestValidateRequest_UsesJSONNames(t *testing.T) {
	err := ValidateRequest(CreateMemberRequest{Age: -1})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "username: this field is required")
	assert.Contains(t, err.Error(), "age: must be greater than or equal to 0")
}
