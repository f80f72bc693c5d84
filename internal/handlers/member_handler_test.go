package handlers_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/roster/internal/handlers"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paging = handlers.PagingParams{DefaultSize: 20, MaxSize: 2000}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func total(v int64) *int64 { return &v }

func TestSearchV1_PassesCondition(t *testing.T) {
	var got models.MemberSearchCondition
	mockService := &handlers.MockMemberService{
		SearchFunc: func(ctx context.Context, cond models.MemberSearchCondition) ([]models.MemberTeam, error) {
			got = cond
			return []models.MemberTeam{
				{MemberID: 4, Username: "member4", Age: 40, TeamID: int64Ptr(2), TeamName: strPtr("teamB")},
			}, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService, paging)
	req := handlers.NewTestRequest(t, "GET", "/v1/members?teamName=teamB&ageGoe=35&ageLoe=40", nil)
	w := httptest.NewRecorder()
	handler.SearchV1(w, req)

	var resp []handlers.MemberTeamResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, "member4", resp[0].Username)
	assert.Equal(t, "teamB", *resp[0].TeamName)
	assert.Equal(t, "teamB", got.TeamName)
	assert.Equal(t, 35, *got.AgeGoe)
	assert.Equal(t, 40, *got.AgeLoe)
}

func TestSearchV1_BadAge(t *testing.T) {
	handler := handlers.NewMemberHandler(&handlers.MockMemberService{}, paging)
	req := handlers.NewTestRequest(t, "GET", "/v1/members?ageGoe=ten", nil)
	w := httptest.NewRecorder()
	handler.SearchV1(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestSearchV2_AlwaysCounts(t *testing.T) {
	var optimize *bool
	mockService := &handlers.MockMemberService{
		SearchPageFunc: func(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error) {
			optimize = &optimizeCount
			assert.Equal(t, 1, req.Index)
			assert.Equal(t, 3, req.Size)
			return &query.Page[models.MemberTeam]{
				Content:       []models.MemberTeam{{MemberID: 4, Username: "member4", Age: 4}, {MemberID: 5, Username: "member5", Age: 5}},
				TotalElements: total(5),
				Index:         1,
				Size:          3,
				Counted:       true,
			}, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService, paging)
	req := handlers.NewTestRequest(t, "GET", "/v2/members?page=1&size=3", nil)
	w := httptest.NewRecorder()
	handler.SearchV2(w, req)

	var resp handlers.PageResponse[handlers.MemberTeamResponse]
	handlers.AssertJSONResponse(t, w, 200, &resp)
	require.NotNil(t, optimize)
	assert.False(t, *optimize)
	assert.Len(t, resp.Content, 2)
	assert.Equal(t, int64(5), *resp.TotalElements)
	assert.Equal(t, 2, *resp.TotalPages)
	assert.Equal(t, 1, resp.Number)
	assert.True(t, resp.Last)
	assert.False(t, resp.HasNext)
}

func TestSearchV3_OptimizesCount(t *testing.T) {
	var optimize bool
	mockService := &handlers.MockMemberService{
		SearchPageFunc: func(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error) {
			optimize = optimizeCount
			return &query.Page[models.MemberTeam]{Content: []models.MemberTeam{}, TotalElements: total(0), Size: req.Size}, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService, paging)
	w := httptest.NewRecorder()
	handler.SearchV3(w, handlers.NewTestRequest(t, "GET", "/v3/members", nil))

	var resp handlers.PageResponse[handlers.MemberTeamResponse]
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, optimize)
	assert.NotNil(t, resp.Content)
	assert.Equal(t, 20, resp.Size)
}

func TestSearchV2_InvalidPageNeverReachesService(t *testing.T) {
	called := false
	mockService := &handlers.MockMemberService{
		SearchPageFunc: func(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error) {
			called = true
			return nil, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService, paging)
	w := httptest.NewRecorder()
	handler.SearchV2(w, handlers.NewTestRequest(t, "GET", "/v2/members?page=-1", nil))

	handlers.AssertErrorResponse(t, w, 400, "invalid_page_request")
	assert.False(t, called)
}

func TestSearchV2_UnknownSortProperty(t *testing.T) {
	mockService := &handlers.MockMemberService{
		SearchPageFunc: func(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error) {
			return nil, query.ErrInvalidPageRequest
		},
	}

	handler := handlers.NewMemberHandler(mockService, paging)
	w := httptest.NewRecorder()
	handler.SearchV2(w, handlers.NewTestRequest(t, "GET", "/v2/members?sort=password", nil))

	handlers.AssertErrorResponse(t, w, 400, "invalid_page_request")
}

func TestSearchSlice_NoTotals(t *testing.T) {
	mockService := &handlers.MockMemberService{
		SearchSliceFunc: func(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest) (*query.Page[models.MemberTeam], error) {
			assert.Equal(t, []query.Order{{Property: "age", Direction: query.Desc}}, req.Sort)
			return &query.Page[models.MemberTeam]{Content: []models.MemberTeam{{MemberID: 1, Username: "member1"}}, Size: 1}, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService, paging)
	w := httptest.NewRecorder()
	handler.SearchSlice(w, handlers.NewTestRequest(t, "GET", "/v1/members/slice?size=1&sort=age,desc", nil))

	var body map[string]any
	handlers.AssertJSONResponse(t, w, 200, &body)
	assert.NotContains(t, body, "total_elements")
	assert.NotContains(t, body, "total_pages")
	assert.Equal(t, false, body["has_next"])
}

func TestSearchPage_InternalError(t *testing.T) {
	mockService := &handlers.MockMemberService{
		SearchPageFunc: func(ctx context.Context, cond models.MemberSearchCondition, req query.PageRequest, optimizeCount bool) (*query.Page[models.MemberTeam], error) {
			return nil, models.ErrInternalServer
		},
	}

	handler := handlers.NewMemberHandler(mockService, paging)
	w := httptest.NewRecorder()
	handler.SearchV3(w, handlers.NewTestRequest(t, "GET", "/v3/members", nil))

	handlers.AssertErrorResponse(t, w, 500, "internal_error")
}

func TestCreateMember(t *testing.T) {
	mockService := &handlers.MockMemberService{
		CreateMemberFunc: func(ctx context.Context, member *models.Member) (*models.Member, error) {
			member.ID = 9
			member.Audit.Touch("system", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
			return member, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService, paging)
	req := handlers.NewTestRequest(t, "POST", "/members", handlers.CreateMemberRequest{Username: "member9", Age: 9, TeamID: int64Ptr(1)})
	w := httptest.NewRecorder()
	handler.CreateMember(w, req)

	var resp handlers.MemberResponse
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.Equal(t, int64(9), resp.ID)
	assert.Equal(t, "member9", resp.Username)
	assert.Equal(t, int64(1), *resp.TeamID)
	assert.Equal(t, "system", resp.CreatedBy)
	assert.Equal(t, "2024-01-02T03:04:05Z", resp.CreatedAt)
}

func TestCreateMember_ValidationAndErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"missing username", handlers.CreateMemberRequest{Age: 3}, nil, 400, "bad_request"},
		{"negative age", handlers.CreateMemberRequest{Username: "x", Age: -3}, nil, 400, "bad_request"},
		{"malformed body", "not-an-object", nil, 400, "bad_request"},
		{"unknown team", handlers.CreateMemberRequest{Username: "x", TeamID: int64Ptr(99)}, models.ErrBadRequest, 400, "bad_request"},
		{"internal", handlers.CreateMemberRequest{Username: "x"}, models.ErrInternalServer, 500, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &handlers.MockMemberService{
				CreateMemberFunc: func(ctx context.Context, member *models.Member) (*models.Member, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return member, nil
				},
			}

			handler := handlers.NewMemberHandler(mockService, paging)
			w := httptest.NewRecorder()
			handler.CreateMember(w, handlers.NewTestRequest(t, "POST", "/members", tt.body))

			handlers.AssertErrorResponse(t, w, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestGetMember(t *testing.T) {
	mockService := &handlers.MockMemberService{
		GetMemberFunc: func(ctx context.Context, id int64) (*models.Member, error) {
			if id == 1 {
				return &models.Member{ID: 1, Username: "member1", Age: 10}, nil
			}
			return nil, models.ErrNotFound
		},
	}
	handler := handlers.NewMemberHandler(mockService, paging)

	req := handlers.WithChiRouteContext(handlers.NewTestRequest(t, "GET", "/members/1", nil), map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	handler.GetMember(w, req)

	var resp handlers.MemberResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "member1", resp.Username)
	assert.Nil(t, resp.TeamID)

	req = handlers.WithChiRouteContext(handlers.NewTestRequest(t, "GET", "/members/2", nil), map[string]string{"id": "2"})
	w = httptest.NewRecorder()
	handler.GetMember(w, req)
	handlers.AssertErrorResponse(t, w, 404, "not_found")

	req = handlers.WithChiRouteContext(handlers.NewTestRequest(t, "GET", "/members/abc", nil), map[string]string{"id": "abc"})
	w = httptest.NewRecorder()
	handler.GetMember(w, req)
	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestListMembers_DropsSort(t *testing.T) {
	mockService := &handlers.MockMemberService{
		ListMembersFunc: func(ctx context.Context, req query.PageRequest) (*query.Page[*models.Member], error) {
			assert.Empty(t, req.Sort)
			return &query.Page[*models.Member]{
				Content:       []*models.Member{{ID: 1, Username: "member1"}},
				TotalElements: total(3),
				Size:          req.Size,
				Counted:       true,
			}, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService, paging)
	w := httptest.NewRecorder()
	handler.ListMembers(w, handlers.NewTestRequest(t, "GET", "/members?size=1&sort=age,desc", nil))

	var resp handlers.PageResponse[handlers.MemberResponse]
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, 3, *resp.TotalPages)
	assert.True(t, resp.HasNext)
}

func TestChangeTeam(t *testing.T) {
	var gotTeam *int64
	mockService := &handlers.MockMemberService{
		ChangeTeamFunc: func(ctx context.Context, id int64, teamID *int64) (*models.Member, error) {
			gotTeam = teamID
			return &models.Member{ID: id, Username: "member1", TeamID: teamID}, nil
		},
	}
	handler := handlers.NewMemberHandler(mockService, paging)

	req := handlers.NewTestRequest(t, "PUT", "/members/1/team", map[string]any{"team_id": 2})
	req = handlers.WithChiRouteContext(req, map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	handler.ChangeTeam(w, req)

	var resp handlers.MemberResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	require.NotNil(t, gotTeam)
	assert.Equal(t, int64(2), *gotTeam)

	req = handlers.NewTestRequest(t, "PUT", "/members/1/team", map[string]any{"team_id": nil})
	req = handlers.WithChiRouteContext(req, map[string]string{"id": "1"})
	w = httptest.NewRecorder()
	handler.ChangeTeam(w, req)

	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Nil(t, gotTeam)
	assert.Nil(t, resp.TeamID)
}

func TestDeleteMember(t *testing.T) {
	mockService := &handlers.MockMemberService{
		DeleteMemberFunc: func(ctx context.Context, id int64) error {
			if id == 404 {
				return models.ErrNotFound
			}
			return nil
		},
	}
	handler := handlers.NewMemberHandler(mockService, paging)

	req := handlers.WithChiRouteContext(handlers.NewTestRequest(t, "DELETE", "/members/1", nil), map[string]string{"id": "1"})
	w := httptest.NewRecorder()
	handler.DeleteMember(w, req)
	assert.Equal(t, 204, w.Code)

	req = handlers.WithChiRouteContext(handlers.NewTestRequest(t, "DELETE", "/members/404", nil), map[string]string{"id": "404"})
	w = httptest.NewRecorder()
	handler.DeleteMember(w, req)
	handlers.AssertErrorResponse(t, w, 404, "not_found")
}

func TestBulkAgePlus(t *testing.T) {
	mockService := &handlers.MockMemberService{
		BulkAgePlusFunc: func(ctx context.Context, age int) (int64, error) {
			assert.Equal(t, 0, age)
			return 4, nil
		},
	}
	handler := handlers.NewMemberHandler(mockService, paging)

	w := httptest.NewRecorder()
	handler.BulkAgePlus(w, handlers.NewTestRequest(t, "POST", "/members/bulk-age", map[string]any{"age": 0}))

	var resp handlers.BulkAgeResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, int64(4), resp.Updated)

	w = httptest.NewRecorder()
	handler.BulkAgePlus(w, handlers.NewTestRequest(t, "POST", "/members/bulk-age", map[string]any{}))
	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestFindByNamesAndUsernames(t *testing.T) {
	mockService := &handlers.MockMemberService{
		FindByNamesFunc: func(ctx context.Context, names []string) ([]*models.Member, error) {
			assert.Equal(t, []string{"member1", "member2"}, names)
			return []*models.Member{{ID: 1, Username: "member1"}}, nil
		},
		FindUsernamesFunc: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("ignored by handler")
		},
	}
	handler := handlers.NewMemberHandler(mockService, paging)

	w := httptest.NewRecorder()
	handler.FindByNames(w, handlers.NewTestRequest(t, "GET", "/members/by-names?name=member1&name=member2&name=", nil))
	var found []handlers.MemberResponse
	handlers.AssertJSONResponse(t, w, 200, &found)
	assert.Len(t, found, 1)

	w = httptest.NewRecorder()
	handler.Usernames(w, handlers.NewTestRequest(t, "GET", "/members/usernames", nil))
	handlers.AssertErrorResponse(t, w, 500, "internal_error")
}

func TestFindByUsername(t *testing.T) {
	var gotName string
	var gotOlder *int
	mockService := &handlers.MockMemberService{
		FindByUsernameFunc: func(ctx context.Context, username string, olderThan *int) ([]*models.Member, error) {
			if username == "" {
				return nil, models.ErrBadRequest
			}
			gotName, gotOlder = username, olderThan
			return []*models.Member{{ID: 2, Username: username, Age: 20}}, nil
		},
	}
	handler := handlers.NewMemberHandler(mockService, paging)

	w := httptest.NewRecorder()
	handler.FindByUsername(w, handlers.NewTestRequest(t, "GET", "/members/by-username?username=AAA&ageGt=15", nil))
	var found []handlers.MemberResponse
	handlers.AssertJSONResponse(t, w, 200, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "AAA", gotName)
	require.NotNil(t, gotOlder)
	assert.Equal(t, 15, *gotOlder)

	w = httptest.NewRecorder()
	handler.FindByUsername(w, handlers.NewTestRequest(t, "GET", "/members/by-username?username=AAA", nil))
	handlers.AssertJSONResponse(t, w, 200, &found)
	assert.Nil(t, gotOlder)

	w = httptest.NewRecorder()
	handler.FindByUsername(w, handlers.NewTestRequest(t, "GET", "/members/by-username?username=AAA&ageGt=old", nil))
	handlers.AssertErrorResponse(t, w, 400, "bad_request")

	w = httptest.NewRecorder()
	handler.FindByUsername(w, handlers.NewTestRequest(t, "GET", "/members/by-username", nil))
	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestMemberTeams(t *testing.T) {
	mockService := &handlers.MockMemberService{
		FindMemberTeamsFunc: func(ctx context.Context) ([]models.MemberTeam, error) {
			return []models.MemberTeam{{MemberID: 1, Username: "member1", Age: 10, TeamID: int64Ptr(1), TeamName: strPtr("teamA")}}, nil
		},
	}

	w := httptest.NewRecorder()
	handlers.NewMemberHandler(mockService, paging).MemberTeams(w, handlers.NewTestRequest(t, "GET", "/members/teams", nil))

	var rows []handlers.MemberTeamResponse
	handlers.AssertJSONResponse(t, w, 200, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "teamA", *rows[0].TeamName)
}
