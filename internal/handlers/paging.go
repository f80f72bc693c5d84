package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
)

// PagingParams configures page parsing. Sizes above MaxSize are clamped.
type PagingParams struct {
	DefaultSize int
	MaxSize     int
}

// parsePageRequest reads page, size and sort from the query string.
//
// sort may repeat and takes the form "property[,property...][,asc|desc]",
// the direction applying to every property in the same parameter.
// Range checks are left to PageRequest.Validate.
func parsePageRequest(r *http.Request, params PagingParams) (query.PageRequest, error) {
	index, err := pkghttp.QueryInt(r, "page", 0)
	if err != nil {
		return query.PageRequest{}, fmt.Errorf("%w: %v", query.ErrInvalidPageRequest, err)
	}

	size, err := pkghttp.QueryInt(r, "size", params.DefaultSize)
	if err != nil {
		return query.PageRequest{}, fmt.Errorf("%w: %v", query.ErrInvalidPageRequest, err)
	}
	if params.MaxSize > 0 && size > params.MaxSize {
		size = params.MaxSize
	}

	var orders []query.Order
	for _, raw := range pkghttp.QueryValues(r, "sort") {
		parsed, err := parseSort(raw)
		if err != nil {
			return query.PageRequest{}, err
		}
		orders = append(orders, parsed...)
	}

	req := query.NewPageRequest(index, size, orders...)
	return req, req.Validate()
}

func parseSort(raw string) ([]query.Order, error) {
	parts := strings.Split(raw, ",")
	dir := query.Asc
	if last := strings.TrimSpace(parts[len(parts)-1]); len(parts) > 1 {
		if d, err := query.ParseDirection(last); err == nil {
			dir = d
			parts = parts[:len(parts)-1]
		}
	}

	orders := make([]query.Order, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%w: empty sort property in %q", query.ErrInvalidPageRequest, raw)
		}
		orders = append(orders, query.Order{Property: p, Direction: dir})
	}
	return orders, nil
}

// parseMemberCondition reads username, teamName, ageGoe and ageLoe.
func parseMemberCondition(r *http.Request) (models.MemberSearchCondition, error) {
	ageGoe, err := pkghttp.QueryIntPtr(r, "ageGoe")
	if err != nil {
		return models.MemberSearchCondition{}, err
	}
	ageLoe, err := pkghttp.QueryIntPtr(r, "ageLoe")
	if err != nil {
		return models.MemberSearchCondition{}, err
	}

	return models.MemberSearchCondition{
		Username: pkghttp.QueryString(r, "username"),
		TeamName: pkghttp.QueryString(r, "teamName"),
		AgeGoe:   ageGoe,
		AgeLoe:   ageLoe,
	}, nil
}

// PageResponse is the JSON shape of a page. TotalElements and TotalPages
// are omitted for slices, whose total is unknown.
type PageResponse[T any] struct {
	Content          []T         `json:"content"`
	TotalElements    *int64      `json:"total_elements,omitempty"`
	TotalPages       *int        `json:"total_pages,omitempty"`
	Number           int         `json:"number"`
	Size             int         `json:"size"`
	NumberOfElements int         `json:"number_of_elements"`
	Sort             []SortOrder `json:"sort"`
	First            bool        `json:"first"`
	Last             bool        `json:"last"`
	HasNext          bool        `json:"has_next"`
}

type SortOrder struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

func toPageResponse[T, U any](page *query.Page[T], convert func(T) U) PageResponse[U] {
	mapped := query.MapPage(page, convert)

	resp := PageResponse[U]{
		Content:          mapped.Content,
		TotalElements:    mapped.TotalElements,
		Number:           mapped.Index,
		Size:             mapped.Size,
		NumberOfElements: mapped.NumberOfElements(),
		Sort:             make([]SortOrder, 0, len(mapped.Sort)),
		First:            mapped.IsFirst(),
		Last:             mapped.IsLast(),
		HasNext:          mapped.HasNext(),
	}
	if mapped.TotalElements != nil {
		pages := mapped.TotalPages()
		resp.TotalPages = &pages
	}
	for _, o := range mapped.Sort {
		resp.Sort = append(resp.Sort, SortOrder{Property: o.Property, Direction: string(o.Direction)})
	}
	return resp
}
