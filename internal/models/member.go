package models

// Team groups members.
type Team struct {
	ID   int64
	Name string
	Audit
}

// Member belongs to at most one team.
type Member struct {
	ID       int64
	Username string
	Age      int
	TeamID   *int64
	Audit
}

// MemberTeam is the flattened member/team projection returned by searches.
// TeamID and TeamName are nil for members without a team.
type MemberTeam struct {
	MemberID int64
	Username string
	Age      int
	TeamID   *int64
	TeamName *string
}

// MemberSearchCondition holds optional member filters. Blank strings and
// nil bounds mean no constraint on that field.
type MemberSearchCondition struct {
	Username string
	TeamName string
	AgeGoe   *int
	AgeLoe   *int
}
