package query

import "github.com/BradenHooton/roster/internal/models"

// JoinTeam is the member -> team join.
const JoinTeam = "team"

// Member search attributes. Columns assume the member table is aliased m
// and the team table t.
var (
	MemberID       = Attribute{Name: "id", Column: "m.member_id"}
	MemberUsername = Attribute{Name: "username", Column: "m.username"}
	MemberAge      = Attribute{Name: "age", Column: "m.age"}
	TeamName       = Attribute{Name: "teamName", Column: "t.name", Join: JoinTeam}
)

// BuildMemberPredicate composes the member filters present in cond, in
// field order. It returns nil when no filter is present.
func BuildMemberPredicate(cond models.MemberSearchCondition) *Predicate {
	return And(
		EqText(MemberUsername, cond.Username),
		EqText(TeamName, cond.TeamName),
		Goe(MemberAge, cond.AgeGoe),
		Loe(MemberAge, cond.AgeLoe),
	)
}
