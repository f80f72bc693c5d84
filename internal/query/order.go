package query

import "github.com/BradenHooton/roster/internal/models"

// JoinMember is the order -> member join.
const JoinMember = "member"

// Order search attributes; orders are aliased o, members m.
var (
	OrderStatus     = Attribute{Name: "status", Column: "o.status"}
	OrderMemberName = Attribute{Name: "memberName", Column: "m.username", Join: JoinMember}
)

// BuildOrderPredicate composes the order filters present in search.
func BuildOrderPredicate(search models.OrderSearch) *Predicate {
	return And(
		Eq(OrderStatus, search.Status),
		Contains(OrderMemberName, search.MemberName),
	)
}
