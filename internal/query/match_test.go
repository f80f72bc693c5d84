package query

import (
	"reflect"
	"strings"
	"time"

	"github.com/BradenHooton/roster/internal/models"
)

// attrOf resolves an attribute name against an in-memory row. ok is false
// when the value is NULL, for example a member without a team.
func attrOf(row any, name string) (any, bool) {
	switch r := row.(type) {
	case models.MemberTeam:
		switch name {
		case "id", "memberId":
			return r.MemberID, true
		case "username":
			return r.Username, true
		case "age":
			return r.Age, true
		case "teamId":
			if r.TeamID == nil {
				return nil, false
			}
			return *r.TeamID, true
		case "teamName":
			if r.TeamName == nil {
				return nil, false
			}
			return *r.TeamName, true
		}
	case models.OrderSummary:
		switch name {
		case "id", "orderId":
			return r.OrderID, true
		case "memberId":
			return r.MemberID, true
		case "memberName":
			return r.MemberName, true
		case "status":
			return r.Status, true
		case "orderDate":
			return r.OrderDate, true
		}
	}
	return nil, false
}

// matches evaluates p against row the way the SQL rendering of p would. A
// nil predicate matches everything; a fragment over a NULL never matches.
func matches(p *Predicate, row any) bool {
	for _, f := range p.Fragments() {
		if !fragmentMatches(f, row) {
			return false
		}
	}
	return true
}

func fragmentMatches(f Fragment, row any) bool {
	v, ok := attrOf(row, f.Attr.Name)
	if !ok {
		return false
	}
	switch f.Op {
	case OpEq:
		c, ok := compare(v, f.Value)
		return ok && c == 0
	case OpGoe:
		c, ok := compare(v, f.Value)
		return ok && c >= 0
	case OpLoe:
		c, ok := compare(v, f.Value)
		return ok && c <= 0
	case OpContains:
		s, ok := normalize(v).(string)
		return ok && strings.Contains(s, f.Value.(string))
	case OpIn:
		s, ok := normalize(v).(string)
		if !ok {
			return false
		}
		for _, candidate := range f.Value.([]string) {
			if candidate == s {
				return true
			}
		}
		return false
	}
	return false
}

// normalize folds named string and integer types onto string and int64.
func normalize(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int64(rv.Uint())
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// compare orders a against b. ok is false when the values are not
// comparable with each other.
func compare(a, b any) (int, bool) {
	switch x := normalize(a).(type) {
	case string:
		y, ok := normalize(b).(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case int64:
		y, ok := normalize(b).(int64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case time.Time:
		y, ok := normalize(b).(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	}
	return 0, false
}
