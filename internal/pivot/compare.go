package pivot

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// dirSign returns the multiplier for a direction, or 0 for DirectionNone
// so that an unsorted view stays stable under re-renders.
func dirSign(dir Direction) int {
	switch dir {
	case DirectionAsc:
		return 1
	case DirectionDesc:
		return -1
	}
	return 0
}

// CompareStrings compares case-insensitively after trimming. Missing
// values are treated as empty strings.
func CompareStrings(a, b string, dir Direction) int {
	sign := dirSign(dir)
	if sign == 0 {
		return 0
	}
	return sign * strings.Compare(foldString(a), foldString(b))
}

func foldString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CompareDates compares by instant. A missing timestamp sorts after any
// concrete timestamp under both directions, matching the server's
// null-flag ordering expression.
func CompareDates(a time.Time, aOK bool, b time.Time, bOK bool, dir Direction) int {
	sign := dirSign(dir)
	if sign == 0 {
		return 0
	}
	switch {
	case !aOK && !bOK:
		return 0
	case !aOK:
		return 1
	case !bOK:
		return -1
	}
	switch {
	case a.Before(b):
		return -1 * sign
	case a.After(b):
		return 1 * sign
	}
	return 0
}

// CompareTakes orders take counters. Empty values (missing, empty, or
// whitespace-only) always sort last regardless of direction. Among
// non-empty values, numeric takes order numerically and come before
// non-numeric takes; two non-numeric takes fall back to trimmed
// case-insensitive string order.
func CompareTakes(a string, aOK bool, b string, bOK bool, dir Direction) int {
	sign := dirSign(dir)
	if sign == 0 {
		return 0
	}

	at, bt := strings.TrimSpace(a), strings.TrimSpace(b)
	aEmpty, bEmpty := !aOK || at == "", !bOK || bt == ""
	switch {
	case aEmpty && bEmpty:
		return 0
	case aEmpty:
		return 1
	case bEmpty:
		return -1
	}

	an, aErr := strconv.Atoi(at)
	bn, bErr := strconv.Atoi(bt)
	switch {
	case aErr == nil && bErr == nil:
		switch {
		case an < bn:
			return -1 * sign
		case an > bn:
			return 1 * sign
		}
		return 0
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return sign * strings.Compare(strings.ToLower(at), strings.ToLower(bt))
}

// Compare orders two pivot rows under a resolved SortSpec. The
// comparator family is chosen by the physical column's suffix; every
// resolvable spec maps to exactly one family.
func Compare(a, b Row, spec SortSpec) int {
	switch {
	case spec.Column == ColumnGroup1:
		return CompareStrings(a.Group1, b.Group1, spec.Direction)
	case spec.Column == ColumnRelation:
		return CompareStrings(a.Relation, b.Relation, spec.Direction)
	case strings.HasSuffix(spec.Column, "_submitted"):
		av, aOK := a.SubmittedAt(spec.Phase)
		bv, bOK := b.SubmittedAt(spec.Phase)
		return CompareDates(av, aOK, bv, bOK, spec.Direction)
	case strings.HasSuffix(spec.Column, "_take"):
		av, aOK := a.TakeValue(spec.Phase)
		bv, bOK := b.TakeValue(spec.Phase)
		return CompareTakes(av, aOK, bv, bOK, spec.Direction)
	case strings.HasSuffix(spec.Column, "_appr"):
		av, _ := a.ApprovalStatus(spec.Phase)
		bv, _ := b.ApprovalStatus(spec.Phase)
		return CompareStrings(av, bv, spec.Direction)
	default:
		av, _ := a.WorkStatus(spec.Phase)
		bv, _ := b.WorkStatus(spec.Phase)
		return CompareStrings(av, bv, spec.Direction)
	}
}

// SortRows stably sorts rows in place under the sort rule. DirectionNone
// leaves the slice untouched.
func SortRows(rows []Row, spec SortSpec) {
	if spec.Direction == DirectionNone {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return Compare(rows[i], rows[j], spec) < 0
	})
}
