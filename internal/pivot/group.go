package pivot

import (
	"sort"
	"strings"
)

// UnassignedGroup is the bucket for rows with no group name.
const UnassignedGroup = "unassigned"

// VisibilityPolicy controls whether a pinned group with no rows on the
// current page is emitted.
type VisibilityPolicy string

const (
	// ShowEmptyFirstPage shows empty pinned groups on page 0 only.
	ShowEmptyFirstPage VisibilityPolicy = "firstPageOnly"
	// ShowEmptyAlways shows empty pinned groups on every page.
	ShowEmptyAlways VisibilityPolicy = "always"
	// ShowEmptyNever hides pinned groups until they have a row.
	ShowEmptyNever VisibilityPolicy = "never"
)

// ParseVisibilityPolicy defaults to ShowEmptyFirstPage.
func ParseVisibilityPolicy(s string) VisibilityPolicy {
	switch VisibilityPolicy(strings.TrimSpace(s)) {
	case ShowEmptyAlways:
		return ShowEmptyAlways
	case ShowEmptyNever:
		return ShowEmptyNever
	}
	return ShowEmptyFirstPage
}

// NormalizeGroupName trims and lower-cases a group name; rows without a
// name land in the unassigned bucket.
func NormalizeGroupName(s string) string {
	n := strings.ToLower(strings.TrimSpace(s))
	if n == "" {
		return UnassignedGroup
	}
	return n
}

// BucketRows buckets rows by normalized group name, preserving row order
// within each bucket. Both the authoritative and fallback grouping paths
// go through this one function so they cannot drift apart.
func BucketRows(rows []Row) map[string][]Row {
	buckets := make(map[string][]Row)
	for _, r := range rows {
		name := NormalizeGroupName(r.Group1)
		buckets[name] = append(buckets[name], r)
	}
	return buckets
}

// Assemble merges grouped results into the final ordered display list.
// Server groups are authoritative when present; otherwise rows are
// bucketed client-side. Pinned groups come first in the exact order
// given, then remaining groups in lexicographic name order. page is
// 0-based here: the visibility policy only distinguishes the first page.
func Assemble(serverGroups []Group, fallbackRows []Row, page int, pinned []string, policy VisibilityPolicy) []Group {
	byName := make(map[string]Group)
	if len(serverGroups) > 0 {
		for _, g := range serverGroups {
			name := NormalizeGroupName(g.Name)
			byName[name] = Group{Name: name, Total: g.Total, Rows: g.Rows}
		}
	} else {
		for name, rows := range BucketRows(fallbackRows) {
			byName[name] = Group{Name: name, Total: len(rows), Rows: rows}
		}
	}

	var out []Group
	seen := make(map[string]bool)
	for _, raw := range pinned {
		name := NormalizeGroupName(raw)
		if seen[name] {
			continue
		}
		seen[name] = true
		g, ok := byName[name]
		if !ok {
			g = Group{Name: name}
		}
		if len(g.Rows) == 0 && !showEmptyPinned(policy, page) {
			continue
		}
		out = append(out, g)
	}

	var rest []string
	for name := range byName {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, byName[name])
	}
	return out
}

func showEmptyPinned(policy VisibilityPolicy, page int) bool {
	switch policy {
	case ShowEmptyAlways:
		return true
	case ShowEmptyNever:
		return false
	}
	return page == 0
}

// CollapseSet tracks per-group collapse state keyed by normalized group
// name. Groups default to expanded; toggling one group never touches the
// others.
type CollapseSet map[string]bool

// Collapsed reports whether the named group is collapsed.
func (c CollapseSet) Collapsed(name string) bool {
	return c[NormalizeGroupName(name)]
}

// Toggle flips the named group's collapse state and reports the new one.
func (c CollapseSet) Toggle(name string) bool {
	key := NormalizeGroupName(name)
	c[key] = !c[key]
	return c[key]
}
