// Package pivot implements the sort/filter/group resolution engine for
// asset status pivot rows. Everything here is pure and synchronous except
// the Coordinator, which owns the one network boundary.
package pivot

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Phase is a short code for a workflow phase. The set is closed; adding
// a phase means adding a code here and a column set in models.
type Phase string

const (
	PhaseModel   Phase = "mdl"
	PhaseRig     Phase = "rig"
	PhaseBuild   Phase = "bld"
	PhaseDesign  Phase = "dsn"
	PhaseLookdev Phase = "ldv"

	// PhaseNone marks phase-independent sort dimensions.
	PhaseNone Phase = "none"
)

// Phases returns all workflow phases in pipeline order.
func Phases() []Phase {
	return []Phase{PhaseModel, PhaseRig, PhaseBuild, PhaseDesign, PhaseLookdev}
}

// ParsePhase matches a phase code case-insensitively.
func ParsePhase(s string) (Phase, bool) {
	p := Phase(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Phases() {
		if p == known {
			return p, true
		}
	}
	return PhaseNone, false
}

// Field is the per-phase sub-attribute being sorted or filtered.
type Field string

const (
	FieldWork      Field = "work"
	FieldAppr      Field = "appr"
	FieldSubmitted Field = "submitted"
	FieldTake      Field = "take"
)

// Direction is a sort direction. DirectionNone means "leave the rows in
// their original order" and forces every comparator to report equality.
type Direction string

const (
	DirectionNone Direction = "none"
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// ParseDirection matches ASC/DESC case-insensitively; anything else is
// DirectionNone.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return DirectionAsc
	case "desc":
		return DirectionDesc
	}
	return DirectionNone
}

// Reserved phase-independent sort columns.
const (
	ColumnGroup1   = "group_1"
	ColumnRelation = "relation"
)

// SortSpec is a resolved sort: a physical column, the phase it is biased
// toward (PhaseNone for reserved columns), and a direction.
type SortSpec struct {
	Column    string
	Phase     Phase
	Direction Direction
}

// NameMode selects how the name pattern matches group_1.
type NameMode string

const (
	NameModePrefix NameMode = "prefix"
	NameModeExact  NameMode = "exact"
)

// ParseNameMode defaults to prefix for anything that is not "exact".
func ParseNameMode(s string) NameMode {
	if strings.ToLower(strings.TrimSpace(s)) == string(NameModeExact) {
		return NameModeExact
	}
	return NameModePrefix
}

// FilterSpec holds raw filter selections. Empty status lists mean "no
// filter on that dimension", never "match nothing".
type FilterSpec struct {
	NamePattern      string
	NameMode         NameMode
	WorkStatuses     []string
	ApprovalStatuses []string
}

// ParseCSV splits a comma-separated list into trimmed, lower-cased
// tokens, dropping empties and preserving relative order.
func ParseCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tokens []string
	for _, raw := range strings.Split(s, ",") {
		tok := strings.ToLower(strings.TrimSpace(raw))
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// ParseFilterSpec builds a FilterSpec from raw query-string inputs.
func ParseFilterSpec(name, nameMode, workCSV, apprCSV string) FilterSpec {
	return FilterSpec{
		NamePattern:      strings.TrimSpace(name),
		NameMode:         ParseNameMode(nameMode),
		WorkStatuses:     ParseCSV(workCSV),
		ApprovalStatuses: ParseCSV(apprCSV),
	}
}

// Empty reports whether no dimension of the filter is active.
func (f FilterSpec) Empty() bool {
	return strings.TrimSpace(f.NamePattern) == "" &&
		len(f.WorkStatuses) == 0 && len(f.ApprovalStatuses) == 0
}

// Row is one asset's status snapshot flattened across all phases. A
// missing map entry means the asset has not reached that phase. The
// (Group1, Relation) pair is the row's identity within a page.
type Row struct {
	Group1    string              `json:"group_1"`
	Relation  string              `json:"relation"`
	Work      map[Phase]string    `json:"work,omitempty"`
	Approval  map[Phase]string    `json:"appr,omitempty"`
	Submitted map[Phase]time.Time `json:"submitted,omitempty"`
	Take      map[Phase]string    `json:"take,omitempty"`
}

// WorkStatus returns the work status for a phase, if set.
func (r Row) WorkStatus(p Phase) (string, bool) {
	v, ok := r.Work[p]
	return v, ok
}

// ApprovalStatus returns the approval status for a phase, if set.
func (r Row) ApprovalStatus(p Phase) (string, bool) {
	v, ok := r.Approval[p]
	return v, ok
}

// SubmittedAt returns the submission timestamp for a phase, if set.
func (r Row) SubmittedAt(p Phase) (time.Time, bool) {
	v, ok := r.Submitted[p]
	return v, ok
}

// TakeValue returns the raw take counter for a phase, if set. Takes are
// kept as strings because legacy rows carry non-numeric values.
func (r Row) TakeValue(p Phase) (string, bool) {
	v, ok := r.Take[p]
	return v, ok
}

// Group is a named bucket of rows. Rows may be fewer than Total because
// pagination applies globally, not per group.
type Group struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
	Rows  []Row  `json:"rows"`
}

// QueryIdentity is the tuple that uniquely determines a fetch's expected
// result set. Filters are stored in canonical string form so identities
// compare with ==.
type QueryIdentity struct {
	Project  string
	Page     int // 1-based
	PerPage  int
	SortKey  string
	Dir      Direction
	Phase    Phase
	Name     string
	NameMode NameMode
	Work     string // normalized CSV
	Appr     string // normalized CSV
}

// NewQueryIdentity canonicalizes a filter into an identity.
func NewQueryIdentity(project string, page, perPage int, sortKey string, dir Direction, phase Phase, f FilterSpec) QueryIdentity {
	return QueryIdentity{
		Project:  project,
		Page:     page,
		PerPage:  perPage,
		SortKey:  strings.ToLower(strings.TrimSpace(sortKey)),
		Dir:      dir,
		Phase:    phase,
		Name:     strings.ToLower(strings.TrimSpace(f.NamePattern)),
		NameMode: f.NameMode,
		Work:     strings.Join(f.WorkStatuses, ","),
		Appr:     strings.Join(f.ApprovalStatuses, ","),
	}
}

// FilterSpec reconstructs the filter selections carried by the identity.
func (id QueryIdentity) FilterSpec() FilterSpec {
	return FilterSpec{
		NamePattern:      id.Name,
		NameMode:         id.NameMode,
		WorkStatuses:     ParseCSV(id.Work),
		ApprovalStatuses: ParseCSV(id.Appr),
	}
}

// Values encodes the identity as query parameters for the board API.
func (id QueryIdentity) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(id.Page))
	v.Set("per_page", strconv.Itoa(id.PerPage))
	v.Set("sort", id.SortKey)
	v.Set("dir", string(id.Dir))
	v.Set("phase", string(id.Phase))
	if id.Name != "" {
		v.Set("name", id.Name)
		v.Set("name_mode", string(id.NameMode))
	}
	if id.Work != "" {
		v.Set("work", id.Work)
	}
	if id.Appr != "" {
		v.Set("appr", id.Appr)
	}
	return v
}

func (id QueryIdentity) String() string {
	return fmt.Sprintf("%s?%s", id.Project, id.Values().Encode())
}
