package pivot

import "strings"

// Clause is one parameterized condition. Expr contains only ?
// placeholders; user input is never interpolated into the text.
type Clause struct {
	Expr string
	Args []any
}

// Predicate is a composable set of AND-ed clauses produced from a
// FilterSpec. Building twice from equal specs yields structurally equal
// predicates.
type Predicate struct {
	Clauses []Clause
}

// Empty reports whether the predicate constrains nothing.
func (p Predicate) Empty() bool {
	return len(p.Clauses) == 0
}

// likeEscape neutralizes LIKE wildcards in user input. '!' is the escape
// character because both MySQL and SQLite accept it in an ESCAPE clause
// without driver-specific quoting.
func likeEscape(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

// placeholders returns "?, ?, ..." for n bound values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// statusPhases returns the phases a status filter applies to: the biased
// phase when one is set, otherwise every phase.
func statusPhases(phase Phase) []Phase {
	if _, ok := ParsePhase(string(phase)); ok {
		return []Phase{phase}
	}
	return Phases()
}

// BuildPredicate converts filter selections into parameterized clauses.
// The name clause matches group_1 case-insensitively (prefix or exact).
// The status clause ORs the work and approval lists together: a row
// matches if either status is in its list on any targeted phase.
func BuildPredicate(f FilterSpec, phase Phase) Predicate {
	var p Predicate

	if pattern := strings.ToLower(strings.TrimSpace(f.NamePattern)); pattern != "" {
		if f.NameMode == NameModeExact {
			p.Clauses = append(p.Clauses, Clause{
				Expr: "LOWER(TRIM(group_1)) = ?",
				Args: []any{pattern},
			})
		} else {
			p.Clauses = append(p.Clauses, Clause{
				Expr: "LOWER(TRIM(group_1)) LIKE ? ESCAPE '!'",
				Args: []any{likeEscape(pattern) + "%"},
			})
		}
	}

	if len(f.WorkStatuses) == 0 && len(f.ApprovalStatuses) == 0 {
		return p
	}

	var exprs []string
	var args []any
	for _, ph := range statusPhases(phase) {
		if len(f.WorkStatuses) > 0 {
			exprs = append(exprs, "LOWER("+string(ph)+"_work) IN ("+placeholders(len(f.WorkStatuses))+")")
			for _, s := range f.WorkStatuses {
				args = append(args, s)
			}
		}
		if len(f.ApprovalStatuses) > 0 {
			exprs = append(exprs, "LOWER("+string(ph)+"_appr) IN ("+placeholders(len(f.ApprovalStatuses))+")")
			for _, s := range f.ApprovalStatuses {
				args = append(args, s)
			}
		}
	}
	p.Clauses = append(p.Clauses, Clause{
		Expr: "(" + strings.Join(exprs, " OR ") + ")",
		Args: args,
	})
	return p
}
