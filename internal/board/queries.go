package board

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/voss/pivotboard/internal/models"
	"github.com/voss/pivotboard/internal/pivot"
)

// Params holds the raw query inputs for the asset list endpoint.
// Malformed values never fail the request: page and per_page clamp to
// valid bounds, unknown sort keys degrade to name order, unknown
// directions mean no reordering.
type Params struct {
	Project  string
	Page     int // 1-based
	PerPage  int
	Sort     string
	Dir      string
	Phase    string
	Name     string
	NameMode string
	Work     string
	Appr     string
}

// ListOpts bounds pagination. Zero values fall back to the defaults.
type ListOpts struct {
	DefaultPerPage int
	MaxPerPage     int
}

// Result is the asset list payload: the flat page of rows plus the same
// rows bucketed into server-authoritative groups. Total reflects the
// filtered count when any filter is active, else the unfiltered total.
type Result struct {
	Assets  []pivot.Row     `json:"assets"`
	Groups  []pivot.Group   `json:"groups"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
	Sort    string          `json:"sort"`
	Dir     pivot.Direction `json:"dir"`
	Phase   pivot.Phase     `json:"phase"`
}

// ListAssets returns one page of pivot rows for a project, ordered and
// filtered server-side. The ORDER BY expression mirrors the client
// comparators (same empties-last and numeric-before-string rules) so a
// page re-sorted in memory never reshuffles.
func ListAssets(db *gorm.DB, p Params, opts ListOpts) (Result, error) {
	if opts.DefaultPerPage <= 0 {
		opts.DefaultPerPage = 50
	}
	if opts.MaxPerPage <= 0 {
		opts.MaxPerPage = 200
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	perPage := p.PerPage
	if perPage < 1 {
		perPage = opts.DefaultPerPage
	}
	if perPage > opts.MaxPerPage {
		perPage = opts.MaxPerPage
	}

	dir := pivot.ParseDirection(p.Dir)
	spec := pivot.ResolveSortKey(p.Sort, dir)
	phase := spec.Phase
	if ph, ok := pivot.ParsePhase(p.Phase); ok {
		phase = ph
	}

	filter := pivot.ParseFilterSpec(p.Name, p.NameMode, p.Work, p.Appr)
	pred := pivot.BuildPredicate(filter, phase)

	q := db.Model(&models.AssetStatus{}).Where("project = ?", p.Project)
	for _, cl := range pred.Clauses {
		q = q.Where(cl.Expr, cl.Args...)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Result{}, fmt.Errorf("board: count assets: %w", err)
	}

	ordered := q.Order(orderExpr(spec, db.Dialector.Name()))
	var assets []models.AssetStatus
	if err := ordered.Offset((page - 1) * perPage).Limit(perPage).Find(&assets).Error; err != nil {
		return Result{}, fmt.Errorf("board: list assets: %w", err)
	}

	rows := make([]pivot.Row, len(assets))
	for i := range assets {
		rows[i] = assets[i].PivotRow()
	}

	totals, err := groupTotals(db, p.Project, pred)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Assets:  rows,
		Groups:  pageGroups(rows, totals),
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Sort:    spec.Column,
		Dir:     dir,
		Phase:   phase,
	}, nil
}

// groupTotals counts matching rows per normalized group name, ignoring
// the page window: a group truncated by global pagination still reports
// its full size.
func groupTotals(db *gorm.DB, project string, pred pivot.Predicate) (map[string]int, error) {
	q := db.Model(&models.AssetStatus{}).Where("project = ?", project)
	for _, cl := range pred.Clauses {
		q = q.Where(cl.Expr, cl.Args...)
	}

	type bucket struct {
		Name  string
		Count int
	}
	var buckets []bucket
	err := q.Select("LOWER(TRIM(group_1)) AS name, COUNT(*) AS count").
		Group("LOWER(TRIM(group_1))").
		Find(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("board: group totals: %w", err)
	}

	totals := make(map[string]int, len(buckets))
	for _, b := range buckets {
		totals[pivot.NormalizeGroupName(b.Name)] += b.Count
	}
	return totals, nil
}

// pageGroups buckets the page's rows in first-seen order, attaching the
// page-independent group totals.
func pageGroups(rows []pivot.Row, totals map[string]int) []pivot.Group {
	buckets := pivot.BucketRows(rows)
	var groups []pivot.Group
	seen := make(map[string]bool)
	for _, r := range rows {
		name := pivot.NormalizeGroupName(r.Group1)
		if seen[name] {
			continue
		}
		seen[name] = true
		groups = append(groups, pivot.Group{
			Name:  name,
			Total: totals[name],
			Rows:  buckets[name],
		})
	}
	return groups
}

// sortColumns is the allowlist of physical ORDER BY columns. Resolved
// sort specs can only name these, but the list is the final word on what
// reaches the SQL text.
var sortColumns = buildSortColumns()

func buildSortColumns() map[string]bool {
	cols := map[string]bool{
		pivot.ColumnGroup1:   true,
		pivot.ColumnRelation: true,
	}
	for _, p := range pivot.Phases() {
		for _, f := range []pivot.Field{pivot.FieldWork, pivot.FieldAppr, pivot.FieldSubmitted, pivot.FieldTake} {
			cols[string(p)+"_"+string(f)] = true
		}
	}
	return cols
}

// orderExpr builds the ORDER BY expression for a resolved sort. It must
// rank rows exactly like pivot.Compare: timestamps and empty takes sort
// last under both directions, numeric takes order numerically and ahead
// of non-numeric ones.
func orderExpr(spec pivot.SortSpec, dialect string) string {
	if spec.Direction == pivot.DirectionNone {
		return "id ASC"
	}
	col := spec.Column
	if !sortColumns[col] {
		col = pivot.ColumnGroup1
	}
	dirSQL := "ASC"
	if spec.Direction == pivot.DirectionDesc {
		dirSQL = "DESC"
	}

	var expr string
	switch {
	case strings.HasSuffix(col, "_submitted"):
		expr = fmt.Sprintf(
			"CASE WHEN %s IS NULL THEN 1 ELSE 0 END ASC, %s %s",
			col, col, dirSQL)
	case strings.HasSuffix(col, "_take"):
		expr = fmt.Sprintf(
			"CASE WHEN %s IS NULL OR TRIM(%s) = '' THEN 1 ELSE 0 END ASC, %s ASC, %s %s, LOWER(TRIM(%s)) %s",
			col, col, numericFlag(col, dialect), takeCast(col, dialect), dirSQL, col, dirSQL)
	default:
		expr = fmt.Sprintf("LOWER(TRIM(COALESCE(%s, ''))) %s", col, dirSQL)
	}
	// Identity columns break remaining ties so pages never overlap.
	return expr + ", group_1 ASC, relation ASC"
}

// numericFlag yields 0 for digit-only takes and 1 otherwise, in the
// dialect's pattern syntax.
func numericFlag(col, dialect string) string {
	if dialect == "sqlite" {
		return fmt.Sprintf(
			"CASE WHEN TRIM(%s) NOT GLOB '*[^0-9]*' THEN 0 ELSE 1 END", col)
	}
	return fmt.Sprintf(
		"CASE WHEN TRIM(%s) REGEXP '^[0-9]+$' THEN 0 ELSE 1 END", col)
}

// takeCast converts a take to an integer sort key per dialect.
func takeCast(col, dialect string) string {
	if dialect == "sqlite" {
		return fmt.Sprintf("CAST(TRIM(%s) AS INTEGER)", col)
	}
	return fmt.Sprintf("CAST(TRIM(%s) AS SIGNED)", col)
}
