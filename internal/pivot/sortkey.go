package pivot

import "strings"

// keyKind tags the decoded form of a UI sort key.
type keyKind int

const (
	keyUnknown keyKind = iota
	keyReserved
	keyPhased
)

// decodedKey is the one place a UI sort key is taken apart. Unknown keys
// are represented explicitly so the fallback rule lives in exactly one
// switch in ResolveSortKey.
type decodedKey struct {
	kind     keyKind
	reserved string
	phase    Phase
	field    Field
}

// decodeSortKey parses a UI sort key into a tagged variant. Matching is
// case-insensitive; phase codes and field names are lower-cased first.
func decodeSortKey(key string) decodedKey {
	k := strings.ToLower(strings.TrimSpace(key))

	switch k {
	case ColumnGroup1, ColumnRelation:
		return decodedKey{kind: keyReserved, reserved: k}
	}

	code, rest, found := strings.Cut(k, "_")
	if !found || rest == "" {
		return decodedKey{kind: keyUnknown}
	}
	phase, ok := ParsePhase(code)
	if !ok {
		return decodedKey{kind: keyUnknown}
	}

	field := FieldWork
	switch Field(rest) {
	case FieldSubmitted:
		field = FieldSubmitted
	case FieldAppr:
		field = FieldAppr
	case FieldTake:
		field = FieldTake
	}
	return decodedKey{kind: keyPhased, phase: phase, field: field}
}

// ResolveSortKey maps a UI sort key to a physical column and phase bias.
// Resolution is total: unrecognized keys degrade to the default name
// ordering on group_1 rather than failing the query.
func ResolveSortKey(key string, dir Direction) SortSpec {
	d := decodeSortKey(key)
	switch d.kind {
	case keyReserved:
		return SortSpec{Column: d.reserved, Phase: PhaseNone, Direction: dir}
	case keyPhased:
		return SortSpec{
			Column:    string(d.phase) + "_" + string(d.field),
			Phase:     d.phase,
			Direction: dir,
		}
	default:
		return SortSpec{Column: ColumnGroup1, Phase: PhaseNone, Direction: dir}
	}
}
