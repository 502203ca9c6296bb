package pivot

import "testing"

func TestResolveSortKey_Reserved(t *testing.T) {
	for _, key := range []string{"group_1", "relation"} {
		t.Run(key, func(t *testing.T) {
			spec := ResolveSortKey(key, DirectionAsc)
			if spec.Column != key {
				t.Errorf("column = %q, want %q", spec.Column, key)
			}
			if spec.Phase != PhaseNone {
				t.Errorf("phase = %q, want %q", spec.Phase, PhaseNone)
			}
		})
	}
}

func TestResolveSortKey_Phased(t *testing.T) {
	tests := []struct {
		key        string
		wantColumn string
		wantPhase  Phase
	}{
		{"mdl_work", "mdl_work", PhaseModel},
		{"mdl_appr", "mdl_appr", PhaseModel},
		{"mdl_submitted", "mdl_submitted", PhaseModel},
		{"mdl_take", "mdl_take", PhaseModel},
		{"rig_work", "rig_work", PhaseRig},
		{"rig_take", "rig_take", PhaseRig},
		{"bld_appr", "bld_appr", PhaseBuild},
		{"bld_submitted", "bld_submitted", PhaseBuild},
		{"dsn_work", "dsn_work", PhaseDesign},
		{"dsn_take", "dsn_take", PhaseDesign},
		{"ldv_appr", "ldv_appr", PhaseLookdev},
		{"ldv_submitted", "ldv_submitted", PhaseLookdev},
		// Unrecognized field names default to the work column.
		{"mdl_status", "mdl_work", PhaseModel},
		{"ldv_x", "ldv_work", PhaseLookdev},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			spec := ResolveSortKey(tt.key, DirectionDesc)
			if spec.Column != tt.wantColumn {
				t.Errorf("column = %q, want %q", spec.Column, tt.wantColumn)
			}
			if spec.Phase != tt.wantPhase {
				t.Errorf("phase = %q, want %q", spec.Phase, tt.wantPhase)
			}
			if spec.Direction != DirectionDesc {
				t.Errorf("direction = %q, want desc", spec.Direction)
			}
		})
	}
}

func TestResolveSortKey_UnknownFallsBack(t *testing.T) {
	for _, key := range []string{"", "bogus", "xyz_work", "mdl", "_work", "mdl_"} {
		t.Run("key_"+key, func(t *testing.T) {
			spec := ResolveSortKey(key, DirectionAsc)
			if spec.Column != ColumnGroup1 {
				t.Errorf("ResolveSortKey(%q).Column = %q, want %q", key, spec.Column, ColumnGroup1)
			}
			if spec.Phase != PhaseNone {
				t.Errorf("ResolveSortKey(%q).Phase = %q, want none", key, spec.Phase)
			}
		})
	}
}

func TestResolveSortKey_CaseInsensitive(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"MDL_TAKE", "mdl_take"},
		{"Rig_Submitted", "rig_submitted"},
		{"  GROUP_1  ", "group_1"},
		{"RELATION", "relation"},
	}
	for _, tt := range tests {
		spec := ResolveSortKey(tt.key, DirectionAsc)
		if spec.Column != tt.want {
			t.Errorf("ResolveSortKey(%q).Column = %q, want %q", tt.key, spec.Column, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"ASC", DirectionAsc},
		{"asc", DirectionAsc},
		{"DESC", DirectionDesc},
		{" desc ", DirectionDesc},
		{"", DirectionNone},
		{"sideways", DirectionNone},
	}
	for _, tt := range tests {
		if got := ParseDirection(tt.in); got != tt.want {
			t.Errorf("ParseDirection(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
