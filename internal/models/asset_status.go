package models

import (
	"time"

	"github.com/voss/pivotboard/internal/pivot"
)

// AssetStatus is one asset's status snapshot flattened across all
// workflow phases. Takes are nullable strings because legacy imports
// carry non-numeric take values.
type AssetStatus struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Project  string `gorm:"size:64;index;uniqueIndex:idx_asset_identity"`
	Group1   string `gorm:"column:group_1;size:128;index;uniqueIndex:idx_asset_identity"`
	Relation string `gorm:"size:128;uniqueIndex:idx_asset_identity"`

	MdlWork      *string    `gorm:"column:mdl_work;size:32"`
	MdlAppr      *string    `gorm:"column:mdl_appr;size:32"`
	MdlSubmitted *time.Time `gorm:"column:mdl_submitted"`
	MdlTake      *string    `gorm:"column:mdl_take;size:16"`

	RigWork      *string    `gorm:"column:rig_work;size:32"`
	RigAppr      *string    `gorm:"column:rig_appr;size:32"`
	RigSubmitted *time.Time `gorm:"column:rig_submitted"`
	RigTake      *string    `gorm:"column:rig_take;size:16"`

	BldWork      *string    `gorm:"column:bld_work;size:32"`
	BldAppr      *string    `gorm:"column:bld_appr;size:32"`
	BldSubmitted *time.Time `gorm:"column:bld_submitted"`
	BldTake      *string    `gorm:"column:bld_take;size:16"`

	DsnWork      *string    `gorm:"column:dsn_work;size:32"`
	DsnAppr      *string    `gorm:"column:dsn_appr;size:32"`
	DsnSubmitted *time.Time `gorm:"column:dsn_submitted"`
	DsnTake      *string    `gorm:"column:dsn_take;size:16"`

	LdvWork      *string    `gorm:"column:ldv_work;size:32"`
	LdvAppr      *string    `gorm:"column:ldv_appr;size:32"`
	LdvSubmitted *time.Time `gorm:"column:ldv_submitted"`
	LdvTake      *string    `gorm:"column:ldv_take;size:16"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// phaseCells groups the four cell pointers for one phase.
type phaseCells struct {
	work      *string
	appr      *string
	submitted *time.Time
	take      *string
}

func (a *AssetStatus) cells(p pivot.Phase) phaseCells {
	switch p {
	case pivot.PhaseModel:
		return phaseCells{a.MdlWork, a.MdlAppr, a.MdlSubmitted, a.MdlTake}
	case pivot.PhaseRig:
		return phaseCells{a.RigWork, a.RigAppr, a.RigSubmitted, a.RigTake}
	case pivot.PhaseBuild:
		return phaseCells{a.BldWork, a.BldAppr, a.BldSubmitted, a.BldTake}
	case pivot.PhaseDesign:
		return phaseCells{a.DsnWork, a.DsnAppr, a.DsnSubmitted, a.DsnTake}
	case pivot.PhaseLookdev:
		return phaseCells{a.LdvWork, a.LdvAppr, a.LdvSubmitted, a.LdvTake}
	}
	return phaseCells{}
}

// SetPhaseCells assigns one phase's columns. Nil pointers leave the
// asset "not yet reached" for that attribute.
func (a *AssetStatus) SetPhaseCells(p pivot.Phase, work, appr *string, submitted *time.Time, take *string) {
	switch p {
	case pivot.PhaseModel:
		a.MdlWork, a.MdlAppr, a.MdlSubmitted, a.MdlTake = work, appr, submitted, take
	case pivot.PhaseRig:
		a.RigWork, a.RigAppr, a.RigSubmitted, a.RigTake = work, appr, submitted, take
	case pivot.PhaseBuild:
		a.BldWork, a.BldAppr, a.BldSubmitted, a.BldTake = work, appr, submitted, take
	case pivot.PhaseDesign:
		a.DsnWork, a.DsnAppr, a.DsnSubmitted, a.DsnTake = work, appr, submitted, take
	case pivot.PhaseLookdev:
		a.LdvWork, a.LdvAppr, a.LdvSubmitted, a.LdvTake = work, appr, submitted, take
	}
}

// PivotRow converts the stored record into an engine row. NULL columns
// become absent map entries ("not yet reached this phase").
func (a *AssetStatus) PivotRow() pivot.Row {
	row := pivot.Row{
		Group1:    a.Group1,
		Relation:  a.Relation,
		Work:      make(map[pivot.Phase]string),
		Approval:  make(map[pivot.Phase]string),
		Submitted: make(map[pivot.Phase]time.Time),
		Take:      make(map[pivot.Phase]string),
	}
	for _, p := range pivot.Phases() {
		c := a.cells(p)
		if c.work != nil {
			row.Work[p] = *c.work
		}
		if c.appr != nil {
			row.Approval[p] = *c.appr
		}
		if c.submitted != nil {
			row.Submitted[p] = *c.submitted
		}
		if c.take != nil {
			row.Take[p] = *c.take
		}
	}
	return row
}
