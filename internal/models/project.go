package models

import "time"

// Project is a production the board tracks assets for.
type Project struct {
	Name        string `gorm:"primaryKey;size:64"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
