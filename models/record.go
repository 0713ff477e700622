package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record is one document of a named collection (herbs, formulas, category
// lists). The document body is kept as JSON.
type Record struct {
	gorm.Model
	PublicID   string         `gorm:"size:100;uniqueIndex"`
	Collection string         `gorm:"not null;size:64;index"`
	Data       datatypes.JSON `gorm:"not null"`
}
