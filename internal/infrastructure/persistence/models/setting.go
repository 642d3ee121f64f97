package models

import "time"

// SettingModel is the GORM model for the settings key/value table.
// Values are JSON documents.
type SettingModel struct {
	Name      string    `gorm:"type:varchar(100);primary_key"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for SettingModel
func (SettingModel) TableName() string {
	return "settings"
}

// All returns every model managed by the service, in dependency order
func All() []any {
	return []any{
		&PrinterModel{},
		&PrintJobModel{},
		&PageCountRequestModel{},
		&SettingModel{},
	}
}
