// Package models holds the GORM rows behind the printing repositories.
// Domain types never carry gorm tags; each model converts with ToDomain and
// a matching ...FromDomain constructor.
package models
