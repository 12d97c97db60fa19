package models

import "time"

// GenerationRecord is one rendered symbol kept in the history table.
type GenerationRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey;column:id"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index"`
	Source    string    `json:"source" gorm:"column:source;size:16"` // cli or api
	Project   string    `json:"project,omitempty" gorm:"column:project;size:64;index"`
	Label     string    `json:"label,omitempty" gorm:"column:label;size:128"`
	Format    string    `json:"format" gorm:"column:format;size:32"`
	Content   string    `json:"content" gorm:"column:content;type:text"`
	Width     int       `json:"width" gorm:"column:width"`
	Height    int       `json:"height" gorm:"column:height"`
}

func (GenerationRecord) TableName() string {
	return "generation_history"
}
