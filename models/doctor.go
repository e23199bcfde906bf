package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// StringList stores a list of strings as a JSON column.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal StringList: unsupported type %T", value)
	}

	return json.Unmarshal(data, l)
}

type Doctor struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Name            string     `json:"name"`
	Specialization  string     `json:"specialization" gorm:"index:idx_doctors_specialization_active"`
	Email           string     `json:"email" gorm:"uniqueIndex"`
	Phone           string     `json:"phone"`
	Qualification   string     `json:"qualification,omitempty"`
	Experience      int        `json:"experience"`
	ConsultationFee float64    `json:"consultation_fee"`
	AvailableDays   StringList `json:"available_days" gorm:"type:text"`
	WorkStart       string     `json:"work_start"` // "HH:MM" in 24h
	WorkEnd         string     `json:"work_end"`
	SlotDuration    int        `json:"slot_duration"` // minutes
	ImageURL        string     `json:"image_url,omitempty"`
	Bio             string     `json:"bio,omitempty"`
	IsActive        bool       `json:"is_active" gorm:"index:idx_doctors_specialization_active;default:true"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if len(d.AvailableDays) == 0 {
		d.AvailableDays = StringList{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	}
	if d.WorkStart == "" {
		d.WorkStart = "09:00"
	}
	if d.WorkEnd == "" {
		d.WorkEnd = "17:00"
	}
	if d.SlotDuration == 0 {
		d.SlotDuration = 30
	}
	return nil
}

// WorksOn reports whether the doctor consults on the given weekday.
func (d *Doctor) WorksOn(day time.Weekday) bool {
	for _, name := range d.AvailableDays {
		if strings.EqualFold(name, day.String()) {
			return true
		}
	}
	return false
}
