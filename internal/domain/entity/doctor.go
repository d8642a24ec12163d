package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Specialization is the closed set of medical specializations a doctor
// may be registered under.
type Specialization string

const (
	SpecializationCardiology      Specialization = "Cardiology"
	SpecializationDermatology     Specialization = "Dermatology"
	SpecializationENT             Specialization = "ENT"
	SpecializationGeneralMedicine Specialization = "General Medicine"
	SpecializationNeurology       Specialization = "Neurology"
	SpecializationOncology        Specialization = "Oncology"
	SpecializationOphthalmology   Specialization = "Ophthalmology"
	SpecializationOrthopedics     Specialization = "Orthopedics"
	SpecializationPediatrics      Specialization = "Pediatrics"
	SpecializationPsychiatry      Specialization = "Psychiatry"
)

// Specializations lists every valid specialization.
var Specializations = []Specialization{
	SpecializationCardiology,
	SpecializationDermatology,
	SpecializationENT,
	SpecializationGeneralMedicine,
	SpecializationNeurology,
	SpecializationOncology,
	SpecializationOphthalmology,
	SpecializationOrthopedics,
	SpecializationPediatrics,
	SpecializationPsychiatry,
}

// IsValid reports whether s is one of the enumerated specializations.
func (s Specialization) IsValid() bool {
	for _, valid := range Specializations {
		if s == valid {
			return true
		}
	}
	return false
}

// WeekdayList stores a set of weekdays as a JSONB integer array.
// Canonical convention: Go's time.Weekday, 0=Sunday .. 6=Saturday,
// applied uniformly to configuration and date evaluation.
type WeekdayList []time.Weekday

// Value implements driver.Valuer
func (w WeekdayList) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner
func (w *WeekdayList) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}
	bytes, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, w)
}

// Contains reports whether day is in the list.
func (w WeekdayList) Contains(day time.Weekday) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

// StringList stores an ordered list of strings as a JSONB array.
// Used for time-slot labels and unavailable dates; order is preserved.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, l)
}

// Contains reports whether s is in the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

func jsonbBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}
}

// Doctor represents a doctor's profile and scheduling configuration.
// FullName and Email are denormalized from the linked user for display.
type Doctor struct {
	UserID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	FullName         string          `gorm:"type:varchar(255);not null" json:"full_name"`
	Email            string          `gorm:"type:varchar(255);not null;index" json:"email"`
	Specialization   Specialization  `gorm:"type:varchar(100);not null;index" json:"specialization"`
	AvailableDays    WeekdayList     `gorm:"type:jsonb;not null" json:"available_days"`
	TimeSlots        StringList      `gorm:"type:jsonb;not null" json:"time_slots"`
	MaxPerDay        int             `gorm:"not null" json:"max_per_day"`
	UnavailableDates StringList      `gorm:"type:jsonb" json:"unavailable_dates,omitempty"`
	ConsultationFee  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"consultation_fee"`
	Biography        string          `gorm:"type:text" json:"biography,omitempty"`
	Avatar           string          `gorm:"type:text" json:"avatar,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// HasTimeSlot reports whether slot is one of the doctor's configured slots.
func (d *Doctor) HasTimeSlot(slot string) bool {
	return d.TimeSlots.Contains(slot)
}
