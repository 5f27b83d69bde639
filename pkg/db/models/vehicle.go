package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is an auction lot's vehicle record.
type Vehicle struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Make         string    `gorm:"column:make;type:text;not null"`
	Model        string    `gorm:"column:model;type:text;not null"`
	Year         int       `gorm:"column:year;not null"`
	MileageKM    int       `gorm:"column:mileage_km;not null;default:0"`
	Chassis      *string   `gorm:"column:chassis;type:text"`
	Grade        *string   `gorm:"column:grade;type:text"`
	Transmission *string   `gorm:"column:transmission;type:text"`
	ImageURL     *string   `gorm:"column:image_url;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
