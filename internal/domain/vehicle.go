package domain

import (
	"time"

	"github.com/google/uuid"
)

// VehicleType представляет тип транспортного средства
type VehicleType string

const (
	VehicleTypeCar        VehicleType = "car"
	VehicleTypeTruck      VehicleType = "truck"
	VehicleTypeMotorcycle VehicleType = "motorcycle"
	VehicleTypeBus        VehicleType = "bus"
	VehicleTypeOther      VehicleType = "other"
)

// Vehicle - зарегистрированный на парковке автомобиль
// ВАЖНО: номер хранится нормализованным и только в одном из двух допустимых форматов
type Vehicle struct {
	ID           uuid.UUID   `json:"id"`
	OwnerID      uuid.UUID   `json:"owner_id"`
	LicensePlate string      `json:"license_plate"` // Нормализованный номер (уникальный)
	PlateType    PlateType   `json:"plate_type"`
	VehicleType  VehicleType `json:"vehicle_type"`
	Model        string      `json:"model,omitempty"`
	Color        string      `json:"color,omitempty"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Owner *User `json:"owner,omitempty"`
}

// Validate проверяет корректность данных автомобиля и нормализует номер
func (v *Vehicle) Validate() error {
	if v.OwnerID == uuid.Nil {
		return ErrInvalidVehicleData
	}
	if v.LicensePlate == "" {
		return ErrInvalidLicensePlate
	}

	plate := ValidatePlate(v.LicensePlate)
	if !plate.IsValid {
		return ErrInvalidLicensePlate
	}
	v.LicensePlate = plate.Text
	v.PlateType = plate.Type

	switch v.VehicleType {
	case "":
		v.VehicleType = VehicleTypeCar
	case VehicleTypeCar, VehicleTypeTruck, VehicleTypeMotorcycle, VehicleTypeBus, VehicleTypeOther:
	default:
		return ErrInvalidVehicleData
	}

	return nil
}

// FormattedPlate возвращает номер в виде XXX-XXXX
func (v *Vehicle) FormattedPlate() string {
	return FormatPlate(LicensePlate{Text: v.LicensePlate, Type: v.PlateType, IsValid: true})
}
