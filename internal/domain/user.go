package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole представляет роль пользователя в системе
type UserRole string

const (
	RoleAdmin UserRole = "admin" // Администратор системы
	RoleUser  UserRole = "user"  // Водитель
	RoleGuard UserRole = "guard" // Оператор парковки
)

// User - пользователь системы
// Водитель владеет автомобилями, оператор распознает номера на въезде
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Никогда не возвращаем в JSON
	FullName     string     `json:"full_name"`
	Phone        string     `json:"phone,omitempty"`
	Role         UserRole   `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// Can проверяет возможность по таблице ролей
func (u *User) Can(capability Capability) bool {
	return u.Role.Can(capability)
}

// Validate проверяет корректность данных пользователя
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidEmail
	}
	if u.FullName == "" {
		return ErrInvalidUserData
	}
	if u.Role != RoleAdmin && u.Role != RoleUser && u.Role != RoleGuard {
		return ErrInvalidRole
	}
	return nil
}
