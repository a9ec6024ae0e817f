package hash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost - стоимость хеширования по умолчанию
	DefaultCost = 12

	// MinPasswordLength - минимальная длина пароля
	MinPasswordLength = 8
)

// ErrPasswordTooShort возвращается для паролей короче MinPasswordLength
var ErrPasswordTooShort = errors.New("password is too short")

// Hasher хеширует пароли bcrypt с заданной стоимостью
type Hasher struct {
	cost int
}

// NewHasher создает Hasher; cost вне допустимого диапазона bcrypt заменяется на DefaultCost
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash хеширует пароль
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Check сравнивает хешированный пароль с plain-text паролем
func (h *Hasher) Check(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
