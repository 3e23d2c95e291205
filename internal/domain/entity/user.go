package entity

import "time"

// Roles válidos para User.
const (
	RoleCustomer = "customer"
	RoleDelivery = "delivery"
	RoleAdmin    = "admin"
)

// User representa un usuario del sistema (cliente, repartidor o admin).
type User struct {
	ID           string
	Name         string
	Email        string    // único
	PasswordHash string    // bcrypt hash, nunca plano en dominio después de persistir
	Role         string    // customer, delivery, admin
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
