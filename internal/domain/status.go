package domain

// OrderStatus estado del pedido y de su tarea de reparto (avance en espejo).
type OrderStatus string

// Progresión fija del pedido: pending → assigned → on_the_way → delivered.
const (
	StatusPending   OrderStatus = "pending"
	StatusAssigned  OrderStatus = "assigned"
	StatusOnTheWay  OrderStatus = "on_the_way"
	StatusDelivered OrderStatus = "delivered"
)

// next define el único paso hacia adelante permitido desde cada estado.
// delivered es terminal y no aparece como origen.
var next = map[OrderStatus]OrderStatus{
	StatusPending:  StatusAssigned,
	StatusAssigned: StatusOnTheWay,
	StatusOnTheWay: StatusDelivered,
}

// IsValidStatus reporta si s es uno de los cuatro estados conocidos.
func IsValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusAssigned, StatusOnTheWay, StatusDelivered:
		return true
	}
	return false
}

// IsTerminal reporta si s no admite más transiciones.
func IsTerminal(s OrderStatus) bool {
	return s == StatusDelivered
}

// CanTransition valida el cambio from → to. Repetir el estado actual es un
// no-op permitido (idempotencia de updates repetidos); saltar estados o
// retroceder devuelve ErrInvalidTransition.
func CanTransition(from, to OrderStatus) error {
	if !IsValidStatus(to) {
		return ErrInvalidInput
	}
	if from == to {
		return nil
	}
	if next[from] == to {
		return nil
	}
	return ErrInvalidTransition
}
