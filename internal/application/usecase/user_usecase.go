package usecase

import (
	"context"

	"github.com/jhoicas/verduleria-api/internal/application/dto"
	"github.com/jhoicas/verduleria-api/internal/domain/entity"
	"github.com/jhoicas/verduleria-api/internal/domain/repository"
)

// UserUseCase lecturas de usuarios (el alta pasa por auth.Register).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List devuelve todos los usuarios.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// ListDeliveryPeople devuelve los usuarios con rol delivery.
func (uc *UserUseCase) ListDeliveryPeople(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.ListByRole(ctx, entity.RoleDelivery)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// GetByID devuelve un usuario por ID; nil si no existe.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	out := toUserResponses([]*entity.User{user})
	return &out[0], nil
}

func toUserResponses(users []*entity.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			Phone:     u.Phone,
			CreatedAt: u.CreatedAt,
		})
	}
	return out
}
