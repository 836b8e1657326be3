package handler

import (
	"time"

	"github.com/msomdec/engineers/internal/domain"
)

// UserDTO is the JSON representation of a user. It never carries the
// password hash.
type UserDTO struct {
	ID        string   `json:"_id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Engineers []string `json:"engineers"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	engineers := u.EngineerIDs
	if engineers == nil {
		engineers = []string{}
	}
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Engineers: engineers,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// AuthResponse is returned by registration and login.
type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// EngineerDTO is the JSON representation of an engineer.
type EngineerDTO struct {
	ID              string `json:"_id"`
	Name            string `json:"name"`
	Specialty       string `json:"specialty"`
	YearsExperience int    `json:"yearsExperience"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

func toEngineerDTO(e *domain.Engineer) EngineerDTO {
	return EngineerDTO{
		ID:              e.ID,
		Name:            e.Name,
		Specialty:       e.Specialty,
		YearsExperience: e.YearsExperience,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.Format(time.RFC3339),
	}
}

func toEngineerDTOs(engineers []domain.Engineer) []EngineerDTO {
	dtos := make([]EngineerDTO, len(engineers))
	for i := range engineers {
		dtos[i] = toEngineerDTO(&engineers[i])
	}
	return dtos
}
