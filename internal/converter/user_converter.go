package converter

import (
	"lab-booking-engine/internal/delivery/dto"
	"lab-booking-engine/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// The role name falls back to the role id when Role is not preloaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role := user.Role.RoleName
	if role == "" {
		role = entity.RoleNameByID(user.RoleID)
	}

	return &dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          role,
		Institution:   user.Institution,
		PhoneNumber:   user.PhoneNumber,
		UserType:      string(user.UserType),
		AccountStatus: string(user.AccountStatus),
		VerifiedAt:    user.VerifiedAt,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}
