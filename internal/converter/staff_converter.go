package converter

import (
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
)

// StaffToResponse converts a Staff entity to StaffResponse DTO
func StaffToResponse(staff *entity.Staff) *dto.StaffResponse {
	if staff == nil {
		return nil
	}

	return &dto.StaffResponse{
		ID:        staff.ID,
		Username:  staff.Username,
		FullName:  staff.FullName,
		Email:     staff.Email,
		RoleID:    staff.RoleID,
		Role:      staff.Role.RoleName,
		IsActive:  staff.IsActive,
		Status:    string(staff.Status),
		CreatedAt: staff.CreatedAt,
	}
}

// StaffsToResponses converts a slice of Staff entities to StaffResponse DTOs
func StaffsToResponses(staff []entity.Staff) []dto.StaffResponse {
	responses := make([]dto.StaffResponse, len(staff))
	for i := range staff {
		responses[i] = *StaffToResponse(&staff[i])
	}
	return responses
}
