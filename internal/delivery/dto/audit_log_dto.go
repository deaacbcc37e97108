package dto

import (
	"time"

	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
)

// Response DTOs

type AuditUserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

type AuditLogResponse struct {
	ID        int64              `json:"id"`
	User      *AuditUserResponse `json:"user,omitempty"`
	Action    string             `json:"action"`
	Metadata  entity.JSON        `json:"metadata"`
	CreatedAt time.Time          `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
