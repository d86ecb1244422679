package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

// Profile is the canteen identity row; Role gates every admin surface.
type Profile struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email     string     `gorm:"column:email;not null" json:"email"`
	FullName  *string    `gorm:"column:full_name" json:"full_name,omitempty"`
	Role      enums.Role `gorm:"column:role;type:text;not null;default:'student'" json:"role"`
	StudentID *string    `gorm:"column:student_id" json:"student_id,omitempty"`
	Phone     *string    `gorm:"column:phone" json:"phone,omitempty"`
	AvatarURL *string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
