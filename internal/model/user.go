package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents an account record. RoleID is an explicit foreign key;
// users of a role are fetched with a separate query, never as an
// auto-populated back-collection on Role.
type User struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Email         string          `gorm:"type:varchar(255);not null" json:"email"`
	Phone         *string         `gorm:"type:varchar(20)" json:"phone,omitempty"`
	CreditBalance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"credit_balance"`
	RoleID        *uint           `gorm:"index" json:"role_id,omitempty"`
	Role          *Role           `gorm:"foreignKey:RoleID" json:"-"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
