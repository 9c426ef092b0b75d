package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinistryActive   = "active"
	MinistryInactive = "inactive"
)

// Ministry is an organizational unit that owns budgets and requests
type Ministry struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Code              string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name              string          `gorm:"type:varchar(255);not null" json:"name"`
	Description       string          `gorm:"type:text" json:"description,omitempty"`
	ResponsibleUserID uint            `json:"responsibleUserId"`
	BudgetLimit       decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"budgetLimit"`
	Currency          string          `gorm:"type:varchar(10);default:'PEN'" json:"currency"`
	Status            string          `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}
