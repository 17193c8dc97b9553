package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BankConnection is a payment channel transactions and receipts settle
// against. Credential fields are write-only: they never serialize into a
// response body.
type BankConnection struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	BankName      string       `json:"bank_name" gorm:"size:255"`
	AccountNumber string       `json:"account_number" gorm:"size:100"`

	APIKey           string `json:"-" gorm:"size:255"`
	ClientID         string `json:"-" gorm:"size:255"`
	OAuthCredentials string `json:"-" gorm:"type:text"`
	Token            string `json:"-" gorm:"size:255"`
	SecretKey        string `json:"-" gorm:"size:255"`

	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BankConnection) TableName() string { return "bank_connections" }
