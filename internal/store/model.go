package store

import "time"

// User is a registered account. The account number doubles as the default
// credential for the account's password-protected statements.
type User struct {
	AccountNumber string    `gorm:"primary_key;size:64" json:"account_number"`
	PasswordHash  string    `gorm:"not null" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// StoredDocument is one uploaded statement file.
type StoredDocument struct {
	ID            uint      `gorm:"primary_key" json:"id"`
	AccountNumber string    `gorm:"size:64;not null;index" json:"account_number"`
	Filename      string    `gorm:"not null" json:"filename"`
	Filepath      string    `gorm:"not null" json:"-"`
	Size          int64     `gorm:"not null" json:"size"`
	UploadedAt    time.Time `gorm:"not null;index" json:"uploaded_at"`
}

// TableName keeps the library's original table name.
func (StoredDocument) TableName() string {
	return "pdf_files"
}
