package models

import "time"

// VaultItem holds ciphertext produced by the caller. The store never looks inside it.
type VaultItem struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	Type          string    `json:"type" yaml:"type"`
	EncryptedData []byte    `json:"encryptedData" yaml:"-"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" yaml:"updatedAt"`
	IsSynced      bool      `json:"isSynced" yaml:"isSynced"`
}
