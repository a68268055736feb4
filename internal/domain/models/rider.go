package models

import "github.com/google/uuid"

// Rider is the rider presence record.
type Rider struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`

	SocketID *string `json:"-"`
}
