package models

import "time"

// Record is a named durable blob.
type Record struct {
	Name      string    `db:"name" json:"name"`
	Value     []byte    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
