package model

import "time"

// GenerationRecord : запись поколения субъекта.
// Создается лениво с Generation = 0, меняется только инкрементом.
// UpdatedAt пуст, если хранилище не ведёт время изменения (Redis).
type GenerationRecord struct {
	SubjectID  string     `db:"subject_id" json:"subject_id"`
	Generation uint64     `db:"generation" json:"generation"`
	UpdatedAt  *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
