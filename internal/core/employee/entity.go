package employee

import "time"

// Employee は社員エンティティです。
type Employee struct {
	ID           string
	Name         string
	Department   string
	Email        string
	Password     string
	IsFirstLogin bool
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
