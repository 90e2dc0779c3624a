package domain

import "time"

type Cohort struct {
	ID          string
	Name        string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Class is a specialization track, e.g. "Fullstack Android".
type Class struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
