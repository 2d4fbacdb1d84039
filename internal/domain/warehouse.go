package domain

import "time"

type Warehouse struct {
	ID        int
	Code      string
	Name      string
	CreatedAt time.Time
}

type Carrier struct {
	ID       int
	Name     string
	IsActive bool
}
