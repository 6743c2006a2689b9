package domain

import "time"

type Customer struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Order struct {
	ID        string     `json:"id"`
	DisplayID int        `json:"display_id"`
	Status    string     `json:"status"`
	Total     int64      `json:"total"`
	Items     []LineItem `json:"items,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
}
