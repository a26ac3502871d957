package domain

import "time"

// MealWindow is an "HH:MM" wall-clock range. An empty bound means the
// window is always open. Start after end denotes an overnight range.
type MealWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ServiceHours is the singleton meal-window configuration.
type ServiceHours struct {
	Breakfast MealWindow `json:"breakfast"`
	Lunch     MealWindow `json:"lunch"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
