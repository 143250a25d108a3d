package model

// EffortEntry is a work log submission for a task. Date is in milliseconds
// since the epoch.
type EffortEntry struct {
	Date         int64  `json:"date"`
	MinutesSpent int    `json:"minutesSpent"`
	Description  string `json:"description"`
	TaskID       int    `json:"taskId"`
	UserID       int    `json:"userId"`
}

// HourEntry is an effort entry that has already been logged against a
// task.
type HourEntry struct {
	ID           int    `json:"id"`
	Description  string `json:"description"`
	MinutesSpent int    `json:"minutesSpent"`
	Date         int64  `json:"date"`
}
