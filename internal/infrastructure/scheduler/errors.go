package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when a task is registered with a bad interval
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrAlreadyRunning is returned when tasks are added to a started scheduler
	ErrAlreadyRunning = errors.New("scheduler is already running")
)
