package repository

import "errors"

var (
	ErrFailedToInsert = errors.New("failed to insert job")
	ErrFailedToClaim  = errors.New("failed to claim job")
	ErrFailedToUpdate = errors.New("failed to update job")
	ErrFailedToCount  = errors.New("failed to count jobs")
)
