package services

import "fmt"

// ValidationError rejects an input before any store access. Field is the
// json name of the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ReferentialError means a menu item points at a category that does not exist.
type ReferentialError struct {
	CategoryID int64
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("menu category with id %d does not exist", e.CategoryID)
}
