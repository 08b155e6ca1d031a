// Package repository provides GORM-backed access to the user,
// prescription and audit tables. Sentinel errors let handlers translate
// storage outcomes into HTTP statuses without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a referenced record does not exist.
// Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write collides with existing state: a
// duplicate account for the same subject id, or a review of a
// prescription that has already been decided. Handlers translate it into
// HTTP 409.
var ErrConflict = errors.New("conflict")
