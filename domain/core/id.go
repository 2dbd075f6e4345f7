package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ExamID  ID
	ModelID ID
)

// String conversions for domain IDs
func (id ExamID) String() string  { return ID(id).String() }
func (id ModelID) String() string { return ID(id).String() }

// NewExamID creates a new exam identifier
func NewExamID() ExamID {
	return ExamID(NewID())
}

// ParseExamID parses a string into ExamID
func ParseExamID(s string) (ExamID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("exam ID cannot be empty")
	}
	return ExamID(s), nil
}
