package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound covers both a missing project and an ownership mismatch so the
// caller cannot tell whether the id exists.
var ErrNotFound = errors.New("project not found")

// ProjectType is the closed set of scaffold kinds a project can be created as.
type ProjectType string

const (
	TypeApp       ProjectType = "app"
	TypeWebsite   ProjectType = "website"
	TypeComponent ProjectType = "component"
)

// ParseProjectType validates a raw type token.
func ParseProjectType(s string) (ProjectType, error) {
	switch ProjectType(s) {
	case TypeApp, TypeWebsite, TypeComponent:
		return ProjectType(s), nil
	}
	return "", fmt.Errorf("invalid project type %q", s)
}

// Project is a user-owned code scaffold. It is storage-agnostic and shared
// across the repository, service and HTTP layers.
type Project struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        ProjectType `json:"type"`
	Language    string      `json:"language"`
	Code        string      `json:"code"`
	Description string      `json:"description,omitempty"`
	OwnerID     string      `json:"-"`
	IsPublic    bool        `json:"is_public"`
	CreatedAt   time.Time   `json:"created_at"`
}
