package core

import (
	"fmt"
	"strings"
	"time"
)

// User is the identity that owns repositories and, through them, review jobs.
type User struct {
	ID          int64
	GitHubLogin string
	CreatedAt   time.Time
}

// Repository is a connected upstream repository.
type Repository struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	FullName  string    `json:"fullName"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// SplitFullName splits "owner/name" into its parts.
func SplitFullName(fullName string) (string, string, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(fullName), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository full name %q: expected owner/name", fullName)
	}
	return owner, name, nil
}
