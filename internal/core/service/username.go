package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// usernameTaken reports whether a username is already in use.
type usernameTaken func(ctx context.Context, username string) (bool, error)

// GenerateUsername derives a username for a new employee.
//
// The base is the lowercased first word of name plus the first letter of the
// second word. If the base is taken, the lowercased email local part becomes
// the base. Then base, base1, base2, ... are tried until one is free.
func GenerateUsername(ctx context.Context, name, email string, taken usernameTaken) (string, error) {
	parts := strings.Split(strings.TrimSpace(name), " ")
	base := strings.ToLower(parts[0])
	if len(parts) > 1 && parts[1] != "" {
		base += strings.ToLower(string([]rune(parts[1])[:1]))
	}

	used, err := taken(ctx, base)
	if err != nil {
		return "", fmt.Errorf("check username %q: %w", base, err)
	}
	if used {
		local, _, _ := strings.Cut(email, "@")
		base = strings.ToLower(local)
	}

	candidate := base
	for i := 1; ; i++ {
		used, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check username %q: %w", candidate, err)
		}
		if !used {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
}
