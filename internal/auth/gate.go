// Package auth holds the access gate: the one decision procedure behind both
// the admin page interceptor and the per-endpoint API guards.
package auth

import (
	"context"

	"github.com/gallerix/artstore/internal/models"
)

type Decision int

const (
	DecisionAllowed Decision = iota
	DecisionUnauthenticated
	DecisionUnauthorized
)

func (d Decision) String() string {
	switch d {
	case DecisionAllowed:
		return "allowed"
	case DecisionUnauthenticated:
		return "unauthenticated"
	case DecisionUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// UserStore is the persistence collaborator the gate reads principals from.
// A miss returns (nil, nil); errors are infrastructure failures only.
type UserStore interface {
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
}

type Gate struct {
	Users  UserStore
	Secret []byte
}

// Authorize maps a raw cookie token plus the required role of the target
// resource class to one of three outcomes. Every verification failure
// (missing token, bad signature, malformed payload, expired, vanished
// subject) collapses to Unauthenticated; the caller is never told which.
// Exactly one principal lookup happens per call and nothing is written.
func (g *Gate) Authorize(ctx context.Context, rawToken string, required models.Role) (Decision, *models.User, error) {
	if rawToken == "" {
		return DecisionUnauthenticated, nil, nil
	}

	userID, err := ParseSession(rawToken, g.Secret)
	if err != nil {
		return DecisionUnauthenticated, nil, nil
	}

	user, err := g.Users.FindUserByID(ctx, userID)
	if err != nil {
		return DecisionUnauthenticated, nil, err
	}
	if user == nil {
		// Token outlived its account.
		return DecisionUnauthenticated, nil, nil
	}

	// Exact match, no hierarchy: an admin token does not open user-only
	// resources.
	if user.Role != required {
		return DecisionUnauthorized, nil, nil
	}

	return DecisionAllowed, user, nil
}
