package auth

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// Claims is the subset of access-token claims this service acts on. Tokens are
// issued elsewhere; they are only verified here.
type Claims struct {
	UserID    string
	CompanyID string
	Role      user.Role
}

// ClaimsFromContext reads the verified token placed in ctx by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return Claims{}, fmt.Errorf("company_id claim is missing or invalid: %w", ErrMissingClaims)
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)

	return Claims{
		UserID:    userID,
		CompanyID: companyID,
		Role:      user.Role(role),
	}, nil
}
