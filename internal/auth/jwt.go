package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/solemia/studio-api/internal/config"
	"github.com/solemia/studio-api/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// JWTValidator validates tokens issued by the Solemia account service.
// Tokens are signed with a shared HS256 secret.
type JWTValidator struct {
	config *config.AuthConfig
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(cfg *config.AuthConfig) *JWTValidator {
	return &JWTValidator{config: cfg}
}

// ValidateToken validates a JWT token and returns user context
func (v *JWTValidator) ValidateToken(tokenString string) (*UserContext, error) {
	if v.config.JWTSecret == "" {
		return nil, fmt.Errorf("%w: signing secret not configured", ErrInvalidToken)
	}

	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.config.JWTSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsedToken.Valid {
		return nil, ErrInvalidToken
	}

	// Validate audience
	if v.config.Audience != "" {
		aud, _ := claims.GetAudience()
		validAud := false
		for _, a := range aud {
			if a == v.config.Audience {
				validAud = true
				break
			}
		}
		if !validAud {
			return nil, fmt.Errorf("%w: invalid audience", ErrInvalidToken)
		}
	}

	// Validate issuer
	if v.config.Issuer != "" {
		iss, _ := claims.GetIssuer()
		if iss != v.config.Issuer {
			return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidToken)
		}
	}

	// Extract user information
	userCtx := &UserContext{
		UserID:      extractString(claims, "sub", "uid"),
		DisplayName: extractString(claims, "name", "preferred_username"),
		Email:       extractString(claims, "email"),
		Roles:       ExtractRoles(claims),
		TenantID:    extractTenant(claims),
	}

	if userCtx.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return userCtx, nil
}

func extractString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if val, ok := claims[key]; ok {
			if str, ok := val.(string); ok && str != "" {
				return str
			}
		}
	}
	return ""
}

// extractTenant reads the tenant claim, defaulting to the "all" scope for
// tokens that carry no tenant (owner accounts)
func extractTenant(claims jwt.MapClaims) domain.TenantID {
	tenant := domain.TenantID(extractString(claims, "tenant", "tid"))
	if tenant == "" {
		return domain.TenantAll
	}
	return tenant
}

// ExtractRoles reads the roles claim, accepting both a list and a single
// string under either "roles" or "role".
func ExtractRoles(claims jwt.MapClaims) []domain.UserRoleType {
	roles := []domain.UserRoleType{}
	for _, key := range []string{"roles", "role"} {
		switch v := claims[key].(type) {
		case []interface{}:
			for _, r := range v {
				if str, ok := r.(string); ok {
					roles = append(roles, domain.UserRoleType(str))
				}
			}
		case string:
			roles = append(roles, domain.UserRoleType(v))
		}
	}
	return roles
}
