package middleware

import (
	"net/http"

	"glowify-backend/internal/domain"
	"glowify-backend/pkg/logger"
	"glowify-backend/pkg/utils"
)

func userFromRequest(r *http.Request) (*domain.User, error) {
	claims, err := utils.ExtractClaims(r)
	if err != nil {
		return nil, err
	}
	// Token claims are sufficient; users live in the identity service.
	return &domain.User{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, nil
}

func withUser(r *http.Request, user *domain.User) *http.Request {
	ctx := domain.ContextWithUser(r.Context(), user)
	l := logger.WithUserID(*logger.WithContext(ctx), user.ID)
	return r.WithContext(logger.NewContext(ctx, &l))
}

// AuthMiddleware rejects requests without a valid access token.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := userFromRequest(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Invalid or missing token")
			return
		}
		next.ServeHTTP(w, withUser(r, user))
	})
}

// OptionalAuth attaches the user when a valid token is present and lets
// guests through otherwise.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := userFromRequest(r); err == nil {
			r = withUser(r, user)
		}
		next.ServeHTTP(w, r)
	})
}
