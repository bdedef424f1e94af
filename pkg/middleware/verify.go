package middleware

import (
	"net/http"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/services"
	"github.com/campuslink/campuslink/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireVerified re-reads the user document so a block or pending status
// takes effect immediately, regardless of what the token still says. It also
// touches the user's last-active timestamp.
func RequireVerified(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := userService.GetUser(r.Context(), claims.UserID)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			switch user.VerificationStatus {
			case models.StatusBlocked:
				logger.Log.Warnf("Blocked user %s attempted access", claims.UserID)
				http.Error(w, "Account blocked", http.StatusUnauthorized)
				return
			case models.StatusVerified:
				// allowed
			default:
				http.Error(w, "Account pending verification", http.StatusForbidden)
				return
			}

			if userID, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
				_ = userService.UpdateLastActive(r.Context(), userID)
			}

			next.ServeHTTP(w, r)
		})
	}
}
