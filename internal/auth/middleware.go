package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/byAMC31/ProyectoKn/internal/users"
)

const (
	msgNoToken      = "Token no proporcionado"
	msgInvalidToken = "Token inválido o expirado"
	msgRevokedToken = "El token ha sido revocado. Vuelve a iniciar sesión."
)

// RequireAuth gates a request on a valid, non-revoked bearer token. The user
// row is re-read from the store on every request; that re-read is what makes
// a password change take effect immediately without a token blacklist.
func RequireAuth(db *gorm.DB, tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgNoToken})
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgInvalidToken})
			return
		}

		var u users.User
		if err := db.First(&u, claims.UserID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgInvalidToken})
			return
		}

		if Revoked(claims.IssuedAt.Time, u.PasswordChangedAt) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgRevokedToken})
			return
		}

		c.Set("user_id", u.ID)
		c.Set("user_role", u.Role)
		c.Next()
	}
}
