package middleware

import (
	"net/http"
	"strings"

	"github.com/JosuePuentes/back-tumundopuertas-sub000/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware exige un JWT valido. Con roles no vacios, el rol del
// token ademas debe estar en la lista.
func AuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("token")
		if err != nil {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token de autorizacion no proporcionado"})
				c.Abort()
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Formato de cabecera Authorization invalido"})
				c.Abort()
				return
			}
			token = parts[1]
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token de autorizacion invalido"})
			c.Abort()
			return
		}
		if len(roles) > 0 {
			permitido := false
			for _, r := range roles {
				if claims.Rol == r {
					permitido = true
					break
				}
			}
			if !permitido {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token de autorizacion invalido"})
				c.Abort()
				return
			}
		}

		c.Set("usuarioID", claims.ID)
		c.Set("usuario", claims.Usuario)
		c.Set("rol", claims.Rol)

		c.Next()
	}
}
