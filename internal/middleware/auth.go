package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"botilleria/internal/apierror"
	"botilleria/internal/model"

	"github.com/gin-gonic/gin"
)

const OperadorKey = "operador"

// OperadorActual resolves the operator logged in at this terminal.
type OperadorActual interface {
	Actual(ctx context.Context) (*model.Operador, error)
}

// RequireOperador admits requests carrying the bearer token of the operator
// currently logged in at this terminal.
func RequireOperador(operadores OperadorActual) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		op, err := operadores.Actual(c.Request.Context())
		if err != nil {
			msg := "Sesion no iniciada"
			if apierror.KindOf(err) == apierror.KindNoAutorizado {
				msg = err.Error()
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(msg))
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(op.Token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		c.Set(OperadorKey, *op)
		c.Next()
	}
}

// GetOperador retrieves the operator set by RequireOperador.
func GetOperador(c *gin.Context) (model.Operador, bool) {
	v, exists := c.Get(OperadorKey)
	if !exists {
		return model.Operador{}, false
	}
	op, ok := v.(model.Operador)
	return op, ok
}
