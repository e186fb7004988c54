package handler

import (
	"net/http"
	"reflect"
	"strconv"

	"botilleria/internal/apierror"
	"botilleria/internal/middleware"
	"botilleria/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails; the
// caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a service error to its HTTP status. Backend rejections
// keep the backend's message untouched. Unclassified errors are left to
// middleware.ErrorHandler.
func respondError(c *gin.Context, err error) {
	var status int
	switch apierror.KindOf(err) {
	case apierror.KindValidacion:
		status = http.StatusUnprocessableEntity
	case apierror.KindRechazo:
		status = http.StatusConflict
	case apierror.KindNoEncontrado:
		status = http.StatusNotFound
	case apierror.KindNoAutorizado:
		status = http.StatusUnauthorized
	case apierror.KindTransitorio:
		status = http.StatusBadGateway
	default:
		// middleware.ErrorHandler logs it and writes the 500.
		_ = c.Error(err)
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}

// operador is the operator RequireOperador put in the context.
func operador(c *gin.Context) model.Operador {
	op, _ := middleware.GetOperador(c)
	return op
}

// paramID parses a positive numeric path parameter, writing a 400 when it is not.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return 0, false
	}
	return id, true
}
