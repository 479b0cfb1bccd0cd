package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/19kjuan/invetario-proyecto/internal/apierror"
	"github.com/19kjuan/invetario-proyecto/internal/middleware"
	"github.com/19kjuan/invetario-proyecto/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
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
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
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

// writeServiceError maps the service error taxonomy to HTTP statuses.
// Unexpected errors (storage faults) become a generic 500: the transaction
// already rolled back and the caller may simply resubmit.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVentaTerminal):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrValidacion), errors.Is(err, service.ErrStockInsuficiente):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Err(err).
			Msg("service error")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
