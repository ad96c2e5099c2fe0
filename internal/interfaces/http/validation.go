package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores usan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct devuelve nil si in es válido; si no, el cuerpo 400 con el
// detalle por campo.
func validateStruct(in any) *dto.ValidationErrorResponse {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	out := &dto.ValidationErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: map[string]string{}}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Message = err.Error()
		return out
	}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "min":
		if fe.Kind() == reflect.String {
			return "debe tener al menos " + fe.Param() + " caracteres"
		}
		return "debe ser mayor o igual a " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "debe tener como máximo " + fe.Param() + " caracteres"
		}
		return "debe ser menor o igual a " + fe.Param()
	case "gte":
		return "debe ser mayor o igual a " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "email":
		return "correo inválido"
	case "eqfield":
		return "no coincide con " + strings.ToLower(fe.Param())
	default:
		return "valor inválido (" + fe.Tag() + ")"
	}
}
