package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"eventdesk/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report JSON / query names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// bindAndValidate binds the JSON body and runs the validate tags. On failure
// it writes a 400 with one message per violated rule and returns false.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apierror.Validation("Invalid JSON", jsonErrorDetail(err)))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery binds and validates query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		respondError(c, apierror.Validation("Invalid query parameters", err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(c, err)
		return false
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldMessage(fe))
	}
	respondError(c, apierror.Validation("Invalid request body", details...))
	return false
}

// fieldMessage renders a validator error as "items[0].quantity: ...".
func fieldMessage(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "this field is required"
	case "min":
		msg = "must be at least " + fe.Param()
	case "max":
		msg = "must be at most " + fe.Param()
	case "email":
		msg = "enter a valid email address"
	case "oneof":
		msg = fmt.Sprintf("%q is not a valid choice (%s)", fmt.Sprint(fe.Value()), fe.Param())
	case "datetime":
		msg = "date has wrong format, use " + fe.Param()
	default:
		msg = "failed " + fe.Tag() + " check"
	}
	return ns + ": " + msg
}

func jsonErrorDetail(err error) string {
	s := err.Error()
	if strings.HasPrefix(s, "json: ") {
		return strings.TrimPrefix(s, "json: ")
	}
	return s
}

// respondError attaches err for logging and writes the mapped envelope.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(apierror.StatusOf(err), apierror.Response(err))
}

// parseID reads the :id path parameter. Non-numeric ids are a 404.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, apierror.New("Not found"))
		return 0, false
	}
	return uint(id), true
}
