package api

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rongwang/finance-tracker-server/internal/service"
)

var registerOnce sync.Once

// registerValidators teaches gin's validator about decimal amounts, the
// yyyymm month tag and JSON field names. Safe to call more than once.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

		_ = v.RegisterValidation("yyyymm", func(fl validator.FieldLevel) bool {
			return service.ValidMonth(fl.Field().String())
		})

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})
	})
}

// decimalValue lets numeric tags such as gt=0 compare decimal amounts
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
