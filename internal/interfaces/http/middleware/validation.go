package middleware

import (
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures the binding validator with custom tags
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("daily_ref", validDailyRef)
	_ = v.RegisterValidation("month_ref", validMonthRef)
}

// validDailyRef accepts YYYYMMDD reference numbers that denote a real date
func validDailyRef(fl validator.FieldLevel) bool {
	ref := fl.Field().Int()
	if ref < 10000101 || ref > 99991231 {
		return false
	}
	year := int(ref / 10000)
	month := int(ref / 100 % 100)
	day := int(ref % 100)
	if month < 1 || month > 12 {
		return false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Year() == year && int(d.Month()) == month && d.Day() == day
}

// validMonthRef accepts YYYYMM reference numbers
func validMonthRef(fl validator.FieldLevel) bool {
	ref := fl.Field().Int()
	if ref < 100001 || ref > 999912 {
		return false
	}
	month := ref % 100
	return month >= 1 && month <= 12
}
