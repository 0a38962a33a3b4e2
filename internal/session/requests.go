package session

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/a3tai/turni-pdf/internal/roster"
)

// Row numbers in requests are 1-based, matching the numbered shift table.

// AddShiftRequest adds one shift to the schedule
type AddShiftRequest struct {
	Day      string `json:"day" validate:"required,dayname"`
	Date     string `json:"date" validate:"required,numeric,max=2"`
	Location string `json:"location" validate:"required,max=120"`
	Time     string `json:"time" validate:"omitempty,timerange"`
	Bathroom string `json:"bathroom" validate:"omitempty,max=8"`
}

// EditShiftsRequest applies the same changes to one or more rows. Blank
// fields keep each row's value.
type EditShiftsRequest struct {
	Rows     []int  `json:"rows" validate:"required,min=1,dive,gte=1"`
	Location string `json:"location" validate:"omitempty,max=120"`
	Time     string `json:"time" validate:"omitempty,timerange"`
	Bathroom string `json:"bathroom" validate:"omitempty,max=8"`
}

// DeleteShiftRequest removes one row
type DeleteShiftRequest struct {
	Row int `json:"row" validate:"gte=1"`
}

var timeRangePattern = regexp.MustCompile(`^\s*\d{1,2}:\d{2}\s*-\s*\d{1,2}:\d{2}\s*$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails for empty tags or nil functions
	_ = v.RegisterValidation("dayname", func(fl validator.FieldLevel) bool {
		_, ok := roster.ParseDay(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("timerange", func(fl validator.FieldLevel) bool {
		return timeRangePattern.MatchString(fl.Field().String())
	})

	return v
}

// describe turns validation errors into one readable line
func describe(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "dayname":
			msgs = append(msgs, fmt.Sprintf("%q is not an Italian weekday", fe.Value()))
		case "timerange":
			msgs = append(msgs, fmt.Sprintf("%q is not a time range like 08:00-14:00", fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s fails %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
		}
	}
	return stderrors.New(strings.Join(msgs, "; "))
}
