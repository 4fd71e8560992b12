package app

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type EventInput struct {
	Title       string    `json:"title" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime" validate:"required,gtefield=StartTime"`
	CategoryID  string    `json:"categoryId"`
}

type commentInput struct {
	Text string `json:"text" validate:"required"`
}

var messages = map[string]string{
	"title.required":      "Title is required",
	"location.required":   "Location is required",
	"startTime.required":  "Start date is required",
	"endTime.required":    "End date is required",
	"endTime.gtefield":    "End date must be after or equal to start date",
	"categoryId.required": "Category is required",
	"text.required":       "Comment text is required",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (in EventInput) trimmed() EventInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	return in
}

// validateStruct reports the first failing field, in declaration order.
func (a *App) validateStruct(s interface{}) error {
	err := a.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}
	fe := fieldErrors[0]
	return fieldError(fe.Field(), fe.Tag())
}

func fieldError(field, tag string) *ValidationError {
	message, ok := messages[field+"."+tag]
	if !ok {
		message = field + " is invalid"
	}
	return &ValidationError{Field: field, Message: message}
}
