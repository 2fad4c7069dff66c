package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validationMessage turns validator errors into a short client-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fieldName(fe.Field())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fieldName(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

var fieldNames = map[string]string{
	"JobDescription": "job_description",
	"Query":          "q",
	"Limit":          "limit",
}

func fieldName(field string) string {
	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
