package common

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type checkIn struct {
	Project     int    `json:"project" binding:"required"`
	CheckInTime string `json:"check_in_time" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	Notes       string `json:"notes" binding:"omitempty,notblank"`
	Date        string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

func TestFieldErrorsUseJSONNames(t *testing.T) {
	err := binding.Validator.ValidateStruct(&checkIn{Email: "nope", Notes: "  ", Date: "06/05/2024"})
	fields := FieldErrors(err)
	assert.Equal(t, map[string][]string{
		"project":       {"This field is required."},
		"check_in_time": {"This field is required."},
		"email":         {"Enter a valid email address."},
		"notes":         {"This field may not be blank."},
		"date":          {"Date has wrong format. Use YYYY-MM-DD."},
	}, fields)

	assert.Nil(t, FieldErrors(io.EOF))
}

func TestFormatBindingError(t *testing.T) {
	assert.Equal(t, "Request body is empty", FormatBindingError(io.EOF))

	var v checkIn
	err := json.Unmarshal([]byte(`{"project": "one"}`), &v)
	assert.Equal(t, "Field 'project' should be of type int", FormatBindingError(err))

	err = json.Unmarshal([]byte(`{"project": `), &v)
	assert.Equal(t, "Invalid JSON at byte offset 12", FormatBindingError(err))
}
