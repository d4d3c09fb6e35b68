package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinic/clinic/pkg/apperr"
)

type sample struct {
	Name    string  `json:"name" validate:"required"`
	Kind    string  `json:"billing_type" validate:"required,oneof=per-session monthly"`
	Rate    float64 `json:"rate" validate:"gt=0"`
	Date    string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Minutes string  `json:"duration" validate:"omitempty,numeric"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(sample{Name: "Dana", Kind: "monthly", Rate: 300, Date: "2024-01-31", Minutes: "45"})
	assert.NoError(t, err)
}

func TestStruct_CollectsFieldMessages(t *testing.T) {
	err := Struct(sample{Kind: "weekly", Date: "31/01/2024", Minutes: "abc"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	msg := apperr.Message(err)
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "billing_type must be one of: per-session, monthly")
	assert.Contains(t, msg, "rate must be greater than 0")
	assert.Contains(t, msg, "date must match format 2006-01-02")
	assert.Contains(t, msg, "duration must be numeric")
}
