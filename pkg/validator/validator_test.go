package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusPayload struct {
	Status   string `json:"status" validate:"required,task_status"`
	Position string `json:"position" validate:"omitempty,progress_status"`
}

func TestValidate_CustomStatuses(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(statusPayload{Status: "in_progress"}))
	assert.NoError(t, v.Validate(statusPayload{Status: "delayed", Position: "at_risk"}))

	err := v.Validate(statusPayload{Status: "paused"})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs.Errors, 1)
	// Имя поля берется из JSON-тега
	assert.Equal(t, "status", verrs.Errors[0].Field)
}

func TestValidate_RequiredMessage(t *testing.T) {
	v := NewValidator()

	err := v.Validate(statusPayload{})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "This field is required", verrs.Errors[0].Message)
}
