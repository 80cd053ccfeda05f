package httputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Query    string  `validate:"required"`
	K        int     `validate:"omitempty,gte=1,lte=100"`
	MinScore float64 `validate:"omitempty,gte=0,lte=1"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(&sampleRequest{Query: "q", K: 5, MinScore: 0.3}))
	})

	t.Run("missing required field", func(t *testing.T) {
		err := ValidateStruct(&sampleRequest{K: 5})
		require.Error(t, err)
		fields := GetValidationFields(err)
		assert.Contains(t, fields["Query"], "required")
	})

	t.Run("out of range", func(t *testing.T) {
		err := ValidateStruct(&sampleRequest{Query: "q", K: 500})
		require.Error(t, err)
		fields := GetValidationFields(err)
		assert.Contains(t, fields["K"], "at most 100")
	})

	t.Run("non-validation errors pass through", func(t *testing.T) {
		assert.Nil(t, GetValidationFields(assert.AnError))
	})
}
