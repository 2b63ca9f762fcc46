// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/recipebox/internal/platform/apperr"
	"github.com/taibuivan/recipebox/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "Pancakes", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Lengths checks rune and byte length limits.
*/
func TestValidator_Lengths(t *testing.T) {
	// "é" is one rune but two bytes
	value := strings.Repeat("é", 4)

	v := &validate.Validator{}
	v.MaxLen("title", value, 4)
	assert.False(t, v.HasErrors())

	v.MaxBytes("password", value, 4)
	assert.True(t, v.HasErrors())
}

/*
TestValidator_Chain verifies that every failure is collected.
*/
func TestValidator_Chain(t *testing.T) {
	err := (&validate.Validator{}).
		Required("title", "").
		Required("description", "ok").
		Custom("image", true, "Unsupported image type").
		Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 2)
	assert.Equal(t, "title", ae.Details[0].Field)
	assert.Equal(t, "image", ae.Details[1].Field)
}
