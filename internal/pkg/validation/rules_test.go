package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type approvalInput struct {
	StudentID      string  `validate:"required,studentid"`
	IdentityNumber *string `validate:"omitempty,idnumber"`
}

func TestRegisterRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterRules(v))

	str := func(s string) *string { return &s }

	cases := []struct {
		name  string
		input approvalInput
		valid bool
	}{
		{"plain student id", approvalInput{StudentID: "2020001"}, true},
		{"ticket with letters", approvalInput{StudentID: "T2020X01"}, true},
		{"student id with spaces", approvalInput{StudentID: "2020 001"}, false},
		{"18 char identity number", approvalInput{StudentID: "2020001", IdentityNumber: str("31010120000101123X")}, true},
		{"15 digit identity number", approvalInput{StudentID: "2020001", IdentityNumber: str("310101000101123")}, true},
		{"short identity number", approvalInput{StudentID: "2020001", IdentityNumber: str("1234")}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.input)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRegisterGinRulesIsIdempotent(t *testing.T) {
	require.NoError(t, RegisterGinRules())
	require.NoError(t, RegisterGinRules())
}
