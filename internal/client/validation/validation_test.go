package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username string `label:"Username" validate:"required,min=3,max=50,username"`
	Email    string `label:"Email" validate:"required,email"`
	Phone    string `label:"Phone" validate:"required,phone"`
	FullName string `label:"Full name" validate:"required,min=2,max=100"`
}

type payForm struct {
	Receiver string  `label:"Receiver" validate:"required,upi"`
	Amount   float64 `label:"Amount" validate:"gte=1,lte=100000"`
	Mobile   string  `label:"Mobile" validate:"omitempty,mobile"`
	Card     string  `label:"Card" validate:"omitempty,digits4"`
	Note     string  `validate:"max=255"`
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(signupForm{
		Username: "alice_01", Email: "alice@example.com", Phone: "+919876543210", FullName: "Alice",
	}))
	require.NoError(t, v.Struct(payForm{Receiver: "bob.k@okaxis", Amount: 1, Mobile: "9876543210", Card: "1234"}))
}

func TestStruct_CollectsFieldMessages(t *testing.T) {
	v := New()
	err := v.Struct(signupForm{Username: "al", Email: "nope", Phone: "12", FullName: ""})

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Equal(t, map[string]string{
		"Username":  "Username must be at least 3 characters",
		"Email":     "Email must be a valid email address",
		"Phone":     "Phone must be 10 to 15 digits, optionally starting with +",
		"Full name": "Full name is required",
	}, verr.Fields)
}

func TestStruct_CustomTags(t *testing.T) {
	v := New()
	cases := []struct {
		name  string
		form  payForm
		field string
		msg   string
	}{
		{"bad upi", payForm{Receiver: "bob", Amount: 5}, "Receiver", "Receiver must look like name@bank"},
		{"too small", payForm{Receiver: "b@x", Amount: 0.5}, "Amount", "Amount must be at least 1"},
		{"too large", payForm{Receiver: "b@x", Amount: 100001}, "Amount", "Amount must be at most 100000"},
		{"mobile", payForm{Receiver: "b@x", Amount: 5, Mobile: "98765"}, "Mobile", "Mobile must be a 10-digit mobile number"},
		{"card", payForm{Receiver: "b@x", Amount: 5, Card: "12a4"}, "Card", "Card must be exactly 4 digits"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var verr *Error
			require.ErrorAs(t, v.Struct(tc.form), &verr)
			assert.Equal(t, tc.msg, verr.Fields[tc.field])
			assert.Len(t, verr.Fields, 1)
		})
	}
}

func TestStruct_UnlabeledFieldUsesName(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'x'
	}
	var verr *Error
	require.ErrorAs(t, New().Struct(payForm{Receiver: "b@x", Amount: 5, Note: string(long)}), &verr)
	assert.Equal(t, "Note must be at most 255 characters", verr.Fields["Note"])
}

func TestStruct_NonStructIsNotValidationError(t *testing.T) {
	err := New().Struct(42)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestVar(t *testing.T) {
	v := New()
	require.NoError(t, v.Var("alice@upi", "required,upi", "UPI ID"))

	err := v.Var("alice", "required,upi", "UPI ID")
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "UPI ID must look like name@bank", verr.Error())
}

func TestError_MessageIsSorted(t *testing.T) {
	e := &Error{Fields: map[string]string{"b": "second", "a": "first"}}
	assert.Equal(t, "first; second", e.Error())
}

func TestNew_RegistersCustomTags(t *testing.T) {
	var v *Validator
	require.NotPanics(t, func() { v = New() })

	type tagged struct {
		UPI  string `validate:"upi"`
		PIN  string `validate:"digits4"`
		Name string `validate:"username"`
	}
	assert.NoError(t, v.Struct(tagged{UPI: "alice@upi", PIN: "1234", Name: "alice_1"}))
	assert.Error(t, v.Struct(tagged{UPI: "alice", PIN: "12a4", Name: "a b"}))
}
