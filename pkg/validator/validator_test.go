package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMobile(t *testing.T) {
	assert.True(t, IsMobile("13800000000"))
	assert.True(t, IsMobile("19912345678"))
	assert.False(t, IsMobile("12800000000"))
	assert.False(t, IsMobile("1380000000"))
	assert.False(t, IsMobile("+8613800000000"))
}

func TestNormalizeGender(t *testing.T) {
	cases := map[string]string{"M": "M", "m": "M", "男": "M", "F": "F", " f ": "F", "女": "F"}
	for in, want := range cases {
		got, ok := NormalizeGender(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := NormalizeGender("X")
	assert.False(t, ok)
}

func TestRegister_CustomTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type form struct {
		Phone  string `json:"phone"  validate:"required,mobile"`
		Gender string `json:"gender" validate:"required,gender"`
	}

	assert.NoError(t, v.Struct(form{Phone: "13800000000", Gender: "F"}))

	err := v.Struct(form{Phone: "123", Gender: "X"})
	require.Error(t, err)
	desc := Describe(err)
	assert.Contains(t, desc, "phone")
	assert.Contains(t, desc, "gender")
}
