package setter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexValidator(t *testing.T) {
	v := IndexValidator{}
	canon, err := v.Validate("-42")
	assert.NoError(t, err)
	assert.Equal(t, "-42", canon)

	_, err = v.Validate("not-a-number")
	assert.Error(t, err)
}

func TestPortValidator(t *testing.T) {
	v := PortValidator{}
	canon, err := v.Validate("8080")
	assert.NoError(t, err)
	assert.Equal(t, "8080", canon)

	_, err = v.Validate("70000")
	assert.Error(t, err)
}

func TestUnprivilegedPortValidator(t *testing.T) {
	v := UnprivilegedPortValidator{}
	_, err := v.Validate("80")
	assert.Error(t, err)

	canon, err := v.Validate("8080")
	assert.NoError(t, err)
	assert.Equal(t, "8080", canon)
}

func TestBytesValidatorNoBounds(t *testing.T) {
	v := BytesValidator{}
	canon, err := v.Validate("5MiB")
	assert.NoError(t, err)
	assert.Equal(t, "5242880", canon)
}

func TestBytesValidatorRejectsOverMax(t *testing.T) {
	max := int64(1000000)
	v := BytesValidator{Max: &max}
	_, err := v.Validate("5MiB")
	assert.Error(t, err)

	canon, err := v.Validate("5B")
	assert.NoError(t, err)
	assert.Equal(t, "5", canon)
}

func TestBytesValidatorCompleteOmitsSuffixesOverMax(t *testing.T) {
	max := int64(2000)
	v := BytesValidator{Max: &max}
	cands, err := v.Complete("")
	assert.NoError(t, err)
	assert.Contains(t, cands, "B")
	assert.NotContains(t, cands, "MiB")
}
