package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignAndVerify(t *testing.T) {
	signature := HMACSign("ABCDE1234F", "secret-key")
	assert.Len(t, signature, 64)

	assert.True(t, HMACVerify("ABCDE1234F", signature, "secret-key"))
	assert.False(t, HMACVerify("ABCDE1234X", signature, "secret-key"))
	assert.False(t, HMACVerify("ABCDE1234F", signature, "other-key"))

	// Подпись детерминирована
	assert.Equal(t, signature, HMACSign("ABCDE1234F", "secret-key"))
}

func TestMaskDocumentNumber(t *testing.T) {
	assert.Equal(t, "******234F", MaskDocumentNumber("ABCDE1234F"))
	assert.Equal(t, "1234", MaskDocumentNumber("1234"))
	assert.Equal(t, "12", MaskDocumentNumber("12"))
}
