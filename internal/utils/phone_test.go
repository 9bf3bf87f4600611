package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIndianPhone(t *testing.T) {
	assert.Equal(t, "+919876543210", NormalizeIndianPhone("9876543210"))
	assert.Equal(t, "+919876543210", NormalizeIndianPhone("+919876543210"))
	assert.Equal(t, "+919876543210", NormalizeIndianPhone("919876543210"))
	assert.Equal(t, "+919876543210", NormalizeIndianPhone(" 98765 43210 "))
	assert.Equal(t, "", NormalizeIndianPhone("12345"))
	assert.Equal(t, "", NormalizeIndianPhone(""))
	assert.Equal(t, "", NormalizeIndianPhone("+4412345678901"))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "Passenger • 3210", MaskPhone("+919876543210"))
	assert.Equal(t, "Passenger", MaskPhone("91"))
	assert.Equal(t, "Passenger", MaskPhone(""))
}
