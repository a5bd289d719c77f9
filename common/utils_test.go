package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "17179869184 bytes (16 GiB)", FormatBytes(17179869184))
	assert.Equal(t, "65536 bytes (64 KiB)", FormatBytes(65536))
	assert.Equal(t, "0 bytes (0 B)", FormatBytes(0))
}

func TestNanosToMillis(t *testing.T) {
	assert.InDelta(t, 1.5, NanosToMillis(1500000), 1e-9)
	assert.Equal(t, 0.0, NanosToMillis(0))
}

func TestFormatWorkRate(t *testing.T) {
	assert.Equal(t, "9.600G elem/s", FormatWorkRate(9600000, 1))
	assert.Equal(t, "2.0k elem/s", FormatWorkRate(2, 1))
	assert.Equal(t, "0 elem/s", FormatWorkRate(10, 0))
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "Yes", YesNo(true))
	assert.Equal(t, "No", YesNo(false))
}
