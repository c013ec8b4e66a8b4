package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBookingCode(t *testing.T) {
	code := GenerateBookingCode()
	assert.Regexp(t, regexp.MustCompile(`^TRIP-\d+-[0-9A-F]{6}$`), code)

	other := GenerateBookingCode()
	assert.NotEqual(t, code, other)
}

func TestRandomDigits(t *testing.T) {
	s := RandomDigits(6)
	assert.Len(t, s, 6)
	assert.True(t, IsNumeric(s))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 42, ParseInt("42", 0))
	assert.Equal(t, 42, ParseInt(" 42 ", 0))
	assert.Equal(t, 7, ParseInt("abc", 7))
	assert.Equal(t, 7, ParseInt("", 7))
}

func TestParseInt64(t *testing.T) {
	assert.Equal(t, int64(1500000), ParseInt64("1500000", 0))
	assert.Equal(t, int64(-1), ParseInt64("x", -1))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "1,500,000", FormatNumber(1500000))
	assert.Equal(t, "-25,000", FormatNumber(-25000))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("0123"))
	assert.True(t, IsNumeric(" 99 "))
	assert.False(t, IsNumeric(""))
	assert.False(t, IsNumeric("12a"))
	assert.False(t, IsNumeric("-5"))
}
