package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidFieldType(t *testing.T) {
	for _, valid := range []string{
		FieldTypeText, FieldTypeTextarea, FieldTypeNumber, FieldTypeSelect,
		FieldTypeMultiSelect, FieldTypeDate, FieldTypeURL, FieldTypeColor,
	} {
		assert.True(t, ValidFieldType(valid), valid)
	}
	assert.False(t, ValidFieldType("float"))
	assert.False(t, ValidFieldType(""))
}

func TestHasOptions(t *testing.T) {
	assert.True(t, Field{Type: FieldTypeSelect}.HasOptions())
	assert.True(t, Field{Type: FieldTypeMultiSelect}.HasOptions())
	assert.False(t, Field{Type: FieldTypeText}.HasOptions())
	assert.False(t, Field{Type: FieldTypeNumber}.HasOptions())
}

func TestMultiValueRoundTrip(t *testing.T) {
	encoded := EncodeMultiValue([]string{"red", "blue, with comma", "grün"})
	assert.Equal(t, []string{"red", "blue, with comma", "grün"}, DecodeMultiValue(encoded))
}

func TestDecodeMultiValueTolerantOfBadInput(t *testing.T) {
	assert.Nil(t, DecodeMultiValue(""))
	assert.Nil(t, DecodeMultiValue("not json"))
	assert.Nil(t, DecodeMultiValue(`{"wrong": "shape"}`))
}
