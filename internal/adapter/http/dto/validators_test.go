package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" 99.95 ")
	require.NoError(t, err)
	assert.Equal(t, "99.95", d.String())

	_, err = ParseAmount("not-a-number")
	assert.Error(t, err)

	_, err = ParseAmount("")
	assert.Error(t, err)
}

func TestSanitizeStruct(t *testing.T) {
	desc := "  <b>bold</b>  "
	req := struct {
		Name string
		Desc *string
	}{
		Name: "  hello ",
		Desc: &desc,
	}

	SanitizeStruct(&req)
	assert.Equal(t, "hello", req.Name)
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", *req.Desc)
}

func TestSanitizeStruct_NonStruct(t *testing.T) {
	// Must not panic on non-pointer or non-struct input.
	SanitizeStruct("plain string")
	SanitizeStruct(nil)
}
