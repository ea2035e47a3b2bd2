package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMap(t *testing.T) {
	type schema struct {
		Type       string                 `json:"type"`
		Properties map[string]interface{} `json:"properties,omitempty"`
		Required   []string               `json:"required,omitempty"`
	}
	m, err := ToMap(schema{Type: "object", Required: []string{"code"}})
	require.NoError(t, err)
	assert.Equal(t, "object", m["type"])
	assert.EqualValues(t, []interface{}{"code"}, m["required"])
	assert.NotContains(t, m, "properties")

	m, err = ToMap(&schema{Type: "object"})
	require.NoError(t, err)
	assert.Equal(t, "object", m["type"])

	same := map[string]interface{}{"a": 1}
	m, err = ToMap(same)
	require.NoError(t, err)
	assert.Equal(t, same, m)

	m, err = ToMap(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = ToMap("not an object")
	assert.Error(t, err)
	_, err = ToMap(make(chan int))
	assert.Error(t, err)
}

func TestJSONText(t *testing.T) {
	assert.Equal(t, `{"type":"image","mimeType":"image/png"}`, JSONText(struct {
		Type     string `json:"type"`
		MimeType string `json:"mimeType"`
	}{"image", "image/png"}))
	assert.Equal(t, `"text"`, JSONText("text"))
	assert.NotEmpty(t, JSONText(make(chan int)))
}

func TestDereference(t *testing.T) {
	value := "x"
	assert.Equal(t, "", Dereference[string](nil))
	assert.Equal(t, "x", Dereference(&value))
	assert.False(t, Dereference[bool](nil))
}
