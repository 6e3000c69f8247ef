package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := Decode([]byte(s))
	require.NoError(t, err)
	return v
}

func TestFlatten_NestedObjects(t *testing.T) {
	got := Flatten(decode(t, `{"a":{"b":1,"c":{"d":"x"}},"e":true}`))

	assert.Equal(t, map[string]any{
		"a_b":   json.Number("1"),
		"a_c_d": "x",
		"e":     true,
	}, got)
}

func TestFlatten_Arrays(t *testing.T) {
	got := Flatten(decode(t, `{"partes":["A","B"],"vazio":[],"misto":[1,null,{"k":"v"},[2]]}`))

	assert.Equal(t, "A, B", got["partes"])
	assert.Equal(t, "", got["vazio"])
	assert.Equal(t, `1, , {"k":"v"}, [2]`, got["misto"])
}

func TestFlatten_Nulls(t *testing.T) {
	assert.Empty(t, Flatten(nil))

	got := Flatten(decode(t, `{"juiz":null,"x":{"y":null}}`))
	assert.Equal(t, map[string]any{"juiz": "", "x_y": ""}, got)
}

func TestFlatten_EmptyNestedObjectContributesNoKey(t *testing.T) {
	got := Flatten(decode(t, `{"a":{},"b":"x"}`))
	assert.Equal(t, map[string]any{"b": "x"}, got)
}

func TestFlatten_RootScalarAndArray(t *testing.T) {
	assert.Equal(t, map[string]any{ValueKey: "texto"}, Flatten("texto"))
	assert.Equal(t, map[string]any{ValueKey: "1, 2"}, Flatten(decode(t, `[1,2]`)))
}

func TestFlatten_KeyCollisionIsDeterministic(t *testing.T) {
	v := decode(t, `{"a_b":"flat","a":{"b":"nested"}}`)
	first := Flatten(v)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Flatten(v))
	}
}

func TestFlatten_Idempotent(t *testing.T) {
	inputs := []string{
		`{}`,
		`null`,
		`"s"`,
		`42`,
		`[1,[2,3],{"a":null}]`,
		`{"a":{"b":{"c":[true,false]}},"d":null,"e":{},"f":1.5}`,
		`{"numero_processo":"0001","partes":[{"nome":"X"}],"resultado":{"tipo":"procedente","valor":null}}`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Flatten(decode(t, in))
			assert.Equal(t, once, Flatten(once))
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte(`{"a":`))
	assert.Error(t, err)
}
