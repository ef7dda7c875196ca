package generic

import (
	"encoding/json"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"
)

func TestOption(t *testing.T) {
	assert := assert_.New(t)

	var o Option[int]
	assert.True(o.IsNone())
	assert.Equal(7, o.UnwrapOr(7))
	assert.Nil(o.Ptr())
	assert.Panics(func() { o.Unwrap() })

	o = Some(3)
	assert.True(o.IsSome())
	assert.Equal(3, o.Unwrap())
	v, ok := o.Get()
	assert.True(ok)
	assert.Equal(3, v)
	assert.Equal(3, *o.Ptr())
	assert.Equal(o, None[int]().Or(o))

	x := 5
	assert.Equal(Some(5), FromPtr(&x))
	assert.Equal(None[int](), FromPtr[int](nil))
}

func TestOptionJSON(t *testing.T) {
	assert := assert_.New(t)
	require := require_.New(t)

	type doc struct {
		A Option[float64] `json:"a"`
		B Option[string]  `json:"b"`
	}
	data, err := json.Marshal(doc{A: Some(1.5)})
	require.NoError(err)
	assert.JSONEq(`{"a": 1.5, "b": null}`, string(data))

	var out doc
	require.NoError(json.Unmarshal([]byte(`{"a": null, "b": "x"}`), &out))
	assert.True(out.A.IsNone())
	assert.Equal(Some("x"), out.B)
}
