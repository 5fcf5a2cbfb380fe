package erpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStr(t *testing.T) {
	r := Record{"a": "  hola  ", "b": nil, "n": float64(42)}
	assert.Equal(t, "hola", r.Str("a"))
	assert.Equal(t, "", r.Str("b"))
	assert.Equal(t, "", r.Str("missing"))
	assert.Equal(t, "42", r.Str("n"))
}

func TestRecordF64(t *testing.T) {
	r := Record{
		"num":   12.5,
		"str":   "12.5",
		"comma": "1250,5", // the ERP's decimal comma
		"empty": "",
		"null":  nil,
	}
	assert.Equal(t, 12.5, r.F64("num"))
	assert.Equal(t, 12.5, r.F64("str"))
	assert.Equal(t, 1250.5, r.F64("comma"))
	assert.Zero(t, r.F64("empty"))
	assert.Zero(t, r.F64("null"))
	assert.Zero(t, r.F64("missing"))
}

func TestRecordI64(t *testing.T) {
	r := Record{"qty": float64(10), "frac": 3.9, "s": "7"}
	assert.EqualValues(t, 10, r.I64("qty"))
	assert.EqualValues(t, 3, r.I64("frac"))
	assert.EqualValues(t, 7, r.I64("s"))
	assert.Zero(t, r.I64("missing"))
}

func TestRecordPtrHelpers(t *testing.T) {
	r := Record{"marca": "Fixal", "vacia": "", "nula": nil, "peso": 0.012}

	require.NotNil(t, r.StrPtr("marca"))
	assert.Equal(t, "Fixal", *r.StrPtr("marca"))
	assert.Nil(t, r.StrPtr("vacia"))
	assert.Nil(t, r.StrPtr("nula"))
	assert.Nil(t, r.StrPtr("missing"))

	require.NotNil(t, r.F64Ptr("peso"))
	assert.Equal(t, 0.012, *r.F64Ptr("peso"))
	assert.Nil(t, r.F64Ptr("missing"))
	assert.Nil(t, r.F64Ptr("nula"))
}

func TestRecordHas(t *testing.T) {
	r := Record{"a": "x", "b": nil}
	assert.True(t, r.Has("a"))
	assert.False(t, r.Has("b"))
	assert.False(t, r.Has("c"))
}
