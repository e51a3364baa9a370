package scraper

import (
	"math"
	"testing"

	"github.com/GriffinCanCode/webschema/internal/document"
	"github.com/GriffinCanCode/webschema/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"42", 42},
		{"  42abc", 42},
		{"\n\t 7 views", 7},
		{"-15", -15},
		{"+8", 8},
		{"1_000_000", 1000000},
		{"1__0", 1},
		{"_10", 0},
		{"10_", 10},
		{"3.99", 3},
		{"abc", 0},
		{"", 0},
		{"   ", 0},
		{"-", 0},
		{"- 5", 0},
		{"99999999999999999999999", math.MaxInt64},
		{"-99999999999999999999999", math.MinInt64},
		{"-9223372036854775808", math.MinInt64},
		{"9223372036854775807", math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInt(tt.in))
		})
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"3.14", 3.14},
		{"3.14xyz", 3.14},
		{"  -2.5 degrees", -2.5},
		{"42", 42},
		{".5", 0.5},
		{"5.", 5},
		{"1e3", 1000},
		{"1.5E-2x", 0.015},
		{"2e", 2},
		{"2e+", 2},
		{"1_000.5", 1000.5},
		{"abc", 0},
		{"", 0},
		{".", 0},
		{"-", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseFloat(tt.in), 1e-12)
		})
	}
}

func TestParseFloatOverflow(t *testing.T) {
	assert.True(t, math.IsInf(ParseFloat("1e999"), 1))
	assert.True(t, math.IsInf(ParseFloat("-1e999"), -1))
}

func TestCoerce(t *testing.T) {
	doc, err := document.Parse([]byte(`<div><b>  Title  </b><i>12 items</i><u>n/a</u></div>`))
	require.NoError(t, err)

	b, err := document.QueryCSS(doc.Root(), "b")
	require.NoError(t, err)
	i, err := document.QueryCSS(doc.Root(), "i")
	require.NoError(t, err)
	u, err := document.QueryCSS(doc.Root(), "u")
	require.NoError(t, err)

	assert.Equal(t, "Title", coerce(schema.TypeString, b))
	assert.Equal(t, int64(12), coerce(schema.TypeInteger, i))
	assert.Equal(t, 12.0, coerce(schema.TypeFloat, i))
	assert.Equal(t, int64(0), coerce(schema.TypeInteger, u))
	assert.Equal(t, 0.0, coerce(schema.TypeFloat, u))
	assert.Same(t, b, coerce(schema.TypeNode, b))
}

func TestCoerceEmptyResult(t *testing.T) {
	empty := document.NewResult()

	assert.Equal(t, "", coerce(schema.TypeString, empty))
	assert.Equal(t, int64(0), coerce(schema.TypeInteger, empty))
	assert.Equal(t, 0.0, coerce(schema.TypeFloat, empty))

	node := coerce(schema.TypeNode, empty).(*document.Result)
	assert.Equal(t, 0, node.Len())
}
