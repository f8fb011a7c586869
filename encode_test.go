package reql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprTimeProducesISO8601Term(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	term := Expr(now)
	assert.Equal(t, "ISO8601", term.termType.String())
}

func TestExprBytesProducesBinaryTerm(t *testing.T) {
	term := Expr([]byte("hello"))
	built, err := term.build()
	require.NoError(t, err)

	m, ok := built.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, pseudoTypeBinary, m["$reql_type$"])
}

func TestExprSliceProducesMakeArray(t *testing.T) {
	built, err := Expr([]int{1, 2, 3}).build()
	require.NoError(t, err)

	arr, ok := built.([]interface{})
	require.True(t, ok)
	assert.Equal(t, int(2), arr[0]) // Term_MAKE_ARRAY == 2
}

func TestExprPassesThroughExistingTerm(t *testing.T) {
	inner := Table("people")
	wrapped := Expr(inner)
	assert.Equal(t, inner, wrapped)
}

func TestDecodePseudoTypesIsIdempotent(t *testing.T) {
	raw := map[string]interface{}{
		"$reql_type$": "TIME",
		"epoch_time":  float64(1700000000),
		"timezone":    "+00:00",
	}

	once, err := decodePseudoTypes(raw, decodeOpts{})
	require.NoError(t, err)
	asTime, ok := once.(time.Time)
	require.True(t, ok)

	twice, err := decodePseudoTypes(asTime, decodeOpts{})
	require.NoError(t, err)
	assert.Equal(t, asTime, twice)
}

func TestDecodeGroupedData(t *testing.T) {
	raw := map[string]interface{}{
		"$reql_type$": "GROUPED_DATA",
		"data": []interface{}{
			[]interface{}{"a", float64(1), float64(2)},
			[]interface{}{"b", float64(3)},
		},
	}

	decoded, err := decodePseudoTypes(raw, decodeOpts{})
	require.NoError(t, err)

	groups, ok := decoded.([]GroupedItem)
	require.True(t, ok)
	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0].Group)
	assert.Equal(t, []interface{}{float64(1), float64(2)}, groups[0].Items)
}

func TestDecodeBinaryRawOption(t *testing.T) {
	raw := map[string]interface{}{
		"$reql_type$": "BINARY",
		"data":        "aGVsbG8=",
	}

	decoded, err := decodePseudoTypes(raw, decodeOpts{rawBinary: true})
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestFormatReqlTimezoneRoundTrips(t *testing.T) {
	loc := time.FixedZone("", -5*3600-30*60)
	tz := formatReqlTimezone(time.Date(2024, 1, 1, 0, 0, 0, 0, loc))
	assert.Equal(t, "-05:30", tz)

	parsedLoc, offset, err := parseReqlTimezone(tz)
	require.NoError(t, err)
	assert.Equal(t, -5*3600-30*60, offset)
	assert.NotNil(t, parsedLoc)
}
