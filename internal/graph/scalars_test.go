package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonNegativeInt(t *testing.T) {
	var n NonNegativeInt
	require.NoError(t, n.UnmarshalGraphQL(int32(10)))
	assert.Equal(t, NonNegativeInt(10), n)
	require.NoError(t, n.UnmarshalGraphQL(float64(0)))
	assert.Equal(t, NonNegativeInt(0), n)

	assert.Error(t, n.UnmarshalGraphQL(int32(-1)))
	assert.Error(t, n.UnmarshalGraphQL(1.5))
	assert.Error(t, n.UnmarshalGraphQL("3"))

	var missing *NonNegativeInt
	assert.Nil(t, missing.int32Ptr())
}

func TestDateTime(t *testing.T) {
	var d DateTime
	require.NoError(t, d.UnmarshalGraphQL("2022-01-01T12:00:00+02:00"))
	assert.True(t, d.Equal(time.Date(2022, 1, 1, 10, 0, 0, 0, time.UTC)))

	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"2022-01-01T10:00:00.000Z"`, string(b))

	assert.Error(t, d.UnmarshalGraphQL("yesterday"))
}

func TestDate(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalGraphQL("2022-01-02"))
	assert.True(t, d.Equal(time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, d.UnmarshalGraphQL("2022-01-02T05:00:00Z"))
	assert.Equal(t, 5, d.Hour())

	assert.Error(t, d.UnmarshalGraphQL(20220102))
}
