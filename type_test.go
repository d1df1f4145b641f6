// File: lixenwraith/composer/type_test.go
package composer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTypedAccessors tests the converting getters
func TestTypedAccessors(t *testing.T) {
	s := NewSchema("Mixed")
	s.MustRegister("text", []Type{Of[string]()}, WithDefault("42"))
	s.MustRegister("count", []Type{Of[int]()}, WithDefault(7))
	s.MustRegister("ratio", []Type{Of[float64]()}, WithDefault(2.5))
	s.MustRegister("on", []Type{Of[bool]()}, WithDefault(true))
	s.MustRegister("wait", []Type{Of[time.Duration]()}, WithDefault(time.Minute))
	s.MustRegister("big", []Type{Of[uint64]()}, WithDefault(^uint64(0)))
	s.MustRegister("empty", []Type{Of[string]()})
	s.MustRegister("word", []Type{Of[string]()}, WithDefault("maybe"))
	require.NoError(t, s.RegisterBlock("http_client", newClientSchema(), BlockOptions{}))
	inst := s.New()

	t.Run("String", func(t *testing.T) {
		for field, expected := range map[string]string{
			"text":  "42",
			"count": "7",
			"ratio": "2.5",
			"on":    "true",
			"wait":  "1m0s",
			"empty": "",
		} {
			v, err := inst.String(field)
			require.NoError(t, err, "field %s", field)
			assert.Equal(t, expected, v, "field %s", field)
		}
	})

	t.Run("Int64", func(t *testing.T) {
		for field, expected := range map[string]int64{
			"text":  42,
			"count": 7,
			"ratio": 2,
			"on":    1,
			"wait":  int64(time.Minute),
		} {
			v, err := inst.Int64(field)
			require.NoError(t, err, "field %s", field)
			assert.Equal(t, expected, v, "field %s", field)
		}

		_, err := inst.Int64("big")
		assert.ErrorContains(t, err, "overflow")
		_, err = inst.Int64("empty")
		assert.ErrorContains(t, err, "unset")
		_, err = inst.Int64("word")
		assert.Error(t, err)
	})

	t.Run("Float64", func(t *testing.T) {
		for field, expected := range map[string]float64{
			"text":  42,
			"count": 7,
			"ratio": 2.5,
			"on":    1,
		} {
			v, err := inst.Float64(field)
			require.NoError(t, err, "field %s", field)
			assert.Equal(t, expected, v, "field %s", field)
		}
		_, err := inst.Float64("word")
		assert.Error(t, err)
	})

	t.Run("Bool", func(t *testing.T) {
		for field, expected := range map[string]bool{
			"on":    true,
			"count": true,
			"empty": false,
		} {
			v, err := inst.Bool(field)
			require.NoError(t, err, "field %s", field)
			assert.Equal(t, expected, v, "field %s", field)
		}
		_, err := inst.Bool("word")
		assert.Error(t, err)
	})

	t.Run("Child", func(t *testing.T) {
		child, err := inst.Child("http_client")
		require.NoError(t, err)
		assert.Equal(t, "HttpClient", child.Schema().Name())

		_, err = inst.Child("count")
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = inst.Child("missing")
		assert.ErrorIs(t, err, ErrUnknownField)
	})
}
