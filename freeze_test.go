// File: lixenwraith/composer/freeze_test.go
package composer

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFreezeBehaviors tests the three built-in freeze behaviors
func TestFreezeBehaviors(t *testing.T) {
	t.Run("Raise", func(t *testing.T) {
		inst := newAppSchema(t).New()
		require.NoError(t, inst.Freeze(FreezeOptions{Behavior: FreezeRaise}))
		assert.True(t, inst.Frozen())

		err := inst.Set("status", 10)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFrozen)
		assert.ErrorIs(t, err, ErrComposer)
		assert.Contains(t, err.Error(), "App instance is frozen. Attempted to change field [status]")

		v, _ := inst.Get("status")
		assert.Equal(t, 35, v)

		assert.ErrorIs(t, inst.Reset("status"), ErrFrozen)
		assert.ErrorIs(t, inst.AssignDefaults(false), ErrFrozen)

		proceed, err := inst.CheckFrozen("name")
		assert.False(t, proceed)
		assert.ErrorIs(t, err, ErrFrozen)
	})

	t.Run("LogAndSkip", func(t *testing.T) {
		var buf bytes.Buffer
		s := newAppSchema(t)
		s.SetLogger(zerolog.New(&buf))

		inst := s.New()
		require.NoError(t, inst.Freeze(FreezeOptions{Behavior: FreezeLogAndSkip}))

		require.NoError(t, inst.Set("status", 10))
		v, _ := inst.Get("status")
		assert.Equal(t, 35, v)
		assert.False(t, inst.IsSet("status"))

		out := buf.String()
		assert.Contains(t, out, `"level":"warn"`)
		assert.Contains(t, out, `"schema":"App"`)
		assert.Contains(t, out, `"field":"status"`)
		assert.Contains(t, out, `"proceed":false`)
	})

	t.Run("LogAndAllow", func(t *testing.T) {
		var buf bytes.Buffer
		s := newAppSchema(t)
		s.SetLogger(zerolog.New(&buf))

		inst := s.New()
		require.NoError(t, inst.Freeze(FreezeOptions{Behavior: FreezeLogAndAllow}))

		require.NoError(t, inst.Set("status", 10))
		v, _ := inst.Get("status")
		assert.Equal(t, 10, v)
		assert.Contains(t, buf.String(), `"proceed":true`)
	})

	t.Run("ValidationStillApplies", func(t *testing.T) {
		s := newAppSchema(t)
		s.SetLogger(zerolog.Nop())
		inst := s.New()
		require.NoError(t, inst.Freeze(FreezeOptions{Behavior: FreezeLogAndAllow}))
		assert.ErrorIs(t, inst.Set("status", 1), ErrValidation)
	})
}

// TestFreezeCustom tests a caller-supplied decision function
func TestFreezeCustom(t *testing.T) {
	inst := newAppSchema(t).New()

	var asked []string
	require.NoError(t, inst.Freeze(FreezeOptions{Decide: func(i *Instance, field string) bool {
		assert.Same(t, inst, i)
		asked = append(asked, field)
		return field == "name"
	}}))

	require.NoError(t, inst.Set("name", "allowed"))
	require.NoError(t, inst.Set("status", 10))

	name, _ := inst.Get("name")
	status, _ := inst.Get("status")
	assert.Equal(t, "allowed", name)
	assert.Equal(t, 35, status)
	assert.Equal(t, []string{"name", "status"}, asked)
}

// TestFreezeArguments tests malformed freeze calls
func TestFreezeArguments(t *testing.T) {
	inst := newAppSchema(t).New()

	err := inst.Freeze(FreezeOptions{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, ErrRegistration)

	err = inst.Freeze(FreezeOptions{Behavior: FreezeRaise, Decide: func(*Instance, string) bool { return true }})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = inst.Freeze(FreezeOptions{Behavior: "melt"})
	assert.ErrorIs(t, err, ErrRegistration)
	assert.NotErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "[melt]")

	assert.False(t, inst.Frozen())
	require.NoError(t, inst.Set("status", 10))
}

// TestFreezeChildren tests propagation into nested instances
func TestFreezeChildren(t *testing.T) {
	t.Run("Propagated", func(t *testing.T) {
		inst := newAppSchema(t).New()
		require.NoError(t, inst.Freeze(FreezeOptions{Behavior: FreezeRaise, Children: true}))

		child, err := inst.Child("http_client")
		require.NoError(t, err)
		assert.True(t, child.Frozen())

		err = child.Set("timeout", 5)
		assert.ErrorIs(t, err, ErrFrozen)
		assert.Contains(t, err.Error(), "HttpClient instance is frozen")
		assert.ErrorIs(t, inst.SetPath("http_client.timeout", 5), ErrFrozen)
	})

	t.Run("NotPropagated", func(t *testing.T) {
		inst := newAppSchema(t).New()
		require.NoError(t, inst.Freeze(FreezeOptions{Behavior: FreezeRaise}))

		child, err := inst.Child("http_client")
		require.NoError(t, err)
		assert.False(t, child.Frozen())
		require.NoError(t, child.Set("timeout", 5))
	})

	t.Run("BlockOnFrozenParent", func(t *testing.T) {
		inst := newAppSchema(t).New()
		require.NoError(t, inst.Freeze(FreezeOptions{Behavior: FreezeRaise}))
		_, err := inst.Block("with_http_client", nil)
		assert.ErrorIs(t, err, ErrFrozen)
	})
}

// TestRefreeze tests that a later freeze replaces the policy
func TestRefreeze(t *testing.T) {
	s := newAppSchema(t)
	s.SetLogger(zerolog.Nop())
	inst := s.New()

	require.NoError(t, inst.Freeze(FreezeOptions{Behavior: FreezeRaise}))
	assert.ErrorIs(t, inst.Set("status", 10), ErrFrozen)

	require.NoError(t, inst.Freeze(FreezeOptions{Behavior: FreezeLogAndAllow}))
	require.NoError(t, inst.Set("status", 10))
	v, _ := inst.Get("status")
	assert.Equal(t, 10, v)
}
