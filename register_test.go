// File: lixenwraith/composer/register_test.go
package composer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegister tests field declaration and its checks
func TestRegister(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		s := NewSchema("App")
		require.NoError(t, s.Register("timeout", []Type{Of[int]()}, WithDefault(30), WithDesc("Timeout in seconds")))
		require.NoError(t, s.Register("name", []Type{Of[string](), Nil}))

		assert.Equal(t, []string{"timeout", "name"}, s.Names())

		d, ok := s.Descriptor("timeout")
		require.True(t, ok)
		assert.Equal(t, "timeout", d.Name())
		assert.Equal(t, "App", d.Owner())
		assert.Equal(t, "Timeout in seconds", d.Description())
		def, hasDef := d.Default()
		assert.True(t, hasDef)
		assert.Equal(t, 30, def)
		assert.Nil(t, d.Children())
		assert.Nil(t, d.Block())

		d, _ = s.Descriptor("name")
		_, hasDef = d.Default()
		assert.False(t, hasDef)
		assert.Len(t, d.Allowed(), 2)
	})

	t.Run("RejectedDeclarations", func(t *testing.T) {
		other1 := NewSchema("A")
		other1.MustRegister("x", []Type{Of[int]()})
		other2 := NewSchema("B")
		other2.MustRegister("y", []Type{Of[int]()})

		tests := []struct {
			name    string
			field   string
			allowed []Type
			opts    []AttrOption
			kind    error
			msg     string
		}{
			{"Duplicate", "status", []Type{Of[int]()}, nil, ErrRegistration, "[status] is already defined"},
			{"Reserved", "freeze", []Type{Of[int]()}, nil, ErrRegistration, "[freeze] is already defined"},
			{"InvalidName", "1bad", []Type{Of[int]()}, nil, ErrRegistration, "invalid field name"},
			{"DashedName", "bad-name", []Type{Of[int]()}, nil, ErrRegistration, "invalid field name"},
			{"NoTypes", "empty", nil, nil, ErrRegistration, "declares no allowed types"},
			{"NilType", "niltype", []Type{nil}, nil, ErrRegistration, "nil allowed type"},
			{"TwoComposed", "both", []Type{other1, other2}, nil, ErrRegistration, "Max 1 is allowed"},
			{"ForwardReference", "early", []Type{Of[int]()}, []AttrOption{WithDynamicDefault("later")}, ErrRegistration, "declared before"},
			{"DefaultAndDynamic", "mixed", []Type{Of[int]()}, []AttrOption{WithDefault(1), WithDynamicDefault("status")}, ErrRegistration, "Only one allowed"},
			{"DefaultWrongType", "port", []Type{Of[int]()}, []AttrOption{WithDefault("8080")}, ErrValidation, "port is expected to be [int]"},
			{"DefaultFailsValidator", "level", []Type{Of[int]()}, []AttrOption{WithDefault(0), WithValidator(func(v any) bool { return v.(int) > 0 })}, ErrValidation, "failed validation"},
			{"NilDefaultWithoutNil", "label", []Type{Of[string]()}, []AttrOption{WithDefault(nil)}, ErrValidation, "Received [<nil>](nil)"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s := NewSchema("App")
				s.MustRegister("status", []Type{Of[int]()}, WithDefault(1))

				err := s.Register(tt.field, tt.allowed, tt.opts...)
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.kind), "expected %v, got %v", tt.kind, err)
				assert.True(t, errors.Is(err, ErrComposer))
				assert.Contains(t, err.Error(), tt.msg)

				// Failed declarations leave the schema untouched
				assert.Equal(t, []string{"status"}, s.Names())
			})
		}
	})

	t.Run("NilDefaultWithNil", func(t *testing.T) {
		s := NewSchema("App")
		require.NoError(t, s.Register("label", []Type{Of[string](), Nil}, WithDefault(nil)))
		d, _ := s.Descriptor("label")
		def, ok := d.Default()
		assert.True(t, ok)
		assert.Nil(t, def)
	})

	t.Run("Sealed", func(t *testing.T) {
		s := NewSchema("App")
		s.MustRegister("status", []Type{Of[int]()})
		assert.False(t, s.Sealed())

		_ = s.New()
		assert.True(t, s.Sealed())

		err := s.Register("late", []Type{Of[int]()})
		assert.ErrorIs(t, err, ErrSealed)
		assert.ErrorIs(t, err, ErrRegistration)
	})

	t.Run("NestingSealsChild", func(t *testing.T) {
		child := NewSchema("Retry")
		child.MustRegister("attempts", []Type{Of[int]()}, WithDefault(3))

		parent := NewSchema("App")
		require.NoError(t, parent.Register("retry", []Type{child}))
		assert.True(t, child.Sealed())
		assert.ErrorIs(t, child.Register("backoff", []Type{Of[int]()}), ErrSealed)

		d, _ := parent.Descriptor("retry")
		assert.Equal(t, child, d.Children())
		assert.Equal(t, map[string]*Schema{"retry": child}, parent.Children())
	})

	t.Run("SelfNesting", func(t *testing.T) {
		s := NewSchema("Node")
		err := s.Register("next", []Type{s, Nil})
		assert.ErrorIs(t, err, ErrRegistration)
	})

	t.Run("MustRegisterPanics", func(t *testing.T) {
		s := NewSchema("App")
		s.MustRegister("status", []Type{Of[int]()})
		assert.Panics(t, func() {
			s.MustRegister("status", []Type{Of[int]()})
		})
	})
}

// TestErrorKinds tests per-field error kind overrides
func TestErrorKinds(t *testing.T) {
	errPort := errors.New("invalid port")
	errBroken := errors.New("broken validator")

	s := NewSchema("Server")
	s.MustRegister("port", []Type{Of[int]()},
		WithValidator(func(v any) bool { return v.(int) > 0 && v.(int) < 65536 }),
		WithValidationError(errPort),
		WithInvalidMessageFunc(func(v any) string { return "port out of range" }))
	s.MustRegister("host", []Type{Of[string]()},
		WithValidator(func(v any) bool { panic("boom") }),
		WithError(errBroken))

	inst := s.New()

	t.Run("ValidationKind", func(t *testing.T) {
		err := inst.Set("port", 70000)
		require.Error(t, err)
		assert.ErrorIs(t, err, errPort)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "Server.port failed validation. port is expected to be [int]. Received [70000](int) port out of range")
	})

	t.Run("PanickingValidator", func(t *testing.T) {
		err := inst.Set("host", "localhost")
		require.Error(t, err)
		assert.ErrorIs(t, err, errBroken)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "boom occurred during validation for value [localhost]")
		assert.Contains(t, err.Error(), "Server.host")

		v, _ := inst.Get("host")
		assert.Nil(t, v)
	})

	t.Run("DescriptorValidate", func(t *testing.T) {
		d, _ := s.Descriptor("port")
		res, err := d.Validate(80)
		require.NoError(t, err)
		assert.True(t, res.Valid)

		res, err = d.Validate("80")
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Message, "Received [80](string)")
	})
}

// TestRegisterBlock tests blocking composition declarations
func TestRegisterBlock(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		s := NewSchema("App")
		child := newClientSchema()
		require.NoError(t, s.RegisterBlock("http_client", child, BlockOptions{Desc: "HTTP", EnableField: "enable"}))

		d, ok := s.Descriptor("http_client")
		require.True(t, ok)
		assert.Equal(t, child, d.Children())
		assert.Equal(t, &BlockInfo{BlockName: "with_http_client", EnableField: "enable"}, d.Block())
		assert.Equal(t, "HTTP", d.Description())
		assert.True(t, child.Sealed())
	})

	t.Run("CustomPrefix", func(t *testing.T) {
		s := NewSchema("App")
		require.NoError(t, s.RegisterBlock("db", newClientSchema(), BlockOptions{Prefix: "configure"}))
		d, _ := s.Descriptor("db")
		assert.Equal(t, "configure_db", d.Block().BlockName)
		assert.Empty(t, d.Block().EnableField)
	})

	t.Run("Rejected", func(t *testing.T) {
		notBool := NewSchema("Odd")
		notBool.MustRegister("enable", []Type{Of[string]()})

		tests := []struct {
			name  string
			child *Schema
			opts  BlockOptions
			msg   string
		}{
			{"NilChild", nil, BlockOptions{}, "requires a composed schema"},
			{"EmptyChild", NewSchema("Empty"), BlockOptions{}, "is not composed"},
			{"MissingEnable", newClientSchema(), BlockOptions{EnableField: "on"}, "is not declared"},
			{"EnableNotBool", notBool, BlockOptions{EnableField: "enable"}, "does not accept bool"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s := NewSchema("App")
				err := s.RegisterBlock("http_client", tt.child, tt.opts)
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrRegistration)
				assert.Contains(t, err.Error(), tt.msg)
				assert.Empty(t, s.Names())
			})
		}
	})

	t.Run("OperationCollision", func(t *testing.T) {
		s := NewSchema("App")
		s.MustRegister("with_http_client", []Type{Of[int]()})
		err := s.RegisterBlock("http_client", newClientSchema(), BlockOptions{})
		assert.ErrorIs(t, err, ErrRegistration)
		assert.Contains(t, err.Error(), "[with_http_client] is already defined")

		s2 := NewSchema("App")
		require.NoError(t, s2.RegisterBlock("http_client", newClientSchema(), BlockOptions{}))
		err = s2.Register("with_http_client", []Type{Of[int]()})
		assert.ErrorIs(t, err, ErrRegistration)
	})
}

// TestRegisterStruct tests declaring fields from a struct with defaults
func TestRegisterStruct(t *testing.T) {
	type Defaults struct {
		Server struct {
			Host string `toml:"host" desc:"Bind address"`
			Port int    `toml:"port"`
		} `toml:"server" desc:"Server settings"`
		Debug    bool     `toml:"debug"`
		Tags     []string `toml:"tags"`
		Ignored  string   `toml:"-"`
		internal int
	}

	defaults := Defaults{Debug: true, Tags: []string{"a"}}
	defaults.Server.Host = "localhost"
	defaults.Server.Port = 8080

	s := NewSchema("App")
	require.NoError(t, s.RegisterStruct(&defaults))

	assert.Equal(t, []string{"server.host", "server.port", "debug", "tags"}, s.Paths())

	d, _ := s.Descriptor("server")
	assert.Equal(t, "Server settings", d.Description())
	host, _ := d.Children().Descriptor("host")
	assert.Equal(t, "Bind address", host.Description())

	inst := s.New()
	v, err := inst.GetPath("server.port")
	require.NoError(t, err)
	assert.Equal(t, 8080, v)

	v, err = inst.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)

	assert.Error(t, inst.SetPath("server.port", "8081"), "exact type required on direct set")

	t.Run("InvalidInput", func(t *testing.T) {
		assert.ErrorIs(t, NewSchema("X").RegisterStruct(42), ErrInvalidArgument)
		var nilPtr *Defaults
		assert.ErrorIs(t, NewSchema("X").RegisterStruct(nilPtr), ErrInvalidArgument)
	})
}
