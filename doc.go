// File: lixenwraith/composer/doc.go

// Package composer declares configuration objects as schemas of named, typed
// and validated fields, and creates instances from them.
//
// A field has an allowed type set, an optional default (static, a reference
// to an earlier field, or computed), an optional validator and description.
// Another schema can be nested as a field, either as a plain group or as a
// block with its own "with_<name>" operation and "<name>?" enable query.
//
// Features:
//   - Declaration-time checks: duplicate or reserved names, forward default
//     references, invalid defaults, at most one nested schema per field
//   - Dynamic defaults resolved on first read and then retained
//   - Freeze policies: raise, log and allow, log and skip, or a custom function
//   - List handles that route in-place slice edits through validation and
//     freeze checks
//   - A commented configuration scaffold generated from the declarations
//   - JSON Schema view of a schema
//   - TOML, YAML and JSON import/export, environment variables, arguments and
//     pflag flags as value sources
//   - Decoding into structs via mapstructure
//
// Quick Start:
//
//	client := composer.NewSchema("HttpClient")
//	client.MustRegister("enable", []composer.Type{composer.Of[bool]()}, composer.WithDefault(false))
//	client.MustRegister("timeout", []composer.Type{composer.Of[int]()}, composer.WithDefault(30))
//
//	app := composer.NewSchema("App")
//	app.MustRegister("name", []composer.Type{composer.Of[string]()}, composer.WithDefault("demo"))
//	if err := app.RegisterBlock("http_client", client, composer.BlockOptions{EnableField: "enable"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	inst := app.New()
//	_, err := inst.Block("with_http_client", func(c *composer.Instance) error {
//	    return c.Set("timeout", 10)
//	})
//	enabled, _ := inst.Enabled("http_client?") // true
//
//	text, _ := app.GenerateConfig(composer.DefaultGenerateOptions("App.configure"))
//
// Errors:
// Every error wraps one of the package sentinels (ErrRegistration,
// ErrValidation, ErrFrozen, ...) and can be matched with errors.Is.
//
// Thread Safety:
// Schemas are read-only once sealed and may be shared. Instances are not safe
// for concurrent use.
package composer
