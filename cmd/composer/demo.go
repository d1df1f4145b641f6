// File: lixenwraith/composer/cmd/composer/demo.go
package main

import (
	"strings"
	"time"

	"github.com/lixenwraith/composer"
)

var (
	demoRetrySchema  = composer.NewSchema("Retry")
	demoClientSchema = composer.NewSchema("HttpClient")
	demoSchema       = composer.NewSchema("App")
)

func init() {
	demoRetrySchema.
		MustRegister("attempts", []composer.Type{composer.Of[int]()},
			composer.WithDefault(3),
			composer.WithDesc("Number of attempts before giving up"),
			composer.WithValidator(func(v any) bool { return v.(int) > 0 }),
			composer.WithInvalidMessage("attempts must be positive")).
		MustRegister("backoff", []composer.Type{composer.Of[time.Duration]()},
			composer.WithDefault(500*time.Millisecond),
			composer.WithDefaultShown(`"500ms"`),
			composer.WithDesc("Delay between attempts"))

	demoClientSchema.
		MustRegister("enable", []composer.Type{composer.Of[bool]()},
			composer.WithDefault(false),
			composer.WithDesc("Use the HTTP client")).
		MustRegister("timeout", []composer.Type{composer.Of[int]()},
			composer.WithDefault(30),
			composer.WithDesc("Request timeout in seconds")).
		MustRegister("read_timeout", []composer.Type{composer.Of[int]()},
			composer.WithDynamicDefault("timeout"),
			composer.WithDesc("Read timeout in seconds")).
		MustRegister("retry", []composer.Type{demoRetrySchema},
			composer.WithDesc("Retry policy for failed requests"))

	demoSchema.
		MustRegister("name", []composer.Type{composer.Of[string]()},
			composer.WithDefault("demo"),
			composer.WithDesc("Application name")).
		MustRegister("hosts", []composer.Type{composer.Of[[]string]()},
			composer.WithDefault([]string{"localhost"}),
			composer.WithDesc("Hosts to serve"),
			composer.WithValidator(func(v any) bool {
				for _, h := range v.([]string) {
					if strings.TrimSpace(h) == "" {
						return false
					}
				}
				return true
			})).
		MustRegister("log_level", []composer.Type{composer.Of[string](), composer.Nil},
			composer.WithDefault("info"),
			composer.WithDesc("Log level, nil disables logging"))

	if err := demoSchema.RegisterBlock("http_client", demoClientSchema, composer.BlockOptions{
		Desc:        "Outbound HTTP settings",
		EnableField: "enable",
	}); err != nil {
		panic(err)
	}
}
