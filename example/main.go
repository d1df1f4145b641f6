// File: lixenwraith/composer/example/main.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/lixenwraith/composer"
)

// ClientSettings is the decode target for the http_client block.
type ClientSettings struct {
	Enable      bool `toml:"enable"`
	Timeout     int  `toml:"timeout"`
	ReadTimeout int  `toml:"read_timeout"`
}

func main() {
	// =========================================================================
	// PART 1: DECLARATIONS
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Declaring schemas...")

	client := composer.NewSchema("HttpClient")
	client.
		MustRegister("enable", []composer.Type{composer.Of[bool]()}, composer.WithDefault(false)).
		MustRegister("timeout", []composer.Type{composer.Of[int]()},
			composer.WithDefault(30),
			composer.WithDesc("Request timeout in seconds"),
			composer.WithValidator(func(v any) bool { return v.(int) > 0 })).
		MustRegister("read_timeout", []composer.Type{composer.Of[int]()},
			composer.WithDynamicDefault("timeout"),
			composer.WithDesc("Read timeout in seconds"))

	app := composer.NewSchema("App")
	app.MustRegister("status", []composer.Type{composer.Of[int]()},
		composer.WithDefault(35),
		composer.WithDesc("Status code"),
		composer.WithValidator(func(v any) bool { return v.(int) > 3 }),
		composer.WithInvalidMessage("status must be greater than 3"))
	app.MustRegister("items", []composer.Type{composer.Of[[]string]()},
		composer.WithDefault([]string{}),
		composer.WithDesc("Tracked items"))
	if err := app.RegisterBlock("http_client", client, composer.BlockOptions{
		Desc:        "Outbound HTTP settings",
		EnableField: "enable",
	}); err != nil {
		log.Fatalf("❌ Block declaration failed: %v", err)
	}
	log.Printf("✅ Declared %v", app.Names())

	// =========================================================================
	// PART 2: INSTANCES, VALIDATION AND BLOCKS
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Working with an instance...")

	inst := app.New()
	status, _ := inst.Get("status")
	log.Printf("   status default: %v", status)

	if err := inst.Set("status", 2); errors.Is(err, composer.ErrValidation) {
		log.Printf("✅ Rejected status=2: %v", err)
	}

	items, _ := inst.List("items")
	_ = items.Append("a", "b")
	values, _ := inst.Get("items")
	log.Printf("   items after append: %v", values)

	_, err := inst.Block("with_http_client", func(c *composer.Instance) error {
		return c.Set("timeout", 10)
	})
	if err != nil {
		log.Fatalf("❌ Block failed: %v", err)
	}
	enabled, _ := inst.Enabled("http_client?")
	log.Printf("✅ http_client enabled: %t", enabled)

	var settings ClientSettings
	if err := inst.DecodeSubtree("http_client", &settings); err != nil {
		log.Fatalf("❌ Decode failed: %v", err)
	}
	log.Printf("   decoded: %+v", settings)

	// =========================================================================
	// PART 3: FREEZE
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Freezing...")

	if err := inst.Freeze(composer.FreezeOptions{Behavior: composer.FreezeRaise, Children: true}); err != nil {
		log.Fatalf("❌ Freeze failed: %v", err)
	}
	if err := inst.SetPath("http_client.timeout", 99); errors.Is(err, composer.ErrFrozen) {
		log.Printf("✅ Frozen child rejected write: %v", err)
	}

	// =========================================================================
	// PART 4: OUTPUT
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 4: Rendering...")

	text, err := app.GenerateConfig(composer.DefaultGenerateOptions("App.configure"))
	if err != nil {
		log.Fatalf("❌ Generate failed: %v", err)
	}
	fmt.Println(text)

	if err := inst.Dump(os.Stdout, composer.FormatYAML); err != nil {
		log.Fatalf("❌ Export failed: %v", err)
	}
}
