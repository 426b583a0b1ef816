/*
Copyright © 2026 evdngsl
*/
package main

import (
	"github.com/evdngsl/beanbridge/cmd"

	// Import extensions - each registers itself via init()
	_ "github.com/evdngsl/beanbridge/extension/all"

	// Built-in portal components - register with the catalog via init()
	_ "github.com/evdngsl/beanbridge/internal/components"
)

func main() {
	cmd.Execute()
}
