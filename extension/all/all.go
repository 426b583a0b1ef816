// Package all imports all core beanbridge extensions.
// Import this package to register all built-in commands.
package all

import (
	// Core extensions - each registers itself via init()
	_ "github.com/evdngsl/beanbridge/extension/bridge"
	_ "github.com/evdngsl/beanbridge/extension/contexts"
	_ "github.com/evdngsl/beanbridge/extension/core"
	_ "github.com/evdngsl/beanbridge/extension/plugins"
)
