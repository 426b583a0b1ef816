// context.go defines the Context interface for extension access to
// beanbridge internals.
//
// Separated from extension.go to isolate dependency injection concerns.
// The Context provides a controlled surface area for extensions - they can
// access what they need without reaching into arbitrary internals.
//
// Design: Context uses an interface to enable testing with mock
// implementations. Extensions receive Context during Init(), not at
// construction, to support the two-phase initialization pattern where
// extensions register before the workspace is open.
//
// The container is built lazily on first request. Building it loads every
// context file and eagerly constructs every bean, and a bad definition is
// a hard failure. Deferring that work keeps diagnostic commands (context
// validate, context diff) usable when the context tree is broken.

package extension

import (
	"sync"

	"github.com/evdngsl/beanbridge/internal/config"
	"github.com/evdngsl/beanbridge/internal/container"
	"github.com/evdngsl/beanbridge/internal/loader"
	"github.com/evdngsl/beanbridge/internal/plugin"
)

// Context provides extensions controlled access to beanbridge internals.
// Extensions receive this during initialisation to access shared resources.
type Context interface {
	// Container returns the bean container built from the workspace
	// context files, building it on first call. Fails if any context
	// definition is invalid.
	Container() (*container.Manager, error)

	// Plugins returns the plugin service backing install state.
	Plugins() *plugin.Service

	// Config returns user configuration for respecting user preferences.
	Config() *config.Config

	// ConfDir returns the resolved context configuration directory.
	ConfDir() string
}

// extContext implements Context.
type extContext struct {
	plugins *plugin.Service
	cfg     *config.Config
	confDir string

	mu    sync.Mutex
	built bool
	mgr   *container.Manager
	err   error
}

// NewContext creates a new extension context.
func NewContext(plugins *plugin.Service, cfg *config.Config, confDir string) Context {
	return &extContext{
		plugins: plugins,
		cfg:     cfg,
		confDir: confDir,
	}
}

// Container builds the manager on first call: loads the context files,
// constructs every bean, and subscribes the manager to plugin events so
// install state changes invalidate its type-lookup cache.
func (c *extContext) Container() (*container.Manager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.built {
		c.built = true
		res, err := loader.Load(c.confDir)
		if err != nil {
			c.err = err
		} else {
			c.mgr = container.New(res.Registry, c.plugins)
			if c.plugins != nil {
				c.plugins.Subscribe(c.mgr)
			}
		}
	}
	return c.mgr, c.err
}

func (c *extContext) Plugins() *plugin.Service { return c.plugins }

func (c *extContext) Config() *config.Config { return c.cfg }

func (c *extContext) ConfDir() string { return c.confDir }

// Manager returns the container if it has been built, without building
// it. Used by the command layer for shutdown.
func (c *extContext) Manager() *container.Manager {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mgr
}
