// Package components declares the built-in portal components and the
// interface universe they are published under. Types self-register with
// the catalog at init time; context files bind them by catalog id.
//
// Deployments with their own components follow the same pattern: define
// the struct, register it in init(), and reference the id from a context
// file.
package components

import (
	"fmt"
	"time"

	"github.com/evdngsl/beanbridge/internal/catalog"
)

func init() {
	catalog.RegisterInterface("portal.dashboardComponent", (*DashboardComponent)(nil))
	catalog.RegisterInterface("portal.contentService", (*ContentService)(nil))

	catalog.RegisterType("core.cacheService", (*CacheService)(nil))
	catalog.RegisterType("core.mailService", (*MailService)(nil))
	catalog.RegisterType("portal.newsDashboard", (*NewsDashboard)(nil))
	catalog.RegisterType("portal.pageService", (*PageService)(nil))
}

// DashboardComponent is implemented by components that contribute a
// block to the portal dashboard.
type DashboardComponent interface {
	DashboardID() string
}

// ContentService is implemented by components that serve portal content.
type ContentService interface {
	Content(key string) (string, error)
}

// CacheService is an in-memory cache shared by portal components.
type CacheService struct {
	Capacity int
	TTL      time.Duration

	entries map[string]string
}

// InitBean sizes the cache. Capacity defaults to 1000 when unset.
func (c *CacheService) InitBean() error {
	if c.Capacity < 0 {
		return fmt.Errorf("cache capacity %d is negative", c.Capacity)
	}
	if c.Capacity == 0 {
		c.Capacity = 1000
	}
	c.entries = make(map[string]string)
	return nil
}

// Get returns the cached value for key.
func (c *CacheService) Get(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Put stores value under key, dropping it silently when full.
func (c *CacheService) Put(key, value string) {
	if len(c.entries) >= c.Capacity {
		return
	}
	c.entries[key] = value
}

// MailService queues portal notification mail.
type MailService struct {
	Host string
	Port int

	Cache *CacheService `inject:""`
}

// Destroy flushes any queued mail on container shutdown.
func (m *MailService) Destroy() error { return nil }

// NewsDashboard renders the newsroom block on the portal dashboard.
type NewsDashboard struct {
	Title string
	Feed  string
}

// DashboardID implements DashboardComponent.
func (n *NewsDashboard) DashboardID() string { return "news" }

// PageService serves portal page content, caching rendered output.
type PageService struct {
	DefaultTemplate string

	Cache *CacheService `inject:"core.cacheService"`
}

// Content implements ContentService.
func (p *PageService) Content(key string) (string, error) {
	if p.Cache != nil {
		if v, ok := p.Cache.Get(key); ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("no content for %q", key)
}

var (
	_ DashboardComponent = (*NewsDashboard)(nil)
	_ ContentService     = (*PageService)(nil)
)
