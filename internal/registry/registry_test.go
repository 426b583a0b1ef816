package registry

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/evdngsl/beanbridge/internal/bean"
	"github.com/evdngsl/beanbridge/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mailQueue struct {
	Capacity int
	closed   bool
}

func (q *mailQueue) Close() error {
	q.closed = true
	return nil
}

type mailService struct {
	Host    string
	Port    int
	Timeout time.Duration
	Debug   bool
	Queue   *mailQueue

	initialised bool
}

func (s *mailService) InitBean() error {
	s.initialised = true
	return nil
}

type brokenService struct{}

func (s *brokenService) InitBean() error { return errors.New("boom") }

// directoryService takes long enough to initialise that concurrent
// lookups overlap during construction.
type directoryService struct{}

func (s *directoryService) InitBean() error {
	time.Sleep(5 * time.Millisecond)
	return nil
}

type pingService struct{ Peer *pongService }

type pongService struct{ Peer *pingService }

func init() {
	catalog.RegisterType("test.registry.mailQueue", (*mailQueue)(nil))
	catalog.RegisterType("test.registry.mailService", (*mailService)(nil))
	catalog.RegisterType("test.registry.brokenService", (*brokenService)(nil))
	catalog.RegisterType("test.registry.directoryService", (*directoryService)(nil))
	catalog.RegisterType("test.registry.pingService", (*pingService)(nil))
	catalog.RegisterType("test.registry.pongService", (*pongService)(nil))
}

func TestRegistry_BeanLookup(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Add(bean.Definition{Name: "core.queue", Type: "test.registry.mailQueue"}))

	obj, err := r.Bean("core.queue")
	require.NoError(t, err)
	require.IsType(t, &mailQueue{}, obj)

	// Singletons are shared.
	again, err := r.Bean("core.queue")
	require.NoError(t, err)
	assert.Same(t, obj, again)
}

func TestRegistry_NoSuchBean(t *testing.T) {
	r := New(nil)

	_, err := r.Bean("nowhere")
	require.ErrorIs(t, err, ErrNoSuchBean)
}

func TestRegistry_ParentChaining(t *testing.T) {
	parent := New(nil)
	require.NoError(t, parent.Add(bean.Definition{Name: "core.queue", Type: "test.registry.mailQueue"}))

	child := New(parent)
	obj, err := child.Bean("core.queue")
	require.NoError(t, err)
	require.NotNil(t, obj)

	// The parent owns the singleton; the child sees the same instance.
	fromParent, err := parent.Bean("core.queue")
	require.NoError(t, err)
	assert.Same(t, fromParent, obj)
}

func TestRegistry_PropertyInjection(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Add(bean.Definition{
		Name: "core.queue", Type: "test.registry.mailQueue",
		Properties: []bean.Property{{Name: "Capacity", Value: "32", HasValue: true}},
	}))
	require.NoError(t, r.Add(bean.Definition{
		Name: "core.mail", Type: "test.registry.mailService",
		Properties: []bean.Property{
			{Name: "Host", Value: "smtp.local", HasValue: true},
			{Name: "Port", Value: "2525", HasValue: true},
			{Name: "Timeout", Value: "30s", HasValue: true},
			{Name: "Debug", Value: "true", HasValue: true},
			{Name: "Queue", Ref: "core.queue"},
		},
	}))

	obj, err := r.Bean("core.mail")
	require.NoError(t, err)
	svc := obj.(*mailService)
	assert.Equal(t, "smtp.local", svc.Host)
	assert.Equal(t, 2525, svc.Port)
	assert.Equal(t, 30*time.Second, svc.Timeout)
	assert.True(t, svc.Debug)
	require.NotNil(t, svc.Queue)
	assert.Equal(t, 32, svc.Queue.Capacity)
	assert.True(t, svc.initialised, "InitBean should run after injection")
}

func TestRegistry_PrototypeScope(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Add(bean.Definition{
		Name: "core.queue", Type: "test.registry.mailQueue", Scope: bean.ScopePrototype,
	}))

	a, err := r.Bean("core.queue")
	require.NoError(t, err)
	b, err := r.Bean("core.queue")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestRegistry_Refresh(t *testing.T) {
	t.Run("unknown type fails the build", func(t *testing.T) {
		r := New(nil)
		require.NoError(t, r.Add(bean.Definition{Name: "ok", Type: "test.registry.mailQueue"}))
		require.NoError(t, r.Add(bean.Definition{Name: "bad", Type: "test.registry.never-registered"}))

		err := r.Refresh()
		require.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("failing init hook fails the build", func(t *testing.T) {
		r := New(nil)
		require.NoError(t, r.Add(bean.Definition{Name: "broken", Type: "test.registry.brokenService"}))

		err := r.Refresh()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("bad ref fails the build", func(t *testing.T) {
		r := New(nil)
		require.NoError(t, r.Add(bean.Definition{
			Name: "core.mail", Type: "test.registry.mailService",
			Properties: []bean.Property{{Name: "Queue", Ref: "missing.queue"}},
		}))

		err := r.Refresh()
		require.ErrorIs(t, err, ErrNoSuchBean)
	})
}

func TestRegistry_CircularReference(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Add(bean.Definition{
		Name: "core.ping", Type: "test.registry.pingService",
		Properties: []bean.Property{{Name: "Peer", Ref: "core.pong"}},
	}))
	require.NoError(t, r.Add(bean.Definition{
		Name: "core.pong", Type: "test.registry.pongService",
		Properties: []bean.Property{{Name: "Peer", Ref: "core.ping"}},
	}))

	_, err := r.Bean("core.ping")
	require.ErrorIs(t, err, bean.ErrInvalidDefinition)
	assert.Contains(t, err.Error(), "circular reference")
}

func TestRegistry_ConcurrentSingletonLookup(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Add(bean.Definition{Name: "core.directory", Type: "test.registry.directoryService"}))

	// Overlapping lookups of a not-yet-built singleton must not be
	// mistaken for a circular reference. Each must succeed and see the
	// one stored instance.
	const lookups = 8
	objs := make([]any, lookups)
	errs := make([]error, lookups)
	var wg sync.WaitGroup
	for i := range objs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			objs[i], errs[i] = r.Bean("core.directory")
		}()
	}
	wg.Wait()

	for i := range objs {
		require.NoError(t, errs[i])
		assert.Same(t, objs[0], objs[i])
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Add(bean.Definition{Name: "core.queue", Type: "test.registry.mailQueue", Source: "a_context.xml"}))

	err := r.Add(bean.Definition{Name: "core.queue", Type: "test.registry.mailQueue", Source: "b_context.xml"})
	require.ErrorIs(t, err, ErrDuplicateBean)
	assert.Contains(t, err.Error(), "b_context.xml")
}

func TestRegistry_UnknownProperty(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Add(bean.Definition{
		Name: "core.queue", Type: "test.registry.mailQueue",
		Properties: []bean.Property{{Name: "NoSuchField", Value: "x", HasValue: true}},
	}))

	_, err := r.Bean("core.queue")
	require.ErrorIs(t, err, bean.ErrInvalidDefinition)
}

func TestRegistry_Close(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Add(bean.Definition{Name: "core.queue", Type: "test.registry.mailQueue"}))

	obj, err := r.Bean("core.queue")
	require.NoError(t, err)
	q := obj.(*mailQueue)

	require.NoError(t, r.Close())
	assert.True(t, q.closed, "Close should dispose singletons")

	_, err = r.Bean("core.queue")
	require.ErrorIs(t, err, ErrClosed)

	// Closing twice is fine.
	require.NoError(t, r.Close())
}

func TestRegistry_TypeOf(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Add(bean.Definition{Name: "core.queue", Type: "test.registry.mailQueue"}))

	typ, err := r.TypeOf("core.queue")
	require.NoError(t, err)
	assert.Equal(t, "*registry.mailQueue", typ.String())

	_, err = r.TypeOf("nowhere")
	require.ErrorIs(t, err, ErrNoSuchBean)
}
