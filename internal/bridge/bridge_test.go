package bridge

import (
	"reflect"
	"testing"

	"go.uber.org/dig"

	"github.com/evdngsl/beanbridge/internal/bean"
	"github.com/evdngsl/beanbridge/internal/catalog"
	"github.com/evdngsl/beanbridge/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type auditSink struct {
	Path string
}

func (s *auditSink) Record(string) {}

type mailGateway struct {
	Host string
}

type reporter struct {
	Sink    *auditSink   `inject:""`             // by-type
	Gateway *mailGateway `inject:"core.gateway"` // named
	Label   string
}

type recordSink interface {
	Record(string)
}

func init() {
	catalog.RegisterType("test.bridge.auditSink", (*auditSink)(nil))
	catalog.RegisterType("test.bridge.mailGateway", (*mailGateway)(nil))
	catalog.RegisterType("test.bridge.reporter", (*reporter)(nil))
	catalog.RegisterInterface("test.bridge.recordSink", (*recordSink)(nil))
}

// setupRegistry defines a sink, a gateway, and a reporter whose injection
// points target them.
func setupRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	reg := registry.New(nil)
	require.NoError(t, reg.Add(bean.Definition{
		Name: "core.sink", Type: "test.bridge.auditSink",
		Properties: []bean.Property{{Name: "Path", Value: "/var/log/audit", HasValue: true}},
	}))
	require.NoError(t, reg.Add(bean.Definition{Name: "core.gateway", Type: "test.bridge.mailGateway"}))
	require.NoError(t, reg.Add(bean.Definition{
		Name: "core.reporter", Type: "test.bridge.reporter",
		Properties: []bean.Property{{Name: "Label", Value: "daily", HasValue: true}},
	}))
	t.Cleanup(func() { reg.Close() })
	return reg
}

func TestBridge_Plan(t *testing.T) {
	reg := setupRegistry(t)

	plan, err := New(reg).Plan()
	require.NoError(t, err)
	require.Len(t, plan, 3)

	sink := plan[0]
	assert.Equal(t, "core.sink", sink.Name)
	assert.Equal(t, reflect.TypeOf(&auditSink{}), sink.Type)
	require.Len(t, sink.Interfaces, 1)
	assert.Equal(t, "test.bridge.recordSink", sink.Interfaces[0].ID)
	assert.Empty(t, sink.Points)

	rep := plan[2]
	assert.Equal(t, "core.reporter", rep.Name)
	assert.Empty(t, rep.Interfaces, "reporter implements no catalog interface")
	require.Len(t, rep.Points, 2)
	assert.Equal(t, "Sink", rep.Points[0].Field)
	assert.Empty(t, rep.Points[0].Ref)
	assert.Equal(t, "Gateway", rep.Points[1].Field)
	assert.Equal(t, "core.gateway", rep.Points[1].Ref)
}

func TestBridge_Apply(t *testing.T) {
	reg := setupRegistry(t)

	c := dig.New()
	require.NoError(t, New(reg).Apply(c))

	type params struct {
		dig.In

		Sink     *auditSink   `name:"core.sink"`
		Gateway  *mailGateway `name:"core.gateway"`
		Reporter *reporter    `name:"core.reporter"`
	}

	require.NoError(t, c.Invoke(func(p params) {
		assert.Equal(t, "/var/log/audit", p.Sink.Path)
		assert.Equal(t, "daily", p.Reporter.Label)

		// Member injection ran during production: the by-type point got
		// the sink, the named point got the gateway.
		assert.Same(t, p.Sink, p.Reporter.Sink)
		assert.Same(t, p.Gateway, p.Reporter.Gateway)
	}))
}

func TestBridge_CreationDelegatesToRegistry(t *testing.T) {
	reg := setupRegistry(t)

	c := dig.New()
	require.NoError(t, New(reg).Apply(c))

	type params struct {
		dig.In

		Sink *auditSink `name:"core.sink"`
	}

	var got *auditSink
	require.NoError(t, c.Invoke(func(p params) { got = p.Sink }))

	// The container hands out the registry's singleton, not a copy.
	fromRegistry, err := reg.Bean("core.sink")
	require.NoError(t, err)
	assert.Same(t, fromRegistry, got)
}

func TestBridge_InterfaceResolution(t *testing.T) {
	reg := setupRegistry(t)

	c := dig.New()
	require.NoError(t, New(reg).Apply(c))

	type params struct {
		dig.In

		Sink recordSink `name:"core.sink"`
	}

	require.NoError(t, c.Invoke(func(p params) {
		require.NotNil(t, p.Sink)
	}))
}

func TestBridge_AmbiguousByType(t *testing.T) {
	reg := setupRegistry(t)
	// A second auditSink makes the reporter's by-type point ambiguous.
	require.NoError(t, reg.Add(bean.Definition{Name: "core.altSink", Type: "test.bridge.auditSink"}))

	b := New(reg)
	plan, err := b.Plan()
	require.NoError(t, err)

	var rep Registration
	for _, r := range plan {
		if r.Name == "core.reporter" {
			rep = r
		}
	}
	_, err = b.produce(rep)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestBridge_UnsatisfiedNamedPoint(t *testing.T) {
	// No core.gateway here, so the reporter's named point cannot resolve.
	reg := registry.New(nil)
	require.NoError(t, reg.Add(bean.Definition{Name: "core.sink", Type: "test.bridge.auditSink"}))
	require.NoError(t, reg.Add(bean.Definition{Name: "core.reporter", Type: "test.bridge.reporter"}))
	defer reg.Close()

	b := New(reg)
	plan, err := b.Plan()
	require.NoError(t, err)

	_, err = b.produce(plan[1])
	require.ErrorIs(t, err, registry.ErrNoSuchBean)
}
