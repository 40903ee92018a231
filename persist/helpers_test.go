package persist_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zaptest"

	"github.com/modelvault/modelvault/field"
	"github.com/modelvault/modelvault/id"
	"github.com/modelvault/modelvault/monitoring"
	"github.com/modelvault/modelvault/persist"
	"github.com/modelvault/modelvault/session"
	"github.com/modelvault/modelvault/storage"
)

// stubScaler is a minimal persistable component for exercising the
// save and load pipeline.
type stubScaler struct {
	uid    string
	fields *field.Set
}

func newStubScaler() *stubScaler {
	return restoreStubScaler(id.New("stub"))
}

func restoreStubScaler(uid string) *stubScaler {
	f := field.NewSet()
	f.Declare("scale", "multiplier applied to every sample", field.Float64())
	f.Declare("tags", "labels carried with the component", field.Strings())
	return &stubScaler{uid: uid, fields: f}
}

func (s *stubScaler) UID() string        { return s.uid }
func (s *stubScaler) Fields() *field.Set { return s.fields }

// otherStub is a second registered class for mismatch scenarios.
type otherStub struct {
	uid    string
	fields *field.Set
}

func newOtherStub() *otherStub {
	return restoreOtherStub(id.New("other"))
}

func restoreOtherStub(uid string) *otherStub {
	f := field.NewSet()
	f.Declare("note", "free-form annotation", field.String())
	return &otherStub{uid: uid, fields: f}
}

func (s *otherStub) UID() string        { return s.uid }
func (s *otherStub) Fields() *field.Set { return s.fields }

// unregisteredStub never enters any registry.
type unregisteredStub struct {
	uid    string
	fields *field.Set
}

func newUnregisteredStub() *unregisteredStub {
	return &unregisteredStub{uid: id.New("ghost"), fields: field.NewSet()}
}

func (s *unregisteredStub) UID() string        { return s.uid }
func (s *unregisteredStub) Fields() *field.Set { return s.fields }

func init() {
	persist.Register[*stubScaler]("test.StubScaler", restoreStubScaler)
	persist.Register[*otherStub]("test.Other", restoreOtherStub)
}

// newTestSession builds a session over in-memory storage with isolated
// metrics, so tests never touch process-wide state.
func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	return session.New(storage.NewMemory(),
		session.WithLogger(zaptest.NewLogger(t)),
		session.WithMetrics(monitoring.New(prometheus.NewRegistry())),
		session.WithVersion("0.3.0"),
	)
}
