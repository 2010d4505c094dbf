package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler blew up")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	event := shared.NewBaseDomainEvent(eventType, "Sale", uuid.New())
	return &event
}

func TestInMemoryEventBus_PublishToSubscribedHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"sale.created"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("sale.created"))

	assert.NoError(t, err)
	assert.Len(t, handler.received, 1)
	assert.Equal(t, "sale.created", handler.received[0].EventType())
}

func TestInMemoryEventBus_SkipsUnrelatedEventTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"sale.created"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("invoice.paid"))

	assert.NoError(t, err)
	assert.Empty(t, handler.received)
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"sale.created"}}
	bus.Subscribe(handler, "invoice.paid")

	err := bus.Publish(context.Background(), newTestEvent("invoice.paid"))

	assert.NoError(t, err)
	assert.Len(t, handler.received, 1)
}

func TestInMemoryEventBus_CatchAllHandlerReceivesEverything(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		newTestEvent("sale.created"),
		newTestEvent("invoice.paid"),
	)

	assert.NoError(t, err)
	assert.Len(t, handler.received, 2)
}

func TestInMemoryEventBus_FailingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"sale.created"}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{"sale.created"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("sale.created"))

	assert.NoError(t, err)
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_PanickingHandlerIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"sale.created"}, panics: true}
	healthy := &recordingHandler{types: []string{"sale.created"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("sale.created"))
	})
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"sale.created"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("sale.created"))

	assert.NoError(t, err)
	assert.Empty(t, handler.received)
}
