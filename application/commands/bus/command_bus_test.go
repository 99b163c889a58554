package bus_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pebblevault/application/commands/bus"
)

type fakeCommand struct {
	invalid bool
}

func (c fakeCommand) Validate() error {
	if c.invalid {
		return errors.New("bad command")
	}
	return nil
}

type recordingMetrics struct {
	counts    map[string]float64
	durations []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{counts: make(map[string]float64)}
}

func (m *recordingMetrics) Count(name string, value float64, dims map[string]string) {
	m.counts[name] += value
}

func (m *recordingMetrics) Duration(name string, d time.Duration, dims map[string]string) {
	m.durations = append(m.durations, name)
}

func TestCommandBusDispatchesToHandler(t *testing.T) {
	commandBus := bus.NewCommandBus()
	var handled bool
	err := commandBus.Register(fakeCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			handled = true
			return nil
		}))
	require.NoError(t, err)

	require.NoError(t, commandBus.Send(context.Background(), fakeCommand{}))
	assert.True(t, handled)
}

func TestCommandBusRejectsUnregisteredCommand(t *testing.T) {
	commandBus := bus.NewCommandBus()
	err := commandBus.Send(context.Background(), fakeCommand{})
	assert.ErrorContains(t, err, "no handler registered")
}

func TestCommandBusRejectsDuplicateRegistration(t *testing.T) {
	commandBus := bus.NewCommandBus()
	noop := bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error { return nil })
	require.NoError(t, commandBus.Register(fakeCommand{}, noop))
	assert.ErrorContains(t, commandBus.Register(fakeCommand{}, noop), "already registered")
}

func TestMetricsMiddlewareRecordsOutcome(t *testing.T) {
	metrics := newRecordingMetrics()
	pipeline := bus.NewPipeline(bus.MetricsMiddleware(metrics))

	ok := pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error { return nil }))
	require.NoError(t, ok.Handle(context.Background(), fakeCommand{}))

	failing := pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error { return errors.New("boom") }))
	require.Error(t, failing.Handle(context.Background(), fakeCommand{}))

	assert.Equal(t, float64(1), metrics.counts["command_success"])
	assert.Equal(t, float64(1), metrics.counts["command_errors"])
	assert.Len(t, metrics.durations, 2)
}

func TestValidationMiddlewareBlocksInvalidCommand(t *testing.T) {
	pipeline := bus.NewPipeline(bus.ValidationMiddleware())
	var handled bool
	handler := pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			handled = true
			return nil
		}))

	err := handler.Handle(context.Background(), fakeCommand{invalid: true})
	assert.ErrorContains(t, err, "validation failed")
	assert.False(t, handled)
}
