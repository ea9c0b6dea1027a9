package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetops/core/notify"
)

func enabled() Config {
	return Config{Enabled: true, Broker: "tcp://localhost:1883", ClientID: "id", QoS: 1, BackoffMS: 1}
}

func TestNotifierPublishes(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	n, err := NewNotifier(enabled(), nil)
	require.NoError(t, err)

	err = n.Notify(context.Background(), notify.Notification{DriverID: "d1", MissionID: "m1", Kind: notify.KindMissionAssigned, Title: "New mission"})
	require.NoError(t, err)
	require.Len(t, mc.published, 1)
	assert.Equal(t, "drivers/d1/notifications", mc.published[0].topic)
	assert.Equal(t, byte(1), mc.published[0].qos)

	var got notify.Notification
	require.NoError(t, json.Unmarshal(mc.published[0].payload, &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "m1", got.MissionID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestNotifierRetries(t *testing.T) {
	mc := &mockClient{publishErrs: []error{errors.New("net fail"), nil}}
	useMock(t, mc)
	cfg := enabled()
	cfg.MaxRetries = 1
	n, err := NewNotifier(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, n.Notify(context.Background(), notify.Notification{DriverID: "d1"}))
	assert.Len(t, mc.published, 2)
}

func TestNotifierGivesUp(t *testing.T) {
	fail := errors.New("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail, fail}}
	useMock(t, mc)
	cfg := enabled()
	cfg.MaxRetries = 2
	n, err := NewNotifier(cfg, nil)
	require.NoError(t, err)
	err = n.Notify(context.Background(), notify.Notification{DriverID: "d1"})
	assert.ErrorIs(t, err, fail)
	assert.Len(t, mc.published, 3)
}

func TestNotifierStopsOnCancel(t *testing.T) {
	fail := errors.New("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail, fail, fail}}
	useMock(t, mc)
	cfg := enabled()
	cfg.BackoffMS = int(time.Hour / time.Millisecond)
	n, err := NewNotifier(cfg, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Notify(ctx, notify.Notification{DriverID: "d1"}), context.Canceled)
}

func TestNotifierRejects(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	n, err := NewNotifier(enabled(), nil)
	require.NoError(t, err)
	assert.Error(t, n.Notify(context.Background(), notify.Notification{}))
	n.Disconnect()

	useMock(t, &mockClient{connectErr: errors.New("refused")})
	_, err = NewNotifier(enabled(), nil)
	assert.Error(t, err)

	_, err = NewNotifier(Config{Enabled: true}, nil)
	assert.Error(t, err)
}

func TestLWTConfigured(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	cfg := enabled()
	cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS = "fleetops/status", "offline", 1
	_, err := NewNotifier(cfg, nil)
	require.NoError(t, err)
	assert.True(t, mc.opts.WillEnabled)
	assert.Equal(t, "fleetops/status", mc.opts.WillTopic)
	assert.Equal(t, "offline", string(mc.opts.WillPayload))
}
