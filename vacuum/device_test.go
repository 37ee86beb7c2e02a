package vacuum

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulek/weback/vacmap"
)

type fakeTransport struct {
	mu       sync.Mutex
	updates  chan map[string]any
	maps     map[string][]byte
	fetchErr error
	fetches  int
	sent     []Payload
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		updates: make(chan map[string]any),
		maps:    make(map[string][]byte),
	}
}

func (f *fakeTransport) StatusUpdates(_ context.Context) (<-chan map[string]any, error) {
	return f.updates, nil
}

func (f *fakeTransport) FetchMap(_ context.Context, _ Identity, mapID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	data, ok := f.maps[mapID]
	if !ok {
		return nil, ErrMapNotFound
	}
	return data, nil
}

func (f *fakeTransport) SendCommand(_ context.Context, _ Identity, payload Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, payload)
	return nil
}

func (f *fakeTransport) sentPayloads() []Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Payload, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeTransport) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

type fakeDisplay struct {
	mu      sync.Mutex
	updates int
}

func (f *fakeDisplay) NotifyUpdated() {
	f.mu.Lock()
	f.updates++
	f.mu.Unlock()
}

func (f *fakeDisplay) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates
}

// minimalMapPayload builds a payload with a 2x2 grid block only.
func minimalMapPayload() []byte {
	payload := []byte{1, 0, 4, 0}
	header := make([]byte, 16)
	binary.LittleEndian.PutUint16(header[0:], 1)
	binary.LittleEndian.PutUint16(header[2:], 16)
	binary.LittleEndian.PutUint32(header[4:], 4)
	binary.LittleEndian.PutUint32(header[8:], 2)
	binary.LittleEndian.PutUint32(header[12:], 2)
	payload = append(payload, header...)
	payload = append(payload, 0xFF, 0xFF, 0x01, 0x00)
	return payload
}

func newTestDevice(transport Transport) *Device {
	return NewDevice(Identity{Name: "robot_1", SubType: "yw_ls", Nickname: "Dusty"}, transport)
}

func TestTurnOnSendsAutoClean(t *testing.T) {
	transport := newFakeTransport()
	device := newTestDevice(transport)

	require.NoError(t, device.TurnOn(context.Background()))

	sent := transport.sentPayloads()
	require.Len(t, sent, 1)
	assert.Equal(t, Payload{"working_status": "AutoClean"}, sent[0])
}

func TestSetFanWaterSpeedNotCleaning(t *testing.T) {
	transport := newFakeTransport()
	device := newTestDevice(transport)
	require.NoError(t, device.PushStatus(context.Background(), map[string]any{
		"working_status": ModeStandby,
	}))

	require.NoError(t, device.SetFanWaterSpeed(context.Background(), FanSpeedHigh))
	assert.Empty(t, transport.sentPayloads())
}

func TestSetFanWaterSpeedWhileCleaning(t *testing.T) {
	transport := newFakeTransport()
	device := newTestDevice(transport)
	require.NoError(t, device.PushStatus(context.Background(), map[string]any{
		"working_status": ModeAutoClean,
	}))

	require.NoError(t, device.SetFanWaterSpeed(context.Background(), FanSpeedHigh))
	require.NoError(t, device.SetFanWaterSpeed(context.Background(), "Turbo"))

	sent := transport.sentPayloads()
	require.Len(t, sent, 1)
	assert.Equal(t, Payload{"fan_status": FanSpeedHigh}, sent[0])
}

func TestRejectedOperationsSendNothing(t *testing.T) {
	transport := newFakeTransport()
	device := newTestDevice(transport)
	ctx := context.Background()

	require.NoError(t, device.Goto(ctx, ""))
	require.NoError(t, device.CleanRect(ctx, ""))
	require.NoError(t, device.CleanRooms(ctx, nil))
	require.NoError(t, device.CleanZone(ctx, nil))
	require.NoError(t, device.SetVoiceMode(ctx, "loud"))
	require.NoError(t, device.SetUndisturbMode(ctx, "maybe"))

	assert.Empty(t, transport.sentPayloads())
}

func TestPushStatusLoadsAndRendersMap(t *testing.T) {
	transport := newFakeTransport()
	transport.maps["7"] = minimalMapPayload()
	device := newTestDevice(transport)
	display := &fakeDisplay{}
	device.RegisterDisplay(display)

	require.NoError(t, device.PushStatus(context.Background(), map[string]any{
		"working_status": ModeAutoClean,
		"map_id":         "7",
	}))

	assert.Equal(t, MapLoaded, device.MapState())
	img, ok := device.MapImage()
	require.True(t, ok)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, img.Data[:4])
	assert.Equal(t, 1, display.count())
	assert.Equal(t, uint64(1), device.Renders())

	m, ok := device.Map()
	require.True(t, ok)
	assert.Equal(t, 2, m.Grid.Width)
}

func TestPushStatusSameMapFetchedOnce(t *testing.T) {
	transport := newFakeTransport()
	transport.maps["7"] = minimalMapPayload()
	device := newTestDevice(transport)
	ctx := context.Background()

	require.NoError(t, device.PushStatus(ctx, map[string]any{"map_id": "7"}))
	require.NoError(t, device.PushStatus(ctx, map[string]any{"map_id": "7"}))

	assert.Equal(t, 1, transport.fetchCount())
}

func TestPushStatusFetchFailure(t *testing.T) {
	transport := newFakeTransport()
	transport.fetchErr = errors.New("timeout")
	device := newTestDevice(transport)

	err := device.PushStatus(context.Background(), map[string]any{"map_id": "7"})
	require.Error(t, err)
	assert.Equal(t, MapAbsent, device.MapState())
	_, ok := device.MapImage()
	assert.False(t, ok)

	// the status replacement still took effect
	assert.True(t, device.Live())
}

func TestPushStatusDecodeFailure(t *testing.T) {
	transport := newFakeTransport()
	transport.maps["7"] = []byte{0x00, 0x01}
	device := newTestDevice(transport)

	err := device.PushStatus(context.Background(), map[string]any{"map_id": "7"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, vacmap.ErrDecode))
	assert.Equal(t, MapAbsent, device.MapState())
}

func TestPushStatusNoMapID(t *testing.T) {
	transport := newFakeTransport()
	device := newTestDevice(transport)

	require.NoError(t, device.PushStatus(context.Background(), map[string]any{
		"working_status": ModeStandby,
	}))
	assert.Equal(t, MapAbsent, device.MapState())
	assert.Equal(t, 0, transport.fetchCount())
}

func TestStatusReplaceIsAtomic(t *testing.T) {
	transport := newFakeTransport()
	device := newTestDevice(transport)
	ctx := context.Background()

	require.NoError(t, device.PushStatus(ctx, map[string]any{
		"working_status": ModeAutoClean,
		"battery_level":  "80",
	}))
	old := device.Status()

	require.NoError(t, device.PushStatus(ctx, map[string]any{
		"working_status": ModeCharging,
	}))

	// the old snapshot keeps its complete view
	assert.Equal(t, ModeAutoClean, old.Mode())
	battery, err := old.BatteryLevel()
	require.NoError(t, err)
	assert.Equal(t, 80, battery)

	// the new snapshot is fully the new mapping
	current := device.Status()
	assert.Equal(t, ModeCharging, current.Mode())
	battery, err = current.BatteryLevel()
	require.NoError(t, err)
	assert.Equal(t, 0, battery)
}

func TestUnregisterDisplay(t *testing.T) {
	transport := newFakeTransport()
	transport.maps["7"] = minimalMapPayload()
	device := newTestDevice(transport)
	display := &fakeDisplay{}
	device.RegisterDisplay(display)
	device.UnregisterDisplay()

	require.NoError(t, device.PushStatus(context.Background(), map[string]any{"map_id": "7"}))

	assert.Equal(t, 0, display.count())
	_, ok := device.MapImage()
	assert.True(t, ok)
}

func TestRunConsumesUpdatesUntilCancelled(t *testing.T) {
	transport := newFakeTransport()
	device := newTestDevice(transport)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- device.Run(ctx) }()

	transport.updates <- map[string]any{"working_status": ModeAutoClean, "connected": "true"}

	require.Eventually(t, func() bool {
		return device.Status().Mode() == ModeAutoClean
	}, time.Second, 5*time.Millisecond)
	assert.True(t, device.Status().IsAvailable())

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("run did not stop on cancel")
	}
}

func TestRunStopsWhenStreamCloses(t *testing.T) {
	transport := newFakeTransport()
	device := newTestDevice(transport)

	done := make(chan error, 1)
	go func() { done <- device.Run(context.Background()) }()

	close(transport.updates)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not stop on stream close")
	}
}
