// Package vacuum is the semantic device model for a WeBack robot vacuum.
// It translates the raw cloud status mapping into typed properties,
// encodes high-level intents into wire payloads, and keeps the rendered
// map image current. The transport/session layer stays behind the
// Transport interface.
package vacuum

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dulek/weback/vacmap"
)

// Identity names one device toward the transport.
type Identity struct {
	Name     string
	Nickname string
	SubType  string
}

// Transport is the session layer the driver talks through. Connection
// lifecycle, authentication and retries live behind this interface.
type Transport interface {
	// StatusUpdates delivers raw status mappings as the device reports
	// them. The channel closes when the transport shuts down.
	StatusUpdates(ctx context.Context) (<-chan map[string]any, error)
	// FetchMap retrieves the raw map payload for a stored map id.
	FetchMap(ctx context.Context, ident Identity, mapID string) ([]byte, error)
	// SendCommand delivers an encoded command payload to the device.
	SendCommand(ctx context.Context, ident Identity, payload Payload) error
}

// Display is notified after each successful map render.
type Display interface {
	NotifyUpdated()
}

// MapState tracks the map axis of the device lifecycle.
type MapState int

const (
	MapAbsent MapState = iota
	MapLoading
	MapLoaded
)

// RenderedImage is an encoded raster snapshot of the current map. It is
// replaced atomically on each render and never written in place.
type RenderedImage struct {
	Data        []byte
	ContentType string
}

// Device owns the live status, the decoded map and the rendered image for
// one vacuum. All mutation happens through whole-object replacement, so
// concurrent readers always observe complete snapshots.
type Device struct {
	ident     Identity
	transport Transport
	log       zerolog.Logger

	mu       sync.RWMutex
	status   Status
	live     bool
	mapState MapState
	mapID    string
	vacMap   *vacmap.Map
	image    *RenderedImage
	renders  uint64
	display  Display
}

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the device logger.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Device) { d.log = log }
}

// WithInitialStatus seeds the status from the HTTP bootstrap payload so
// properties are readable before the first transport push.
func WithInitialStatus(fields map[string]any) Option {
	return func(d *Device) {
		d.status = NewStatus(fields)
		d.live = true
	}
}

// NewDevice builds a Device around a transport collaborator.
func NewDevice(ident Identity, transport Transport, opts ...Option) *Device {
	d := &Device{
		ident:     ident,
		transport: transport,
		log:       zerolog.Nop(),
		status:    NewStatus(nil),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Identity returns the device identity.
func (d *Device) Identity() Identity {
	return d.ident
}

// Run consumes status pushes until the context is cancelled or the
// transport closes the stream. Map fetch failures are logged and retried
// on the next push carrying the map id; they do not stop the loop.
func (d *Device) Run(ctx context.Context) error {
	updates, err := d.transport.StatusUpdates(ctx)
	if err != nil {
		return fmt.Errorf("status updates: %w", err)
	}
	d.log.Debug().Str("device", d.ident.Name).Str("sub_type", d.ident.SubType).Msg("state watcher started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fields, ok := <-updates:
			if !ok {
				return nil
			}
			if err := d.PushStatus(ctx, fields); err != nil {
				d.log.Error().Err(err).Msg("status push")
			}
		}
	}
}

// PushStatus replaces the status wholesale and, when the report names an
// active map the device has not loaded yet, fetches and renders it. The
// returned error covers only the map load; the status replacement always
// takes effect.
func (d *Device) PushStatus(ctx context.Context, fields map[string]any) error {
	st := NewStatus(fields)
	d.mu.Lock()
	d.status = st
	d.live = true
	d.mu.Unlock()

	mapID, ok := st.ActiveMapID()
	if !ok {
		return nil
	}

	d.mu.Lock()
	if d.mapState == MapLoading || (d.mapState == MapLoaded && d.mapID == mapID) {
		d.mu.Unlock()
		return nil
	}
	d.mapState = MapLoading
	d.mu.Unlock()

	if err := d.loadMap(ctx, mapID); err != nil {
		d.mu.Lock()
		d.mapState = MapAbsent
		d.mu.Unlock()
		return err
	}
	return nil
}

// loadMap fetches, decodes and renders one map. It publishes everything
// or nothing: on any failure the caller reverts the map axis and no
// partial map or image becomes visible.
func (d *Device) loadMap(ctx context.Context, mapID string) error {
	raw, err := d.transport.FetchMap(ctx, d.ident, mapID)
	if err != nil {
		return fmt.Errorf("fetch map %s: %w", mapID, err)
	}
	m, err := vacmap.Parse(raw)
	if err != nil {
		return fmt.Errorf("map %s: %w", mapID, err)
	}
	img, err := vacmap.Render(m)
	if err != nil {
		return fmt.Errorf("render map %s: %w", mapID, err)
	}

	d.mu.Lock()
	d.vacMap = m
	d.mapID = mapID
	d.mapState = MapLoaded
	d.image = &RenderedImage{Data: img, ContentType: "image/png"}
	d.renders++
	display := d.display
	d.mu.Unlock()

	d.log.Debug().Str("map_id", mapID).Int("path_points", len(m.Path)).Msg("map rendered")
	if display != nil {
		display.NotifyUpdated()
	}
	return nil
}

// Status returns the current status snapshot.
func (d *Device) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// Live reports whether any status has been seen yet.
func (d *Device) Live() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.live
}

// Map returns the decoded map, false while none is loaded.
func (d *Device) Map() (*vacmap.Map, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.vacMap, d.mapState == MapLoaded
}

// MapState returns the current map axis state.
func (d *Device) MapState() MapState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mapState
}

// MapImage returns the latest rendered image, false while none exists.
func (d *Device) MapImage() (RenderedImage, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.image == nil {
		return RenderedImage{}, false
	}
	return *d.image, true
}

// Renders returns how many images have been published.
func (d *Device) Renders() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.renders
}

// RegisterDisplay installs the display collaborator. Last write wins.
func (d *Device) RegisterDisplay(display Display) {
	d.mu.Lock()
	d.display = display
	d.mu.Unlock()
}

// UnregisterDisplay removes the display collaborator.
func (d *Device) UnregisterDisplay() {
	d.RegisterDisplay(nil)
}

// TurnOn starts an automatic clean.
func (d *Device) TurnOn(ctx context.Context) error {
	return d.send(ctx, encodeTurnOn())
}

// TurnOff sends the robot back to its charger.
func (d *Device) TurnOff(ctx context.Context) error {
	return d.send(ctx, encodeReturnToBase())
}

// ReturnToBase sends the robot back to its charger.
func (d *Device) ReturnToBase(ctx context.Context) error {
	return d.send(ctx, encodeReturnToBase())
}

// Pause stops the current activity.
func (d *Device) Pause(ctx context.Context) error {
	return d.send(ctx, encodePause())
}

// CleanSpot starts a spot clean at the current position.
func (d *Device) CleanSpot(ctx context.Context) error {
	return d.send(ctx, encodeCleanSpot())
}

// Locate makes the robot play its location sound.
func (d *Device) Locate(ctx context.Context) error {
	return d.send(ctx, encodeLocate())
}

// Goto drives the robot to a point.
func (d *Device) Goto(ctx context.Context, point string) error {
	payload, err := encodeGoto(point)
	if err != nil {
		d.reject("goto", err)
		return nil
	}
	return d.send(ctx, payload)
}

// CleanRect cleans a single rectangle.
func (d *Device) CleanRect(ctx context.Context, rect string) error {
	payload, err := encodeCleanRect(rect)
	if err != nil {
		d.reject("clean_rect", err)
		return nil
	}
	return d.send(ctx, payload)
}

// CleanRooms cleans the given rooms.
func (d *Device) CleanRooms(ctx context.Context, roomIDs []int) error {
	payload, err := encodeCleanRooms(roomIDs)
	if err != nil {
		d.reject("clean_rooms", err)
		return nil
	}
	return d.send(ctx, payload)
}

// CleanZone cleans the given bounding boxes.
func (d *Device) CleanZone(ctx context.Context, zones []Zone) error {
	payload, err := encodeCleanZone(zones)
	if err != nil {
		d.reject("clean_zone", err)
		return nil
	}
	return d.send(ctx, payload)
}

// SetFanWaterSpeed sets the fan speed or mop water level. The device only
// applies the value while cleaning, so anything else is dropped locally.
func (d *Device) SetFanWaterSpeed(ctx context.Context, speed string) error {
	if !d.Status().IsCleaning() {
		d.log.Info().Str("value", speed).Msg("cannot set fan/water speed, robot is not running")
		return nil
	}
	payload, err := encodeFanWaterSpeed(speed)
	if err != nil {
		d.reject("set_fan_water_speed", err)
		return nil
	}
	return d.send(ctx, payload)
}

// SetVoiceMode switches the voice announcements on or off.
func (d *Device) SetVoiceMode(ctx context.Context, state string) error {
	payload, err := encodeSwitch(keyVoiceSwitch, state)
	if err != nil {
		d.reject("voice_mode", err)
		return nil
	}
	return d.send(ctx, payload)
}

// SetUndisturbMode switches do-not-disturb on or off.
func (d *Device) SetUndisturbMode(ctx context.Context, state string) error {
	payload, err := encodeSwitch(keyUndisturb, state)
	if err != nil {
		d.reject("undisturb_mode", err)
		return nil
	}
	return d.send(ctx, payload)
}

func (d *Device) reject(op string, err error) {
	d.log.Warn().Str("op", op).Err(err).Msg("command rejected")
}

func (d *Device) send(ctx context.Context, payload Payload) error {
	cmdID := uuid.NewString()
	d.log.Debug().Str("cmd_id", cmdID).Interface("payload", payload).Msg("sending command")
	if err := d.transport.SendCommand(ctx, d.ident, payload); err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	return nil
}
