package server

import (
	"encoding/json"
	"net/http"

	"github.com/dulek/weback/vacuum"
)

// HealthHandler returns a simple OK for liveness checks.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// MapImageHandler serves the latest rendered map image. 404 until the
// first successful render.
func MapImageHandler(device *vacuum.Device) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		img, ok := device.MapImage()
		if !ok {
			http.Error(w, "no map rendered", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", img.ContentType)
		_, _ = w.Write(img.Data)
	})
}

type statusView struct {
	Mode        string `json:"mode"`
	Cleaning    bool   `json:"cleaning"`
	Charging    bool   `json:"charging"`
	Available   bool   `json:"available"`
	Battery     int    `json:"battery_level"`
	BatteryErr  string `json:"battery_error,omitempty"`
	ErrorInfo   string `json:"error_info,omitempty"`
	FanStatus   string `json:"fan_status,omitempty"`
	WaterLevel  string `json:"water_level,omitempty"`
	CleanTime   int    `json:"clean_time"`
	CleanArea   int    `json:"clean_area"`
	CleanKind   string `json:"clean_kind"`
	MapLoaded   bool   `json:"map_loaded"`
	RenderCount uint64 `json:"render_count"`
}

// StatusHandler serves the derived device properties as JSON.
func StatusHandler(device *vacuum.Device) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status := device.Status()
		view := statusView{
			Mode:        status.Mode(),
			Cleaning:    status.IsCleaning(),
			Charging:    status.IsCharging(),
			Available:   status.IsAvailable(),
			CleanTime:   status.CleanTime(),
			CleanArea:   status.CleanArea(),
			CleanKind:   status.VacuumOrMop().String(),
			MapLoaded:   device.MapState() == vacuum.MapLoaded,
			RenderCount: device.Renders(),
		}
		if battery, err := status.BatteryLevel(); err != nil {
			view.BatteryErr = err.Error()
		} else {
			view.Battery = battery
		}
		if info, ok := status.ErrorInfo(); ok {
			view.ErrorInfo = info
		}
		if fan, ok := status.FanStatus(); ok {
			view.FanStatus = fan
		}
		if mop, ok := status.MopStatus(); ok {
			view.WaterLevel = mop
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(view)
	})
}
