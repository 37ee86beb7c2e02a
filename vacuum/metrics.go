package vacuum

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exposes the device snapshot as Prometheus metrics.
type MetricsCollector struct {
	device *Device

	success      prometheus.Gauge
	batteryLevel *prometheus.GaugeVec
	mode         *prometheus.GaugeVec
	cleaning     *prometheus.GaugeVec
	charging     *prometheus.GaugeVec
	available    *prometheus.GaugeVec
	cleanTime    *prometheus.GaugeVec
	cleanArea    *prometheus.GaugeVec
	mapLoaded    *prometheus.GaugeVec
	renders      *prometheus.GaugeVec
}

func NewMetricsCollector(device *Device) *MetricsCollector {
	labels := []string{"device_name", "sub_type"}
	modeLabels := []string{"device_name", "sub_type", "mode"}
	return &MetricsCollector{
		device: device,
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "weback_scrape_success",
			Help: "Last scrape success (1=ok, 0=error)",
		}),
		batteryLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weback_battery_level",
			Help: "Battery percentage (0-100)",
		}, labels),
		mode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weback_mode",
			Help: "Working mode (label) reported by the device",
		}, modeLabels),
		cleaning: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weback_cleaning",
			Help: "Whether the vacuum is cleaning (1=yes, 0=no)",
		}, labels),
		charging: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weback_charging",
			Help: "Whether the vacuum is charging (1=yes, 0=no)",
		}, labels),
		available: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weback_available",
			Help: "Whether the vacuum is connected to the cloud (1=yes, 0=no)",
		}, labels),
		cleanTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weback_clean_time_seconds",
			Help: "Current cleaning time (seconds)",
		}, labels),
		cleanArea: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weback_clean_area_square_meters",
			Help: "Current cleaning area (square meters)",
		}, labels),
		mapLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weback_map_loaded",
			Help: "Whether a map is loaded and rendered (1=yes, 0=no)",
		}, labels),
		renders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weback_map_renders_total",
			Help: "Total map images rendered",
		}, labels),
	}
}

func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	c.success.Describe(ch)
	c.batteryLevel.Describe(ch)
	c.mode.Describe(ch)
	c.cleaning.Describe(ch)
	c.charging.Describe(ch)
	c.available.Describe(ch)
	c.cleanTime.Describe(ch)
	c.cleanArea.Describe(ch)
	c.mapLoaded.Describe(ch)
	c.renders.Describe(ch)
}

func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	ident := c.device.Identity()
	status := c.device.Status()
	labels := prometheus.Labels{
		"device_name": ident.Name,
		"sub_type":    ident.SubType,
	}

	c.mode.Reset()
	c.mode.With(prometheus.Labels{
		"device_name": ident.Name,
		"sub_type":    ident.SubType,
		"mode":        status.Mode(),
	}).Set(1)

	battery, err := status.BatteryLevel()
	if err != nil {
		c.success.Set(0)
	} else {
		c.success.Set(1)
		c.batteryLevel.With(labels).Set(float64(battery))
	}
	c.cleaning.With(labels).Set(boolGauge(status.IsCleaning()))
	c.charging.With(labels).Set(boolGauge(status.IsCharging()))
	c.available.With(labels).Set(boolGauge(status.IsAvailable()))
	c.cleanTime.With(labels).Set(float64(status.CleanTime()))
	c.cleanArea.With(labels).Set(float64(status.CleanArea()))
	c.mapLoaded.With(labels).Set(boolGauge(c.device.MapState() == MapLoaded))
	c.renders.With(labels).Set(float64(c.device.Renders()))

	c.success.Collect(ch)
	c.batteryLevel.Collect(ch)
	c.mode.Collect(ch)
	c.cleaning.Collect(ch)
	c.charging.Collect(ch)
	c.available.Collect(ch)
	c.cleanTime.Collect(ch)
	c.cleanArea.Collect(ch)
	c.mapLoaded.Collect(ch)
	c.renders.Collect(ch)
}

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
