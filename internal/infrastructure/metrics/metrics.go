package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "parlor_ws_active_connections",
		Help: "Number of currently open websocket connections.",
	})

	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "parlor_rooms_active",
		Help: "Number of rooms currently held in the store.",
	})

	EventsBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parlor_ws_events_broadcast_total",
		Help: "Total events fanned out to room groups.",
	})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parlor_ws_events_dropped_total",
		Help: "Events dropped because a client send buffer was full.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
