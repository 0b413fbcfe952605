package metrics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_messages_classified_total",
			Help: "Total number of inbound messages classified, by intent and urgency",
		},
		[]string{"intent", "urgency"},
	)

	AppointmentExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_appointment_extractions_total",
			Help: "Appointment extraction attempts by winning source (none when every source failed)",
		},
		[]string{"source"},
	)

	AppointmentsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_appointments_booked_total",
			Help: "Total number of appointments persisted from conversations",
		},
	)

	GenerationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_generation_failures_total",
			Help: "Total number of replies answered with the fallback text",
		},
		[]string{"reason"},
	)

	ResponseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_response_duration_seconds",
			Help:    "Duration of a full assistant turn in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"persona"},
	)
)

// Handler serves /metrics and a JSON /health probe
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	return mux
}
