package observe

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	packetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mira_packets_total",
			Help: "Decoded packets by type",
		},
		[]string{"type"}, // connect_success|popularity|message
	)

	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mira_messages_total",
			Help: "Decoded chat messages by upstream cmd",
		},
		[]string{"cmd"},
	)

	parseErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mira_parse_errors_total",
		Help: "Known cmds that failed field extraction (possible upstream API drift)",
	})

	heartbeatsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mira_heartbeats_sent_total",
		Help: "Heartbeat frames sent to the gateway",
	})

	bytesReadTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mira_gateway_read_bytes_total",
		Help: "Raw bytes read from the gateway connection",
	})

	popularity = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mira_popularity",
		Help: "Last popularity value reported by heartbeat replies",
	})
)

func init() {
	prometheus.MustRegister(
		packetsTotal,
		messagesTotal,
		parseErrorsTotal,
		heartbeatsTotal,
		bytesReadTotal,
		popularity,
	)
}

func IncPacket(kind string)  { packetsTotal.WithLabelValues(kind).Inc() }
func IncMessage(cmd string)  { messagesTotal.WithLabelValues(cmd).Inc() }
func IncParseError()         { parseErrorsTotal.Inc() }
func IncHeartbeat()          { heartbeatsTotal.Inc() }
func AddBytesRead(n int)     { bytesReadTotal.Add(float64(n)) }
func SetPopularity(v uint32) { popularity.Set(float64(v)) }
