package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		telegramCommandsReceivedTotal,
		telegramSendFailuresTotal,
		entriesSavedTotal,
	)
}

var (
	telegramCommandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_commands_received_total",
			Help: "Counts incoming messages and commands from users.",
		},
		[]string{"command"},
	)

	telegramSendFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_send_failures_total",
			Help: "Outbound messages that Telegram did not accept.",
		},
	)

	entriesSavedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entries_saved_total",
			Help: "Save attempts by result (saved/rejected/failed).",
		},
		[]string{"result"},
	)
)

func IncTelegramCommand(command string) {
	telegramCommandsReceivedTotal.WithLabelValues(norm(command)).Inc()
}

func IncSendFailure() {
	telegramSendFailuresTotal.Inc()
}

func IncEntrySave(result string) {
	entriesSavedTotal.WithLabelValues(norm(result)).Inc()
}
