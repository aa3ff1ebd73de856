package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "apexbot_commands_handled_total",
	Help: "Inbound text commands handled, labeled by parsed command kind.",
}, []string{"kind"})
