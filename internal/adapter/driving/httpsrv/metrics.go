package httpsrv

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var replyFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "apexbot_reply_failures_total",
	Help: "Replies that could not be delivered to the chat platform.",
})
