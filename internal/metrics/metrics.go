package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts the domain actions handlers complete.
type Metrics struct {
	MessagesCreated prometheus.Counter
	MessagesDeleted prometheus.Counter
	Signups         prometheus.Counter
	Follows         prometheus.Counter
	Unfollows       prometheus.Counter
	Likes           prometheus.Counter
	Unlikes         prometheus.Counter
	Unauthorized    *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_messages_created_total",
			Help: "Total number of messages posted",
		}),
		MessagesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_messages_deleted_total",
			Help: "Total number of messages deleted by their owner",
		}),
		Signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_signups_total",
			Help: "Total number of accounts created",
		}),
		Follows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_follows_total",
			Help: "Total number of successful follow requests",
		}),
		Unfollows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_unfollows_total",
			Help: "Total number of successful unfollow requests",
		}),
		Likes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_likes_total",
			Help: "Total number of likes added",
		}),
		Unlikes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_unlikes_total",
			Help: "Total number of likes removed",
		}),
		Unauthorized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_unauthorized_total",
				Help: "Total number of requests answered with Access unauthorized",
			},
			[]string{"route"},
		),
	}

	reg.MustRegister(
		m.MessagesCreated,
		m.MessagesDeleted,
		m.Signups,
		m.Follows,
		m.Unfollows,
		m.Likes,
		m.Unlikes,
		m.Unauthorized,
	)

	return m
}
