// Package heartbeat publishes a retained liveness message so bus
// clients can tell a stalled daemon from a quiet one.
package heartbeat

import (
	"context"
	"log/slog"
	"time"

	"spbm-go/bus"
	"spbm-go/x/convx"
	"spbm-go/x/timex"
)

var topicConfigHeartbeat = bus.Topic{"config", "heartbeat"}

type Beat struct {
	UptimeS int64 `json:"uptime_s"`
	TS      int64 `json:"ts_ms"`
}

type Service struct {
	Log *slog.Logger // nil => slog.Default()
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	start := time.Now()
	tick := time.NewTicker(2 * time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("heartbeat stopping")
			return
		case <-tick.C:
			beat := Beat{UptimeS: int64(time.Since(start).Seconds()), TS: timex.NowMs()}
			conn.Publish(conn.NewMessage(bus.Topic{"telemetry", "heartbeat"}, beat, true))
		case msg := <-cfgSub.Channel():
			if m, ok := msg.Payload.(map[string]any); ok {
				if interval, ok := convx.AsInt(m["interval"]); ok && interval > 0 {
					tick.Reset(time.Duration(interval) * time.Second)
					log.Debug("heartbeat interval set", "seconds", interval)
				}
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
