// Package monitor owns the telemetry binding: it maps the firmware
// window once per configuration, publishes the channel catalog as
// retained bus messages and sweeps every channel on a fixed period.
package monitor

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"spbm-go/bus"
	"spbm-go/drivers/spbm"
	"spbm-go/errcode"
	"spbm-go/types"
	"spbm-go/x/convx"
	"spbm-go/x/mathx"
	"spbm-go/x/timex"
)

// -----------------------------------------------------------------------------
// Entry point
// -----------------------------------------------------------------------------

type Options struct {
	Source WindowSource // nil => chosen from the config (hardware or sim)
	Log    *slog.Logger // nil => slog.Default()
}

func Run(ctx context.Context, conn *bus.Connection, opts Options) {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	s := &service{
		conn:   conn,
		source: opts.Source,
		log:    opts.Log,
	}
	s.loop(ctx)
}

// -----------------------------------------------------------------------------
// Service
// -----------------------------------------------------------------------------

type service struct {
	conn   *bus.Connection
	source WindowSource
	log    *slog.Logger

	binding  *spbm.Binding
	periodMS uint32
	seq      uint64
}

const (
	periodDefaultMS = 1000
	periodMinMS     = 200
	periodMaxMS     = 3_600_000
)

// -----------------------------------------------------------------------------
// Main loop
// -----------------------------------------------------------------------------

func (s *service) loop(ctx context.Context) {
	cfgSub := s.conn.Subscribe(bus.Topic{"config", "monitor"})
	chCtrlSub := s.conn.Subscribe(bus.Topic{"telemetry", "channel", "+", "+", "control", "+"})
	svcCtrlSub := s.conn.Subscribe(bus.Topic{"telemetry", "control", "+"})
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(chCtrlSub)
	defer s.conn.Unsubscribe(svcCtrlSub)

	s.periodMS = periodDefaultMS
	s.publishState("idle", "awaiting_config")

	tick := time.NewTicker(time.Duration(s.periodMS) * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.publishState("stopped", "context_cancelled")
			s.closeBinding()
			return

		case msg := <-cfgSub.Channel():
			var cfg types.MonitorConfig
			if err := decodeJSON(msg.Payload, &cfg); err != nil {
				s.log.Error("config decode failed", "err", err)
				s.publishState("idle", "config_decode_failed")
				continue
			}
			if err := s.applyConfig(ctx, cfg); err != nil {
				s.log.Error("bind failed", "err", err)
				s.publishState("idle", "bind_failed")
				continue
			}
			if cfg.IntervalMs > 0 {
				s.periodMS = mathx.Clamp(cfg.IntervalMs, periodMinMS, periodMaxMS)
			}
			tick.Reset(time.Duration(s.periodMS) * time.Millisecond)
			s.publishState("ready", "configured")

		case msg := <-chCtrlSub.Channel():
			s.handleChannelControl(msg)

		case msg := <-svcCtrlSub.Channel():
			s.handleServiceControl(msg, tick)

		case <-tick.C:
			s.sweep()
		}
	}
}

// -----------------------------------------------------------------------------
// Configuration / binding
// -----------------------------------------------------------------------------

func (s *service) applyConfig(ctx context.Context, cfg types.MonitorConfig) error {
	s.closeBinding()

	src := s.source
	if src == nil {
		if cfg.Sim {
			src = SimSource{}
		} else {
			src = HardwareSource{}
		}
	}
	win, err := src.Open(ctx, cfg)
	if err != nil {
		return err
	}
	b, err := spbm.Bind(win)
	if err != nil {
		return err
	}
	s.binding = b

	if err := b.Health(); err != nil {
		// The firmware control loop may simply not have started yet.
		s.log.Warn("power telemetry is inactive", "sanity", b.SanityReading(), "err", err)
	}

	for _, kind := range []spbm.Kind{spbm.Power, spbm.Energy} {
		for i, ch := range spbm.Channels(kind) {
			info := types.Info{
				SchemaVersion: 1,
				Driver:        "spbm",
				Detail: types.ChannelInfo{
					Kind:  kind.String(),
					Index: i,
					Label: ch.Label,
					Unit:  unitOf(kind),
				},
			}
			s.pubRet(channelTopic(kind.String(), i, "info"), info)
		}
	}
	return nil
}

func (s *service) closeBinding() {
	if s.binding != nil {
		if err := s.binding.Close(); err != nil {
			s.log.Error("close failed", "err", err)
		}
		s.binding = nil
	}
}

// -----------------------------------------------------------------------------
// Sampling
// -----------------------------------------------------------------------------

func (s *service) sweep() {
	if s.binding == nil {
		return
	}
	now := timex.NowMs()
	s.seq++

	sample := types.TelemetrySample{
		Seq:    s.seq,
		Active: s.binding.TelemetryActive(),
		TS:     now,
	}
	sample.Power = s.sweepKind(spbm.Power, now)
	sample.Energy = s.sweepKind(spbm.Energy, now)

	s.conn.Publish(s.conn.NewMessage(bus.Topic{"telemetry", "sample"}, sample, false))
}

func (s *service) sweepKind(kind spbm.Kind, now int64) []types.ChannelReading {
	out := make([]types.ChannelReading, 0, spbm.Count(kind))
	for i, ch := range spbm.Channels(kind) {
		v, err := s.binding.Read(kind, i)
		if err != nil {
			s.log.Error("read failed", "kind", kind.String(), "channel", ch.Label, "err", err)
			continue
		}
		rd := types.ChannelReading{
			Kind:  kind.String(),
			Index: i,
			Label: ch.Label,
			Value: v,
			TS:    now,
		}
		out = append(out, rd)
		s.conn.Publish(s.conn.NewMessage(channelTopic(kind.String(), i, "value"), rd, false))
	}
	return out
}

// -----------------------------------------------------------------------------
// Controls
// -----------------------------------------------------------------------------

func (s *service) handleChannelControl(msg *bus.Message) {
	// telemetry/channel/<kind>/<idx:int>/control/<method>
	if len(msg.Topic) < 6 {
		return
	}
	kindStr, _ := msg.Topic[2].(string)
	idx, ok := convx.AsInt(msg.Topic[3])
	if !ok || kindStr == "" {
		s.replyErr(msg, errcode.InvalidTopic)
		return
	}
	method, _ := msg.Topic[5].(string)

	switch method {
	case "read_now":
		s.replyReading(msg, kindStr, idx)
	default:
		s.replyErr(msg, errcode.Unsupported)
	}
}

func (s *service) handleServiceControl(msg *bus.Message, tick *time.Ticker) {
	// telemetry/control/<method>
	if len(msg.Topic) < 3 {
		return
	}
	method, _ := msg.Topic[2].(string)

	switch method {
	case "set_rate":
		var sr types.SetRate
		if err := decodeJSON(msg.Payload, &sr); err != nil || sr.IntervalMs == 0 {
			s.replyErr(msg, errcode.InvalidPeriod)
			return
		}
		s.periodMS = mathx.Clamp(sr.IntervalMs, periodMinMS, periodMaxMS)
		tick.Reset(time.Duration(s.periodMS) * time.Millisecond)
		s.replyOK(msg, map[string]any{"period_ms": s.periodMS})
	case "read_now":
		var rn types.ReadNow
		if err := decodeJSON(msg.Payload, &rn); err != nil {
			s.replyErr(msg, errcode.InvalidPayload)
			return
		}
		idx := rn.Index
		if rn.Label != "" {
			kind, ok := kindOf(rn.Kind)
			if !ok {
				s.replyErr(msg, errcode.UnknownChannel)
				return
			}
			idx, ok = spbm.LookupLabel(kind, rn.Label)
			if !ok {
				s.replyErr(msg, errcode.UnknownChannel)
				return
			}
		}
		s.replyReading(msg, rn.Kind, idx)
	default:
		s.replyErr(msg, errcode.Unsupported)
	}
}

func (s *service) replyReading(msg *bus.Message, kindStr string, idx int) {
	if s.binding == nil {
		s.replyErr(msg, errcode.Closed)
		return
	}
	kind, ok := kindOf(kindStr)
	if !ok {
		s.replyErr(msg, errcode.UnknownChannel)
		return
	}
	v, err := s.binding.Read(kind, idx)
	if err != nil {
		s.conn.Reply(msg, types.ReadResult{Error: err.Error()}, false)
		return
	}
	label, _ := s.binding.Label(kind, idx)
	s.conn.Reply(msg, types.ReadResult{
		Reading: types.ChannelReading{
			Kind:  kindStr,
			Index: idx,
			Label: label,
			Value: v,
			TS:    timex.NowMs(),
		},
	}, false)
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (s *service) publishState(level, status string) {
	st := types.MonitorState{
		Level:  level,
		Status: status,
		TS:     timex.NowMs(),
	}
	if s.binding != nil {
		st.Active = s.binding.TelemetryActive()
		st.Sanity = s.binding.SanityReading()
	}
	s.pubRet(bus.Topic{"telemetry", "state"}, st)
}

func (s *service) replyOK(req *bus.Message, extra map[string]any) {
	if len(req.ReplyTo) == 0 {
		return
	}
	m := map[string]any{"ok": true}
	for k, v := range extra {
		m[k] = v
	}
	s.conn.Reply(req, m, false)
}

func (s *service) replyErr(req *bus.Message, c errcode.Code) {
	if len(req.ReplyTo) == 0 {
		return
	}
	s.conn.Reply(req, map[string]any{"ok": false, "error": string(c)}, false)
}

func channelTopic(kind string, idx int, rest ...bus.Token) bus.Topic {
	base := bus.Topic{"telemetry", "channel", kind, idx}
	return append(base, rest...)
}

func (s *service) pubRet(t bus.Topic, p any) {
	s.conn.Publish(s.conn.NewMessage(t, p, true))
}

func unitOf(kind spbm.Kind) string {
	if kind == spbm.Energy {
		return "uJ"
	}
	return "uW"
}

func kindOf(s string) (spbm.Kind, bool) {
	switch s {
	case "power":
		return spbm.Power, true
	case "energy":
		return spbm.Energy, true
	default:
		return 0, false
	}
}

func decodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	case T:
		*dst = v
		return nil
	default:
		// Accept maps, structs, numbers by marshaling then decoding to T.
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}
