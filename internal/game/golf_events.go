package game

// EventSink receives fire-and-forget sound signals from the engine.
// Implementations must not block.
type EventSink interface {
	OnBounce()
	OnHazard()
	OnHit()
	OnHoleComplete()
}

// StrokeCounter is charged one stroke per shot and per hazard contact.
type StrokeCounter interface {
	AddStroke()
}

// TickContext carries the collaborators the resolver and shot controller
// report to. A nil Sink or Strokes is allowed and ignored.
type TickContext struct {
	Sink    EventSink
	Strokes StrokeCounter
}

func (c TickContext) bounce() {
	if c.Sink != nil {
		c.Sink.OnBounce()
	}
}

func (c TickContext) hazard() {
	if c.Sink != nil {
		c.Sink.OnHazard()
	}
}

func (c TickContext) hit() {
	if c.Sink != nil {
		c.Sink.OnHit()
	}
}

func (c TickContext) holeComplete() {
	if c.Sink != nil {
		c.Sink.OnHoleComplete()
	}
}

func (c TickContext) addStroke() {
	if c.Strokes != nil {
		c.Strokes.AddStroke()
	}
}

// Event types relayed to clients for sound playback.
const (
	EventBounce       = "bounce"
	EventHazard       = "hazard"
	EventHit          = "hit"
	EventHoleComplete = "hole_complete"
)

// CollisionEvent records a signal for relay to the client.
type CollisionEvent struct {
	Type   string `json:"type"`
	Tick   int64  `json:"tick"`
	Player int    `json:"player"`
}

// EventRecorder is an EventSink that buffers events until drained.
type EventRecorder struct {
	Tick   int64
	Player int
	Events []CollisionEvent
}

func (r *EventRecorder) record(t string) {
	r.Events = append(r.Events, CollisionEvent{Type: t, Tick: r.Tick, Player: r.Player})
}

func (r *EventRecorder) OnBounce()       { r.record(EventBounce) }
func (r *EventRecorder) OnHazard()       { r.record(EventHazard) }
func (r *EventRecorder) OnHit()          { r.record(EventHit) }
func (r *EventRecorder) OnHoleComplete() { r.record(EventHoleComplete) }

// Drain returns the buffered events and clears the buffer.
func (r *EventRecorder) Drain() []CollisionEvent {
	ev := r.Events
	r.Events = nil
	return ev
}

// Count returns how many buffered events have type t.
func (r *EventRecorder) Count(t string) int {
	n := 0
	for _, e := range r.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// NopSink discards every signal.
type NopSink struct{}

func (NopSink) OnBounce()       {}
func (NopSink) OnHazard()       {}
func (NopSink) OnHit()          {}
func (NopSink) OnHoleComplete() {}
