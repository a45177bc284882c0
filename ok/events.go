package ok

import (
	"slices"

	"github.com/google/uuid"
)

// Event names shared by sequences, data classes and views.
const (
	EventAdd    = "add"
	EventRemove = "remove"
	EventSort   = "sort"
	EventChange = "change"
)

// Emitter is implemented by anything that owns a Hub.
type Emitter interface {
	Events() *Hub
}

// Hub is a per-object publish/subscribe table. Instances and sequences
// embed one. A Hub is not safe for concurrent use.
type Hub struct {
	id        uuid.UUID
	owner     Value
	handlers  map[string][]subscription
	listening map[uuid.UUID]*Hub
}

type subscription struct {
	fn       *Function
	context  Value
	bound    bool
	listener *Hub
}

// NewHub returns a standalone hub. Handlers registered without a context
// receive a nil receiver.
func NewHub() *Hub {
	return newHub(NewNil())
}

func newHub(owner Value) *Hub {
	return &Hub{id: uuid.New(), owner: owner}
}

// ID is assigned when the hub is created and never changes.
func (h *Hub) ID() uuid.UUID { return h.id }

// Events returns h so that types embedding a Hub satisfy Emitter.
func (h *Hub) Events() *Hub { return h }

// On registers fn for every future Trigger of event. Registering the same
// function twice makes it run twice.
func (h *Hub) On(event string, fn *Function) {
	if fn == nil {
		return
	}
	h.subscribe(event, subscription{fn: fn})
}

// OnContext is On with an explicit receiver for fn.
func (h *Hub) OnContext(event string, fn *Function, context Value) {
	if fn == nil {
		return
	}
	h.subscribe(event, subscription{fn: fn, context: context, bound: true})
}

func (h *Hub) subscribe(event string, sub subscription) {
	if h.handlers == nil {
		h.handlers = make(map[string][]subscription)
	}
	h.handlers[event] = append(h.handlers[event], sub)
}

// Off removes every registration of fn under event. A nil fn removes all
// handlers of event.
func (h *Hub) Off(event string, fn *Function) {
	h.removeWhere(func(name string, sub subscription) bool {
		return name == event && (fn == nil || sub.fn == fn)
	})
}

func (h *Hub) removeWhere(match func(event string, sub subscription) bool) {
	for event, subs := range h.handlers {
		kept := slices.DeleteFunc(subs, func(sub subscription) bool {
			return match(event, sub)
		})
		if len(kept) == 0 {
			delete(h.handlers, event)
			continue
		}
		h.handlers[event] = kept
	}
}

// Trigger runs the handlers of event in registration order. The first
// handler error stops the dispatch and is returned as is.
func (h *Hub) Trigger(event string, args ...Value) error {
	subs := h.handlers[event]
	if len(subs) == 0 {
		return nil
	}
	// Handlers may register or remove handlers while we iterate.
	for _, sub := range slices.Clone(subs) {
		receiver := h.owner
		if sub.bound {
			receiver = sub.context
		}
		if _, err := callFunction(sub.fn, receiver, levelUnresolved, args); err != nil {
			return err
		}
	}
	return nil
}

// HandlerCount returns the number of registrations for event.
func (h *Hub) HandlerCount(event string) int {
	return len(h.handlers[event])
}

// ListenTo registers fn on other and remembers other so StopListening can
// undo it. fn receives this hub's owner as receiver.
func (h *Hub) ListenTo(other Emitter, event string, fn *Function) {
	h.ListenToContext(other, event, fn, h.owner)
}

// ListenToContext is ListenTo with an explicit receiver for fn.
func (h *Hub) ListenToContext(other Emitter, event string, fn *Function, context Value) {
	if other == nil || fn == nil {
		return
	}
	target := other.Events()
	if h.listening == nil {
		h.listening = make(map[uuid.UUID]*Hub)
	}
	h.listening[target.id] = target
	target.subscribe(event, subscription{fn: fn, context: context, bound: true, listener: h})
}

// IsListeningTo reports whether h still tracks other as a source.
func (h *Hub) IsListeningTo(other Emitter) bool {
	if other == nil {
		return false
	}
	_, ok := h.listening[other.Events().id]
	return ok
}

// StopListening removes registrations that h made through ListenTo. A nil
// other covers every tracked source, an empty event covers every event and
// a nil fn covers every handler. When both event and fn are omitted the
// source is forgotten.
func (h *Hub) StopListening(other Emitter, event string, fn *Function) {
	if len(h.listening) == 0 {
		return
	}
	targets := h.listening
	if other != nil {
		target := other.Events()
		if _, ok := h.listening[target.id]; !ok {
			return
		}
		targets = map[uuid.UUID]*Hub{target.id: target}
	}
	forget := event == "" && fn == nil
	for id, target := range targets {
		target.removeWhere(func(name string, sub subscription) bool {
			if sub.listener != h {
				return false
			}
			if event != "" && name != event {
				return false
			}
			return fn == nil || sub.fn == fn
		})
		if forget {
			delete(h.listening, id)
		}
	}
}
