package dom

// EventListener handles a dispatched event.
type EventListener func(e *Event)

type listener struct {
	fn      EventListener
	removed bool
}

// EventInit configures a new event.
type EventInit struct {
	Bubbles    bool
	Composed   bool
	Cancelable bool
	Detail     any
}

// Event is a dispatched DOM event. Detail carries the CustomEvent payload.
type Event struct {
	Type       string
	Bubbles    bool
	Composed   bool
	Cancelable bool
	Detail     any

	// Target is the dispatch target as seen from the current listener;
	// it is retargeted to the host when the event leaves a shadow tree.
	Target        *Node
	CurrentTarget *Node

	path             []*Node
	defaultPrevented bool
	stopped          bool
	stoppedNow       bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string, init EventInit) *Event {
	return &Event{
		Type:       typ,
		Bubbles:    init.Bubbles,
		Composed:   init.Composed,
		Cancelable: init.Cancelable,
		Detail:     init.Detail,
	}
}

// StopPropagation prevents the event from reaching further nodes.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// StopImmediatePropagation also skips the remaining listeners of the current node.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedNow = true
}

// PreventDefault marks a cancelable event as canceled.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault was honored.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// ComposedPath returns the propagation path computed at dispatch.
func (e *Event) ComposedPath() []*Node {
	out := make([]*Node, len(e.path))
	copy(out, e.path)
	return out
}

// AddEventListener registers fn for events of type typ and returns a
// function that removes it. The remover is safe to call more than once.
func (n *Node) AddEventListener(typ string, fn EventListener) func() {
	if n.listeners == nil {
		n.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	n.listeners[typ] = append(n.listeners[typ], l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		ls := n.listeners[typ]
		for i, c := range ls {
			if c == l {
				n.listeners[typ] = append(ls[:i], ls[i+1:]...)
				break
			}
		}
		if len(n.listeners[typ]) == 0 {
			delete(n.listeners, typ)
		}
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// DispatchEvent dispatches e with n as its target and returns false when a
// listener canceled it.
func (n *Node) DispatchEvent(e *Event) bool {
	e.path = eventPath(n, e.Composed)
	e.stopped, e.stoppedNow = false, false

	target := n
	for i, cur := range e.path {
		if i > 0 && !e.Bubbles {
			break
		}
		if i > 0 && e.path[i-1].IsShadowRoot() && e.path[i-1].host == cur {
			target = cur
		}
		e.Target = target
		e.CurrentTarget = cur
		cur.invoke(e)
		if e.stopped {
			break
		}
	}
	e.CurrentTarget = nil
	return !e.defaultPrevented
}

func (n *Node) invoke(e *Event) {
	ls := n.listeners[e.Type]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]*listener, len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		if l.removed {
			continue
		}
		l.fn(e)
		if e.stoppedNow {
			return
		}
	}
}

// eventPath walks from target to the document, crossing shadow roots into
// their hosts when composed.
func eventPath(target *Node, composed bool) []*Node {
	var path []*Node
	for p := target; p != nil; {
		path = append(path, p)
		if p.parent != nil {
			p = p.parent
			continue
		}
		if p.host != nil && composed {
			p = p.host
			continue
		}
		break
	}
	return path
}
