package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/ports"
)

// Document is an in-memory host tree implementing ports.Host.
//
// Structural changes are delivered to observers in batches. Outside of a batch
// every change is delivered immediately; inside Batch (and therefore inside
// Dispatch) records queue up and are delivered once the outermost batch ends,
// or earlier when Flush is called.
//
// A Document is single-threaded. Goroutines entering from outside (HTTP
// handlers, watchers) must go through Do.
type Document struct {
	mu sync.Mutex

	root      *Element
	observers []*observer
	listeners map[string][]*listener

	depth int
}

type observer struct {
	root    *Element
	fn      ports.MutationCallback
	pending []ports.MutationRecord
	active  bool
}

type listener struct {
	fn     ports.ListenerFunc
	active bool
}

var _ ports.Host = (*Document)(nil)

// NewDocument creates an empty document with an "html" root element.
func NewDocument() *Document {
	d := &Document{
		listeners: make(map[string][]*listener),
	}
	d.root = &Element{doc: d, tag: "html"}
	return d
}

// Root returns the document element.
func (d *Document) Root() *Element {
	return d.root
}

// CreateElement returns a new detached element owned by the document.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{doc: d, tag: strings.ToLower(tag)}
}

// GetElementByID returns the first connected element whose id attribute equals id.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	for _, n := range d.root.Descendants() {
		if el := n.(*Element); el.ID() == id {
			return el
		}
	}
	return nil
}

// FindByIdentity returns the connected element carrying the given identity.
func (d *Document) FindByIdentity(identity string) *Element {
	if identity == "" {
		return nil
	}
	for _, n := range d.root.Descendants() {
		if v, ok := n.Data(domain.KeyIdentity); ok && v == identity {
			return n.(*Element)
		}
	}
	return nil
}

// QueryAll returns the connected elements matching pred, in document order.
func (d *Document) QueryAll(pred func(*Element) bool) []*Element {
	var out []*Element
	for _, n := range d.root.Descendants() {
		if el := n.(*Element); pred(el) {
			out = append(out, el)
		}
	}
	return out
}

// Do runs fn while holding the document lock.
func (d *Document) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// Observe implements ports.Host.
func (d *Document) Observe(root domain.Node, fn ports.MutationCallback) ports.Unsubscribe {
	el, ok := root.(*Element)
	if !ok || el == nil || el.doc != d || fn == nil {
		return func() {}
	}
	o := &observer{root: el, fn: fn, active: true}
	d.observers = append(d.observers, o)
	return func() {
		if !o.active {
			return
		}
		o.active = false
		o.pending = nil
		kept := make([]*observer, 0, len(d.observers))
		for _, other := range d.observers {
			if other != o {
				kept = append(kept, other)
			}
		}
		d.observers = kept
	}
}

// Listen implements ports.Host.
func (d *Document) Listen(eventType string, fn ports.ListenerFunc) ports.Unsubscribe {
	if fn == nil {
		return func() {}
	}
	l := &listener{fn: fn, active: true}
	d.listeners[eventType] = append(d.listeners[eventType], l)
	return func() {
		if !l.active {
			return
		}
		l.active = false
		list := d.listeners[eventType]
		kept := make([]*listener, 0, len(list))
		for _, other := range list {
			if other != l {
				kept = append(kept, other)
			}
		}
		d.listeners[eventType] = kept
	}
}

// ListenerCount returns the number of active listeners for an event type.
func (d *Document) ListenerCount(eventType string) int {
	return len(d.listeners[eventType])
}

// ObserverCount returns the number of active structural observers.
func (d *Document) ObserverCount() int {
	return len(d.observers)
}

// Dispatch delivers ev to every document listener of its type, in
// registration order, as one batch.
func (d *Document) Dispatch(ev *domain.Event) {
	if ev == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	list := d.listeners[ev.Type]
	snapshot := make([]*listener, len(list))
	copy(snapshot, list)

	d.Batch(func() {
		for _, l := range snapshot {
			if l.active {
				l.fn(ev)
			}
		}
	})
}

// Fire is a shorthand for dispatching an interaction of eventType on target.
func (d *Document) Fire(eventType string, target *Element, value string) *domain.Event {
	ev := domain.NewEvent(eventType, target)
	ev.Value = value
	d.Dispatch(ev)
	return ev
}

// Batch runs fn, deferring structural notifications until the outermost batch ends.
func (d *Document) Batch(fn func()) {
	d.depth++
	defer func() {
		d.depth--
		if d.depth == 0 {
			d.Flush()
		}
	}()
	fn()
}

// Flush implements ports.Host. Each round takes every observer's pending
// records at once; records produced while observers run are delivered in
// follow-up rounds until the queue is empty. Flush may be called from inside
// an observer callback and delivers whatever has been queued since.
func (d *Document) Flush() {
	for {
		type delivery struct {
			o       *observer
			records []ports.MutationRecord
		}
		var round []delivery
		for _, o := range d.observers {
			if len(o.pending) > 0 {
				round = append(round, delivery{o: o, records: o.pending})
				o.pending = nil
			}
		}
		if len(round) == 0 {
			return
		}
		for _, dl := range round {
			if dl.o.active {
				dl.o.fn(dl.records)
			}
		}
	}
}

func (d *Document) record(parent *Element, added, removed []*Element) {
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	rec := ports.MutationRecord{
		Target:  parent,
		Added:   toNodes(added),
		Removed: toNodes(removed),
	}
	for _, o := range d.observers {
		if o.active && o.root.Contains(parent) {
			o.pending = append(o.pending, rec)
		}
	}
	if d.depth == 0 {
		d.Flush()
	}
}

func toNodes(els []*Element) []domain.Node {
	if len(els) == 0 {
		return nil
	}
	out := make([]domain.Node, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out
}
