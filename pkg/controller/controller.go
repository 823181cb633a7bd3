// Package controller provides ready-made domain.Controller implementations:
// an explicit signal table and a reflection adapter over exported methods.
package controller

import (
	"context"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/bitty/pkg/domain"
)

// Signals is a controller backed by an explicit signal -> handler table.
type Signals map[string]domain.Handler

// Handler implements domain.Controller.
func (s Signals) Handler(signal string) (domain.Handler, bool) {
	h, ok := s[signal]
	if !ok || h == nil {
		return nil, false
	}
	return h, true
}

var (
	ctxType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	eventType = reflect.TypeOf((*domain.Event)(nil))
	nodeType  = reflect.TypeOf((*domain.Node)(nil)).Elem()
	errType   = reflect.TypeOf((*error)(nil)).Elem()
)

// reserved method names are lifecycle methods, never signals.
var reserved = map[string]bool{"Init": true, "Bind": true, "Handler": true}

// Reflected adapts an arbitrary value into a controller by exposing its
// exported methods as signal handlers. The method table is built once.
type Reflected struct {
	target   any
	handlers map[string]domain.Handler
}

// Methods builds a controller from v's exported methods.
//
// A method is a signal handler when its signature is one of
//
//	func(ctx context.Context, ev *domain.Event, node domain.Node) error
//	func(ctx context.Context, ev *domain.Event, node domain.Node)
//
// Each handler is reachable under its Go name ("ScrambleBody") and under the
// lower-camel form used in markup ("scrambleBody"). Init and Bind on v are
// forwarded when present.
func Methods(v any) *Reflected {
	r := &Reflected{target: v, handlers: make(map[string]domain.Handler)}
	if v == nil {
		return r
	}

	rv := reflect.ValueOf(v)
	rt := rv.Type()
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if reserved[m.Name] {
			continue
		}
		h, ok := adapt(rv.Method(i))
		if !ok {
			continue
		}
		r.handlers[m.Name] = h
		r.handlers[lowerFirst(m.Name)] = h
	}
	return r
}

// Handler implements domain.Controller.
func (r *Reflected) Handler(signal string) (domain.Handler, bool) {
	h, ok := r.handlers[signal]
	return h, ok
}

// Init forwards to the wrapped value's Init, if it has one.
func (r *Reflected) Init(ctx context.Context) error {
	if init, ok := r.target.(domain.Initializer); ok {
		return init.Init(ctx)
	}
	return nil
}

// Bind forwards the component back-reference to the wrapped value, if it accepts one.
func (r *Reflected) Bind(api domain.API) {
	if b, ok := r.target.(domain.Binder); ok {
		b.Bind(api)
	}
}

// Target returns the wrapped value.
func (r *Reflected) Target() any {
	return r.target
}

func adapt(fn reflect.Value) (domain.Handler, bool) {
	ft := fn.Type()
	if ft.NumIn() != 3 || ft.In(0) != ctxType || ft.In(1) != eventType || ft.In(2) != nodeType {
		return nil, false
	}

	switch {
	case ft.NumOut() == 0:
		return func(ctx context.Context, ev *domain.Event, node domain.Node) error {
			fn.Call(args(ctx, ev, node))
			return nil
		}, true
	case ft.NumOut() == 1 && ft.Out(0) == errType:
		return func(ctx context.Context, ev *domain.Event, node domain.Node) error {
			out := fn.Call(args(ctx, ev, node))
			if err, _ := out[0].Interface().(error); err != nil {
				return err
			}
			return nil
		}, true
	}
	return nil, false
}

func args(ctx context.Context, ev *domain.Event, node domain.Node) []reflect.Value {
	nv := reflect.Zero(nodeType)
	if node != nil {
		nv = reflect.ValueOf(&node).Elem()
	}
	return []reflect.Value{reflect.ValueOf(&ctx).Elem(), reflect.ValueOf(ev), nv}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
