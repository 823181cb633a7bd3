package runtime

import "github.com/aretw0/bitty/pkg/domain"

// Match reports whether the event target and node both define key with equal
// values. An empty key compares identities.
func Match(ev *domain.Event, node domain.Node, key string) bool {
	if ev == nil || ev.Target == nil || node == nil {
		return false
	}
	if key == "" {
		key = domain.KeyIdentity
	}
	a, ok := ev.Target.Data(key)
	if !ok {
		return false
	}
	b, ok := node.Data(key)
	if !ok {
		return false
	}
	return a == b
}
