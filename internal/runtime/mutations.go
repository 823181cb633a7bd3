package runtime

import "github.com/aretw0/bitty/pkg/ports"

func (c *Component) onMutations(records []ports.MutationRecord) {
	if c.controller == nil {
		return
	}
	for _, r := range records {
		if len(r.Added) > 0 || len(r.Removed) > 0 {
			c.assignIdentities()
			c.rebuild(c.ctx)
			return
		}
	}
}
