package runtime

import "github.com/aretw0/bitty/pkg/domain"

// assignIdentities gives the root and every descendant lacking one a fresh identity.
// Existing identities are never replaced.
func (c *Component) assignIdentities() {
	c.assign(c.root)
	for _, n := range c.root.Descendants() {
		c.assign(n)
	}
}

func (c *Component) assign(n domain.Node) {
	if _, ok := n.Data(domain.KeyIdentity); ok {
		return
	}
	n.SetData(domain.KeyIdentity, c.cfg.IDGen())
}
