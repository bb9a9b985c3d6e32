package store

type Capability string

const (
	// CapabilityQuery marks stores that can answer planned lookups on
	// their own, enabling query-only mode without a filesystem walk.
	CapabilityQuery Capability = "query"

	// CapabilityConcurrentReads marks stores whose reads are pooled
	// separately from the single writer, so queries are not blocked by
	// writer progress.
	CapabilityConcurrentReads Capability = "concurrent-reads"
)

type Capabilities struct {
	Capabilities []Capability
}

func (c *Capabilities) Has(cap Capability) bool {
	for _, existing := range c.Capabilities {
		if existing == cap {
			return true
		}
	}
	return false
}
