package loam

// MessageMetadata is the frontmatter of a transcript document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type MessageMetadata struct {
	ID   string `json:"id" mapstructure:"id"`
	Role string `json:"role" mapstructure:"role"`
	// Seq orders the messages of a transcript; ties fall back to the document ID.
	Seq int `json:"seq" mapstructure:"seq"`
	// Dialect optionally names the dialect the agent was instructed with.
	Dialect string `json:"dialect,omitempty" mapstructure:"dialect"`
}
