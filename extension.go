package markdown

// Extension attaches additional processors to a Markdown instance. Its
// ExtendMarkdown is called once, at RegisterExtension time, and may touch
// any of the five registries. An extension that carries per-conversion
// state (a table of abbreviations, a footnote counter) implements Reset so
// the facade can clear it alongside the core's own state on every Reset.
type Extension interface {
	ExtendMarkdown(md *Markdown)
}

// ResettableExtension is the optional half of Extension.
type ResettableExtension interface {
	Reset()
}
