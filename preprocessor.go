package markdown

// Preprocessor is stage 1 of the pipeline (§2): it rewrites the document's
// line list before any block-level structure is recognized.
type Preprocessor interface {
	Run(lines []string) []string
}

// PreprocessorFunc adapts a plain function to the Preprocessor interface.
type PreprocessorFunc func(lines []string) []string

// Run calls f.
func (f PreprocessorFunc) Run(lines []string) []string {
	return f(lines)
}

// Priorities for the built-in preprocessors. The raw-HTML extractor must
// run before the reference-definition stripper, since a reference
// definition that happens to sit inside a stashed raw block should not be
// pulled out of it.
const (
	PriorityRawHTML       = 30
	PriorityReferenceDefs = 20
)
