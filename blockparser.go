package markdown

import (
	"regexp"
	"strings"
)

// BlockProcessor recognizes and consumes one kind of block-level construct.
// Test is checked in registry priority order against the head of the
// current blocks slice; the first processor whose Test accepts is handed
// control via Run. Run must mutate *blocks (typically popping the head and
// optionally pushing residual text back at the front) and report whether it
// consumed anything.
type BlockProcessor interface {
	Test(parent *Element, block string) bool
	Run(parent *Element, blocks *[]string) bool
}

// blankLineSplit matches one or more blank (whitespace-only) lines, the
// boundary the block parser splits source text on.
var blankLineSplit = regexp.MustCompile(`\n[ \t]*\n`)

// BlockParser drives block-level recognition (§4.4): it turns a line list
// into a forest of Elements hung under a document root, dispatching each
// block to the first matching processor in Processors.
type BlockParser struct {
	Processors *Registry[BlockProcessor]
	State      State
}

// NewBlockParser returns a parser backed by the given processor registry.
func NewBlockParser(processors *Registry[BlockProcessor]) *BlockParser {
	return &BlockParser{Processors: processors}
}

// ParseDocument builds a fresh document root from lines and parses its
// entire content under it.
func (bp *BlockParser) ParseDocument(lines []string) *Element {
	root := NewElement(GroupTag)
	bp.ParseChunk(root, strings.Join(lines, "\n"))
	return root
}

// ParseChunk splits text into blocks on blank-line boundaries and parses
// them under parent.
func (bp *BlockParser) ParseChunk(parent *Element, text string) {
	blocks := blankLineSplit.Split(text, -1)
	bp.ParseBlocks(parent, &blocks)
}

// ParseBlocks repeatedly tests the head of *blocks against each processor in
// priority order, invoking the first whose Test accepts. Termination is
// guaranteed because every accepting Run call is required to shrink the
// remaining blocks (fewer elements, or the same head replaced with strictly
// shorter residual text); a processor that declines must leave *blocks
// completely unchanged.
func (bp *BlockParser) ParseBlocks(parent *Element, blocks *[]string) {
	for len(*blocks) > 0 {
		block := (*blocks)[0]
		if strings.TrimSpace(block) == "" && len(*blocks) > 1 {
			*blocks = (*blocks)[1:]
			continue
		}

		handled := false
		for _, proc := range bp.Processors.Items() {
			if proc.Test(parent, block) {
				if proc.Run(parent, blocks) {
					handled = true
					break
				}
				// Run declined despite Test accepting: per §4.4, fall
				// through and let the next processor in priority order
				// try the same block.
			}
		}
		if !handled {
			// No processor claimed the block; drop it to guarantee
			// termination (the paragraph fallback should normally have
			// already claimed it, since it is registered to accept any
			// non-empty block).
			*blocks = (*blocks)[1:]
		}
	}
}
