package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// decliningBlockProcessor always matches Test but reports Run as
// unsuccessful, so ParseBlocks must move on to the next registered
// processor instead of dropping the block.
type decliningBlockProcessor struct{}

func (decliningBlockProcessor) Test(parent *Element, block string) bool { return true }
func (decliningBlockProcessor) Run(parent *Element, blocks *[]string) bool {
	return false
}

func TestParseBlocksTriesNextProcessorWhenRunDeclines(t *testing.T) {
	registry := NewRegistry[BlockProcessor]()
	registry.Register(decliningBlockProcessor{}, "declines", 100)
	registry.Register(ParagraphProcessor{}, "paragraph", PriorityParagraph)

	bp := NewBlockParser(registry)
	root := bp.ParseDocument([]string{"hello"})

	require := assert.New(t)
	require.Equal(1, len(root.Children))
	require.Equal("p", root.Children[0].Tag)
	require.Equal("hello", root.Children[0].Text.Body)
}
