package markdown

import (
	"strings"
	"unicode/utf8"
)

// Markdown is the core facade (§4.8): construct one with New, optionally
// call RegisterExtension any number of times, then Convert as many
// documents as needed. A single instance is not safe for concurrent use
// (§5); create one per goroutine that needs one.
type Markdown struct {
	Preprocessors     *Registry[Preprocessor]
	BlockProcessors   *Registry[BlockProcessor]
	TreeProcessors    *Registry[Treeprocessor]
	InlineProcessors  *Registry[InlineProcessor]
	Postprocessors    *Registry[Postprocessor]
	OutputFormats     map[string]OutputFormat

	OutputFormat string
	TabLength    int
	LazyOL       bool

	// EscapedChars is instance-scoped per §4.8: extending it on one
	// Markdown must never affect another.
	EscapedChars []rune

	Stash      *HtmlStash
	References map[string]linkRef

	blockParser  *BlockParser
	inlineEngine *InlineEngine
	extensions   []Extension
}

// Option configures a Markdown at construction time.
type Option func(*Markdown)

// WithOutputFormat selects "html" or "xhtml" (default "xhtml").
func WithOutputFormat(format string) Option {
	return func(md *Markdown) { md.OutputFormat = format }
}

// WithTabLength sets Markdown.TabLength (default 4). The built-in block
// processors do not read it: indented code always uses a fixed indent of
// four spaces or one tab.
func WithTabLength(n int) Option {
	return func(md *Markdown) { md.TabLength = n }
}

// WithLazyOL controls whether an ordered list's first marker value sets its
// displayed start (default true).
func WithLazyOL(lazy bool) Option {
	return func(md *Markdown) { md.LazyOL = lazy }
}

// WithExtensions registers each ext immediately after construction.
func WithExtensions(exts ...Extension) Option {
	return func(md *Markdown) {
		for _, ext := range exts {
			md.RegisterExtension(ext)
		}
	}
}

// New builds a Markdown with the default pipeline (§4.4, §4.5, §4.6, §4.7)
// wired up, then applies opts.
func New(opts ...Option) *Markdown {
	md := &Markdown{
		OutputFormat: "xhtml",
		TabLength:    4,
		LazyOL:       true,
		EscapedChars: append([]rune(nil), DefaultEscapedChars...),

		Preprocessors:    NewRegistry[Preprocessor](),
		BlockProcessors:  NewRegistry[BlockProcessor](),
		TreeProcessors:   NewRegistry[Treeprocessor](),
		InlineProcessors: NewRegistry[InlineProcessor](),
		Postprocessors:   NewRegistry[Postprocessor](),
		OutputFormats: map[string]OutputFormat{
			"html":  SerializeHTML,
			"xhtml": SerializeXHTML,
		},
		Stash:      NewHtmlStash(),
		References: map[string]linkRef{},
	}

	md.blockParser = NewBlockParser(md.BlockProcessors)
	md.inlineEngine = &InlineEngine{Patterns: md.InlineProcessors}

	md.registerCoreProcessors()

	for _, opt := range opts {
		opt(md)
	}
	// The ordered-list processor was built before opts ran; carry the final
	// LazyOL setting over to it.
	if olist, ok := md.BlockProcessors.Get("olist"); ok {
		if op, ok := olist.(*OListProcessor); ok {
			op.LazyOL = md.LazyOL
		}
	}
	return md
}

func (md *Markdown) registerCoreProcessors() {
	md.Preprocessors.Register(NewRawHTMLExtractor(md.Stash), "html_block", PriorityRawHTML)
	md.Preprocessors.Register(NewReferenceDefs(md.References), "reference", PriorityReferenceDefs)

	md.BlockProcessors.Register(EmptyBlockProcessor{}, "empty", PriorityEmptyBlock)
	md.BlockProcessors.Register(HashHeaderProcessor{}, "hashheader", PriorityHashHeader)
	md.BlockProcessors.Register(SetextHeaderProcessor{}, "setextheader", PrioritySetext)
	md.BlockProcessors.Register(CodeBlockProcessor{TabLength: md.TabLength}, "code", PriorityCodeBlock)
	md.BlockProcessors.Register(HRProcessor{}, "hr", PriorityHR)
	md.BlockProcessors.Register(NewOListProcessor(md.blockParser, md.LazyOL), "olist", PriorityOList)
	md.BlockProcessors.Register(NewUListProcessor(md.blockParser), "ulist", PriorityUList)
	md.BlockProcessors.Register(BlockQuoteProcessor{Parser: md.blockParser}, "quote", PriorityBlockQuote)
	md.BlockProcessors.Register(ParagraphProcessor{}, "paragraph", PriorityParagraph)

	md.InlineProcessors.Register(NewBacktickInlineProcessor(), "backtick", PriorityBacktick)
	md.InlineProcessors.Register(NewEscapeInlineProcessor(&md.EscapedChars), "escape", PriorityEscape)
	md.InlineProcessors.Register(NewReferenceImageProcessor(md.References), "reference_image", PriorityReferenceImage)
	md.InlineProcessors.Register(NewReferenceLinkProcessor(md.References), "reference_link", PriorityReferenceLink)
	md.InlineProcessors.Register(NewAutolinkInlineProcessor(), "autolink", PriorityAutolink)
	md.InlineProcessors.Register(NewInlineImageProcessor(), "image_link", PriorityInlineImage)
	md.InlineProcessors.Register(NewInlineLinkProcessor(), "link", PriorityInlineLink)
	md.InlineProcessors.Register(NewHTMLEntityProcessor(), "entity", PriorityHTMLEntity)
	md.InlineProcessors.Register(NewStrongEmCombinedProcessor(strongEmAsteriskRe), "strong_em_star", PriorityStrongEm+2)
	md.InlineProcessors.Register(NewStrongEmCombinedProcessor(strongEmUnderscoreRe), "strong_em_underscore", PriorityStrongEm+2)
	md.InlineProcessors.Register(NewStrongProcessor(strongAsteriskRe), "strong_star", PriorityStrongEm+1)
	md.InlineProcessors.Register(NewStrongProcessor(strongUnderscoreRe), "strong_underscore", PriorityStrongEm+1)
	md.InlineProcessors.Register(NewEmProcessor(emAsteriskRe), "em_star", PriorityStrongEm)
	md.InlineProcessors.Register(NewEmProcessor(emUnderscoreRe), "em_underscore", PriorityStrongEm)

	md.TreeProcessors.Register(NewInlineTreeprocessor(md.inlineEngine), "inline", 20)
	md.TreeProcessors.Register(PrettifyTreeprocessor{}, "prettify", 10)

	md.Postprocessors.Register(NewRawHTMLPostprocessor(md.Stash), "raw_html", PriorityRawHTMLRestore)
	md.Postprocessors.Register(AmpSubstitutePostprocessor{}, "amp_substitute", PriorityAmpSubstitute)
}

// RegisterExtension attaches ext to md, calling its ExtendMarkdown
// immediately so its processors take effect on every subsequent Convert.
func (md *Markdown) RegisterExtension(ext Extension) *Markdown {
	ext.ExtendMarkdown(md)
	md.extensions = append(md.extensions, ext)
	return md
}

// Reset clears all per-conversion state (§3 Lifecycle): the stash, the
// reference table, and every registered extension's own Reset hook.
// Registries and their registered processors survive.
func (md *Markdown) Reset() *Markdown {
	md.Stash.Reset()
	for k := range md.References {
		delete(md.References, k)
	}
	for _, ext := range md.extensions {
		if r, ok := ext.(ResettableExtension); ok {
			r.Reset()
		}
	}
	return md
}

// ConvertBytes validates source as UTF-8 text (§4.8 step 1 — "reject
// non-text input with BadInput") before running Convert over it. A
// collaborator reading from a file or other external source should call
// this instead of Convert directly.
func (md *Markdown) ConvertBytes(source []byte) (string, error) {
	if !utf8.Valid(source) {
		return "", &BadInputError{Reason: "source is not valid UTF-8"}
	}
	return md.Convert(string(source))
}

// Convert runs the full pipeline (§4.8 algorithm) over source and returns
// the serialized result.
func (md *Markdown) Convert(source string) (string, error) {
	serialize, ok := md.OutputFormats[md.OutputFormat]
	if !ok {
		return "", &BadOutputFormatError{Format: md.OutputFormat}
	}

	text := normalizeInput(source)
	lines := strings.Split(text, "\n")

	for _, pp := range md.Preprocessors.Items() {
		lines = pp.Run(lines)
	}

	root := md.blockParser.ParseDocument(lines)

	for _, tp := range md.TreeProcessors.Items() {
		if newRoot := tp.Run(root); newRoot != nil {
			root = newRoot
		}
	}

	out, err := serialize(root)
	if err != nil {
		return "", err
	}

	for _, post := range md.Postprocessors.Items() {
		out = post.Run(out)
	}

	return strings.TrimSpace(out), nil
}

// normalizeInput implements §4.8 step 2: normalize line endings to "\n" and
// strip a leading UTF-8 byte-order mark.
func normalizeInput(source string) string {
	source = strings.TrimPrefix(source, "\xef\xbb\xbf")
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")
	return source
}
