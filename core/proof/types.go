// Package proof defines the typed block model for proofing XML: the
// restricted per-page vocabulary produced by human transcribers or by
// OCR/LLM assistance, plus its schema validator.
package proof

// BlockType is a block-level tag allowed as a direct child of <page>.
type BlockType string

// Block type constants. Keep in sync with the proofing editor vocabulary.
const (
	BlockParagraph BlockType = "p"
	BlockVerse     BlockType = "verse"
	BlockFootnote  BlockType = "footnote"
	BlockHeading   BlockType = "heading"
	BlockTrailer   BlockType = "trailer"
	BlockTitle     BlockType = "title"
	BlockSubtitle  BlockType = "subtitle"
	BlockIgnore    BlockType = "ignore"
	BlockMetadata  BlockType = "metadata"
)

// validBlockTypes is the set of valid block types.
var validBlockTypes = map[BlockType]bool{
	BlockParagraph: true,
	BlockVerse:     true,
	BlockFootnote:  true,
	BlockHeading:   true,
	BlockTrailer:   true,
	BlockTitle:     true,
	BlockSubtitle:  true,
	BlockIgnore:    true,
	BlockMetadata:  true,
}

// IsValid returns true if the block type is valid.
func (b BlockType) IsValid() bool {
	return validBlockTypes[b]
}

// InlineType is an inline mark allowed inside block content.
type InlineType string

// Inline mark constants.
const (
	InlineError    InlineType = "error"
	InlineFix      InlineType = "fix"
	InlineSpeaker  InlineType = "speaker"
	InlineStage    InlineType = "stage"
	InlineRef      InlineType = "ref"
	InlineFlag     InlineType = "flag"
	InlineChaya    InlineType = "chaya"
	InlinePrakrit  InlineType = "prakrit"
	InlineNote     InlineType = "note"
	InlineAdd      InlineType = "add"
	InlineEllipsis InlineType = "ellipsis"
)

// validInlineTypes is the set of valid inline marks.
var validInlineTypes = map[InlineType]bool{
	InlineError:    true,
	InlineFix:      true,
	InlineSpeaker:  true,
	InlineStage:    true,
	InlineRef:      true,
	InlineFlag:     true,
	InlineChaya:    true,
	InlinePrakrit:  true,
	InlineNote:     true,
	InlineAdd:      true,
	InlineEllipsis: true,
}

// IsValid returns true if the inline mark type is valid.
func (i InlineType) IsValid() bool {
	return validInlineTypes[i]
}

// Block is the atomic unit of a page: a typed span of inner markup plus a
// small set of whitelisted attributes.
type Block struct {
	// Type is the block's tag (paragraph, verse, footnote, ...).
	Type BlockType

	// Content is the block payload: text interleaved with inline marks.
	Content string

	// Lang is the block's language code ("sa", "hi", "en", ...), if any.
	Lang string

	// Text identifies the logical text this block belongs to when one
	// page carries several texts (e.g. "mula", "commentary").
	Text string

	// N is the block's ordering key ("43", "1.2", "p7", ...), if any.
	N string

	// Mark is the footnote symbol ("1", "१", ...). Meaningful only when
	// Type is BlockFootnote.
	Mark string

	// MergeNext is true when the block's content is incomplete and
	// continues on the following page. It is a signal consumed by the
	// cross-page assembler, never by the validator.
	MergeNext bool
}

// Page is an identifier plus an ordered sequence of blocks. When blocks
// carry no ordering key, position in the sequence is the ordering.
type Page struct {
	// ID is the page's external identifier (for cross-referencing).
	ID int

	// Blocks holds the page's blocks in order.
	Blocks []Block
}
