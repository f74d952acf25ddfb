// Package publish turns validated proofing pages into an ordered,
// sectioned TEI document: it rewrites each block, assigns slugs, merges
// blocks that continue across page boundaries, and renders the final
// document envelope and exports.
package publish

import (
	"strconv"
	"strings"

	gerrors "github.com/sahitya-io/grantha/core/errors"
	"github.com/sahitya-io/grantha/core/filter"
	"github.com/sahitya-io/grantha/core/proof"
	"github.com/sahitya-io/grantha/core/tei"
)

// Block is one published block: a TEI fragment plus the slug used as its
// external join key and the page it started on.
type Block struct {
	XML    string
	Slug   string
	PageID int
}

// Section is a run of published blocks under one heading.
type Section struct {
	Slug   string
	Title  string
	Blocks []Block
}

// Document is the assembled output of one publish run.
type Document struct {
	Sections []Section
}

// PageInput pairs a parsed page with the image number used by target
// filters.
type PageInput struct {
	Page        *proof.Page
	ImageNumber int
}

// Options configures a publish run.
type Options struct {
	// Title names the document's implicit first section.
	Title string
	// Target selects which blocks are published. Nil publishes all.
	Target *filter.Filter
}

// openBlock is a merge chain in progress: a rewritten block whose source
// declared merge-next, waiting for its continuation on a later page.
type openBlock struct {
	root   *tei.Elem
	typ    proof.BlockType
	key    string
	slug   string
	pageID int
}

// Assemble rewrites and merges every selected block across the given
// pages, in order.
func Assemble(pages []PageInput, opts Options) (*Document, error) {
	a := assembler{
		chain:   newKeychain(),
		target:  opts.Target,
		current: Section{Slug: "all", Title: opts.Title},
	}
	for _, p := range pages {
		if err := a.addPage(p); err != nil {
			return nil, err
		}
	}
	a.closeOpen()
	a.flushSection()
	return &Document{Sections: a.sections}, nil
}

type assembler struct {
	chain    *keychain
	target   *filter.Filter
	sections []Section
	current  Section
	open     *openBlock
	// speaker holds a pending speaker name declared in a metadata
	// block, applied to the next published block.
	speaker string
}

func (a *assembler) addPage(p PageInput) error {
	for i, b := range p.Page.Blocks {
		switch b.Type {
		case proof.BlockIgnore:
			continue
		case proof.BlockMetadata:
			a.applyMetadata(b.Content)
			continue
		}
		if a.target != nil && !a.target.Matches(filter.Candidate{
			ImageNumber: p.ImageNumber,
			BlockIndex:  i,
			Blocks:      p.Page.Blocks,
		}) {
			continue
		}
		if err := a.addBlock(b, p.Page.ID); err != nil {
			return err
		}
	}
	return nil
}

func (a *assembler) addBlock(b proof.Block, pageID int) error {
	if a.open != nil {
		return a.continueOpen(b, pageID)
	}

	el, err := tei.FromBlock(b)
	if err != nil {
		return err
	}
	root := tei.Rewrite(el)
	if a.speaker != "" && root.Tag != "sp" {
		root = wrapSpeech(a.speaker, root)
		a.speaker = ""
	}

	var slug string
	if root.Tag == "sp" {
		slug = a.chain.nextSpeech()
		a.chain.record(b)
	} else {
		if slug, err = a.chain.next(b, pageID); err != nil {
			return err
		}
	}
	root.SetAttr("n", slug)

	if b.MergeNext {
		a.open = &openBlock{root: root, typ: b.Type, key: b.N, slug: slug, pageID: pageID}
		if a.open.key == "" {
			a.open.key = slug
		}
		return nil
	}
	a.emit(Block{XML: root.String(), Slug: slug, PageID: pageID})
	return nil
}

// continueOpen splices the continuation of an open merge chain into the
// pending block. The continuation must have the same type and, if it
// declares one, the same ordering key.
func (a *assembler) continueOpen(b proof.Block, pageID int) error {
	if b.Type != a.open.typ || (b.N != "" && b.N != a.open.key) {
		return &gerrors.MergeMismatchError{
			PageID:  pageID,
			Key:     a.open.key,
			WantTag: string(a.open.typ),
			GotTag:  string(b.Type),
			GotKey:  b.N,
		}
	}
	el, err := tei.FromBlock(b)
	if err != nil {
		return err
	}
	splice(a.open.root, tei.Rewrite(el))
	if !b.MergeNext {
		a.closeOpen()
	}
	return nil
}

// splice appends a continuation fragment to an open block, joined by an
// explicit page-break marker.
func splice(root, continuation *tei.Elem) {
	target := innerBlock(root)
	pb := tei.NewElem("pb")
	pb.SetAttr("n", "-")
	target.Append(pb)
	target.Append(innerBlock(continuation).Children...)
}

// innerBlock resolves the element continuations merge into: for a speech
// wrapper that is the wrapped block, for everything else the element
// itself.
func innerBlock(el *tei.Elem) *tei.Elem {
	if el.Tag != "sp" {
		return el
	}
	for i := len(el.Children) - 1; i >= 0; i-- {
		if sub, ok := el.Children[i].(*tei.Elem); ok && sub.Tag != "speaker" {
			return sub
		}
	}
	return el
}

func (a *assembler) closeOpen() {
	if a.open == nil {
		return
	}
	a.emit(Block{XML: a.open.root.String(), Slug: a.open.slug, PageID: a.open.pageID})
	a.open = nil
}

func (a *assembler) emit(b Block) {
	a.current.Blocks = append(a.current.Blocks, b)
}

// applyMetadata consumes a metadata block: a div.title or div.n field
// starts a new section, a speaker field names the speaker of the next
// published block.
func (a *assembler) applyMetadata(content string) {
	var title, n string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "speaker":
			a.speaker = strings.TrimSpace(value)
		case "div.title":
			title = strings.TrimSpace(value)
		case "div.n":
			n = strings.TrimSpace(value)
		}
	}
	if title == "" && n == "" {
		return
	}
	if n == "" {
		n = strconv.Itoa(len(a.sections) + 2)
	}
	a.startSection(Section{Slug: n, Title: title})
}

// startSection closes the current section and opens a new one. An
// initial section that never received a block is dropped rather than
// published empty.
func (a *assembler) startSection(next Section) {
	if len(a.current.Blocks) > 0 || len(a.sections) > 0 {
		a.sections = append(a.sections, a.current)
	}
	a.current = next
}

func (a *assembler) flushSection() {
	if len(a.current.Blocks) > 0 || len(a.sections) == 0 {
		a.sections = append(a.sections, a.current)
	}
}

// wrapSpeech promotes a block into a speech wrapper for a speaker
// declared in page metadata.
func wrapSpeech(name string, block *tei.Elem) *tei.Elem {
	sp := tei.NewElem("sp")
	speaker := tei.NewElem("speaker")
	speaker.Append(tei.Text(name))
	sp.Append(speaker)
	if len(block.Children) > 0 {
		sp.Append(block)
	}
	return sp
}
