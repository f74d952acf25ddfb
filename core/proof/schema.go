package proof

// Spec describes what is legal inside one element: its allowed child tags
// and its allowed attributes. The validator is entirely table-driven; there
// is no per-tag code.
type Spec struct {
	Children map[string]bool
	Attrib   map[string]bool
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

// blockTags lists every block-level tag.
var blockTags = []string{
	string(BlockParagraph), string(BlockVerse), string(BlockFootnote),
	string(BlockHeading), string(BlockTrailer), string(BlockTitle),
	string(BlockSubtitle), string(BlockIgnore), string(BlockMetadata),
}

// inlineTags lists every inline mark tag.
var inlineTags = []string{
	string(InlineError), string(InlineFix), string(InlineSpeaker),
	string(InlineStage), string(InlineRef), string(InlineFlag),
	string(InlineChaya), string(InlinePrakrit), string(InlineNote),
	string(InlineAdd), string(InlineEllipsis),
}

// AttrMergeText is the legacy spelling of the merge-next attribute. Older
// stored revisions still carry it, so it stays legal and is read as
// merge-next.
const (
	AttrMergeNext = "merge-next"
	AttrMergeText = "merge-text"
)

// proofingSpec maps each proofing tag to its allowed children and
// attributes.
var proofingSpec = buildProofingSpec()

func buildProofingSpec() map[string]Spec {
	contentAttrs := set("lang", "text", "n", AttrMergeNext, AttrMergeText)
	specs := map[string]Spec{
		"page":                 {Children: set(blockTags...), Attrib: set()},
		string(BlockParagraph): {Children: set(inlineTags...), Attrib: contentAttrs},
		string(BlockVerse):     {Children: set(inlineTags...), Attrib: contentAttrs},
		string(BlockFootnote):  {Children: set(inlineTags...), Attrib: set("lang", "text", "mark")},
		string(BlockHeading):   {Children: set(inlineTags...), Attrib: set("lang", "text", "n")},
		string(BlockTrailer):   {Children: set(inlineTags...), Attrib: set("lang", "text", "n")},
		string(BlockTitle):     {Children: set(inlineTags...), Attrib: set("lang", "text", "n")},
		string(BlockSubtitle):  {Children: set(inlineTags...), Attrib: set("lang", "text", "n")},
		string(BlockIgnore):    {Children: set(inlineTags...), Attrib: set("lang", "text")},
		string(BlockMetadata):  {Children: set(), Attrib: set()},
	}
	for _, tag := range inlineTags {
		specs[tag] = Spec{Children: set(inlineTags...), Attrib: set()}
	}
	// ref carries its anchor in a target attribute.
	specs[string(InlineRef)] = Spec{Children: set(inlineTags...), Attrib: set("target")}
	return specs
}

// TEI output vocabulary. The rewrite engine emits only these tags; the
// table lets the publish pipeline re-validate its own output.
const (
	xmlLang = "xml:lang"
	xmlID   = "xml:id"
)

var teiInlineText = set("choice", "ref", "supplied", "note", "pb", "add", "ellipsis", "unclear")

// teiSpec maps each TEI output tag to its allowed children and attributes.
var teiSpec = buildTEISpec()

func buildTEISpec() map[string]Spec {
	specs := map[string]Spec{
		"sp":      {Children: set("speaker", "p", "lg", "stage", "note"), Attrib: set("n")},
		"stage":   {Children: set(), Attrib: set("rend")},
		"speaker": {Children: set(), Attrib: set()},
		"lg":      {Children: set("l", "note", "pb"), Attrib: set("n")},
		"l":       {Children: copySet(teiInlineText), Attrib: set()},
		"choice":  {Children: set("seg", "corr", "sic"), Attrib: set("type", "rend")},
		"seg":     {Children: set(), Attrib: set(xmlLang, "rend")},
		"head":    {Children: set(), Attrib: set("n", "type")},
		"title":   {Children: set(), Attrib: set("n", "type")},
		"trailer": {Children: set(), Attrib: set("n")},
		"ref":     {Children: set(), Attrib: set("target", "type")},
		"note":    {Children: copySet(teiInlineText), Attrib: set("type", "n", xmlID)},
		"sic":     {Children: set(), Attrib: set()},
		"corr":    {Children: set(), Attrib: set()},
		"pb":      {Children: set(), Attrib: set("n")},
		"supplied": {Children: set(), Attrib: set()},
		"add":      {Children: set(), Attrib: set()},
		"ellipsis": {Children: set(), Attrib: set()},
		"unclear":  {Children: set(), Attrib: set()},
	}
	p := Spec{Children: copySet(teiInlineText), Attrib: set("n")}
	p.Children["stage"] = true
	specs["p"] = p
	return specs
}

func copySet(src map[string]bool) map[string]bool {
	dst := make(map[string]bool, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// metadataFields are the keys a metadata block may set, one per line.
var metadataFields = set("speaker", "div.title", "div.n")
