// Package filter compiles the S-expression target language used to
// select which proofing blocks flow into a published text. A compiled
// filter is a pure predicate over candidate blocks and is safe to
// evaluate concurrently.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	gerrors "github.com/sahitya-io/grantha/core/errors"
	"github.com/sahitya-io/grantha/core/proof"
)

// maxDepth bounds expression nesting. Deeper expressions are rejected at
// parse time.
const maxDepth = 50

// Candidate is one block under consideration, in the context of its
// page: label bounds need to see every block on the page.
type Candidate struct {
	ImageNumber int
	BlockIndex  int
	Blocks      []proof.Block
}

type predicate func(Candidate) bool

// Filter is a compiled target expression.
type Filter struct {
	expr string
	pred predicate
}

type sexp struct {
	Op   string `parser:"'(' @Atom"`
	Args []term `parser:"@@* ')'"`
}

type term struct {
	Sub  *sexp  `parser:"  @@"`
	Atom string `parser:"| @Atom"`
}

var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Atom", Pattern: `[^\s()]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var filterParser = participle.MustBuild[sexp](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
)

// New parses and compiles a target expression.
func New(expr string) (*Filter, error) {
	if err := scan(expr); err != nil {
		return nil, err
	}
	root, err := filterParser.ParseString("", expr)
	if err != nil {
		return nil, syntaxError(expr, err.Error())
	}
	pred, err := compile(expr, root)
	if err != nil {
		return nil, err
	}
	return &Filter{expr: expr, pred: pred}, nil
}

// Matches reports whether the candidate block is selected.
func (f *Filter) Matches(c Candidate) bool {
	return f.pred(c)
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// scan rejects structurally broken expressions before the grammar runs,
// so parenthesis and depth problems get stable messages.
func scan(expr string) error {
	trimmed := strings.TrimSpace(expr)
	if !strings.HasPrefix(trimmed, "(") {
		return syntaxError(expr, "expression must start with '('")
	}
	depth := 0
	for _, r := range trimmed {
		switch r {
		case '(':
			depth++
			if depth >= maxDepth {
				return syntaxError(expr,
					fmt.Sprintf("expression exceeds the maximum nesting depth of %d", maxDepth))
			}
		case ')':
			depth--
			if depth < 0 {
				return syntaxError(expr, "unbalanced closing parenthesis")
			}
		}
	}
	if depth > 0 {
		return syntaxError(expr, "missing closing parenthesis")
	}
	return nil
}

func compile(expr string, e *sexp) (predicate, error) {
	switch e.Op {
	case "and":
		preds, err := compileSubs(expr, e)
		if err != nil {
			return nil, err
		}
		return func(c Candidate) bool {
			for _, p := range preds {
				if !p(c) {
					return false
				}
			}
			return true
		}, nil
	case "or":
		preds, err := compileSubs(expr, e)
		if err != nil {
			return nil, err
		}
		return func(c Candidate) bool {
			for _, p := range preds {
				if p(c) {
					return true
				}
			}
			return false
		}, nil
	case "not":
		if len(e.Args) != 1 || e.Args[0].Sub == nil {
			return nil, syntaxError(expr, "'not' takes exactly one subexpression")
		}
		p, err := compile(expr, e.Args[0].Sub)
		if err != nil {
			return nil, err
		}
		return func(c Candidate) bool { return !p(c) }, nil
	case "image", "page":
		return compileImage(expr, e)
	case "label":
		label, err := atomArg(expr, e)
		if err != nil {
			return nil, err
		}
		return func(c Candidate) bool {
			return c.BlockIndex < len(c.Blocks) && c.Blocks[c.BlockIndex].Text == label
		}, nil
	case "tag":
		tag, err := atomArg(expr, e)
		if err != nil {
			return nil, err
		}
		return func(c Candidate) bool {
			return c.BlockIndex < len(c.Blocks) && string(c.Blocks[c.BlockIndex].Type) == tag
		}, nil
	default:
		return nil, syntaxError(expr, fmt.Sprintf("unknown operation %q", e.Op))
	}
}

func compileSubs(expr string, e *sexp) ([]predicate, error) {
	preds := make([]predicate, 0, len(e.Args))
	for _, arg := range e.Args {
		if arg.Sub == nil {
			return nil, syntaxError(expr,
				fmt.Sprintf("'%s' takes subexpressions, not atoms", e.Op))
		}
		p, err := compile(expr, arg.Sub)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func atomArg(expr string, e *sexp) (string, error) {
	if len(e.Args) != 1 || e.Args[0].Sub != nil {
		return "", syntaxError(expr, fmt.Sprintf("'%s' takes exactly one atom", e.Op))
	}
	return e.Args[0].Atom, nil
}

// bound is one endpoint of an image range: a page number, optionally
// narrowed to the first block on that page whose label attribute
// matches.
type bound struct {
	image int
	label string
}

func parseBound(expr, atom string) (bound, error) {
	numPart, label, _ := strings.Cut(atom, ":")
	n, err := strconv.Atoi(numPart)
	if err != nil {
		return bound{}, syntaxError(expr, fmt.Sprintf("bad image number %q", atom))
	}
	return bound{image: n, label: label}, nil
}

func compileImage(expr string, e *sexp) (predicate, error) {
	if len(e.Args) < 1 || len(e.Args) > 2 {
		return nil, syntaxError(expr, fmt.Sprintf("'%s' takes one or two atoms", e.Op))
	}
	for _, arg := range e.Args {
		if arg.Sub != nil {
			return nil, syntaxError(expr, fmt.Sprintf("'%s' takes atoms, not subexpressions", e.Op))
		}
	}
	lo, err := parseBound(expr, e.Args[0].Atom)
	if err != nil {
		return nil, err
	}
	hi := lo
	if len(e.Args) == 2 {
		if hi, err = parseBound(expr, e.Args[1].Atom); err != nil {
			return nil, err
		}
	}
	return func(c Candidate) bool {
		if c.ImageNumber < lo.image || c.ImageNumber > hi.image {
			return false
		}
		if c.ImageNumber == lo.image && lo.label != "" {
			at := labelIndex(c.Blocks, lo.label)
			if at < 0 || c.BlockIndex < at {
				return false
			}
		}
		if c.ImageNumber == hi.image && hi.label != "" {
			at := labelIndex(c.Blocks, hi.label)
			if at < 0 || c.BlockIndex > at {
				return false
			}
		}
		return true
	}, nil
}

// labelIndex returns the index of the first block whose label attribute
// equals label, or -1.
func labelIndex(blocks []proof.Block, label string) int {
	for i, b := range blocks {
		if b.Text == label {
			return i
		}
	}
	return -1
}

func syntaxError(expr, message string) error {
	return &gerrors.FilterSyntaxError{Expr: expr, Message: message}
}
