// Package mdit is the top-level CommonMark parser driver: it wires the
// block tokenizer, the inline tokenizer, and a short chain of core
// rules (tight-list paragraph hiding, InlineRoot expansion) into one
// Parser. Rendering the resulting tree is done by render/html.
package mdit

import (
	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/block"
	"github.com/jcorbin/mdit/extset"
	"github.com/jcorbin/mdit/inline"
	"github.com/jcorbin/mdit/ruler"
	"github.com/jcorbin/mdit/rules/cmark"
	"github.com/jcorbin/mdit/urlutil"
)

// CoreRuleFunc is one pass over a fully block-tokenized (but not yet
// inline-expanded, unless registered after "inline") document tree.
// rootExt is the single extension set shared by the block and inline
// phases for this document, the same instance reachable from
// block.State.RootExt and inline.State.RootExt while tokenizing it.
type CoreRuleFunc func(p *Parser, root *ast.Node, rootExt *extset.Set)

// CoreRuleBuilder refines a just-registered core rule's ordering
// constraints, mirroring block.RuleBuilder/inline.RuleBuilder.
type CoreRuleBuilder struct {
	entry *ruler.Entry[CoreRuleFunc]
}

func (b *CoreRuleBuilder) Before(m ruler.Mark) *CoreRuleBuilder {
	b.entry.Before = append(b.entry.Before, m)
	return b
}
func (b *CoreRuleBuilder) After(m ruler.Mark) *CoreRuleBuilder {
	b.entry.After = append(b.entry.After, m)
	return b
}
func (b *CoreRuleBuilder) Require(m ruler.Mark) *CoreRuleBuilder {
	b.entry.Require = append(b.entry.Require, m)
	return b
}

// Parser holds the compiled block/inline rule chains and the core-rule
// chain that runs between them and the caller, plus the configuration
// surface an embedder sets directly on the struct after NewParser.
type Parser struct {
	Block  *block.Tokenizer
	Inline *inline.Tokenizer

	// LinkFormatter validates/normalizes link and autolink destinations.
	// A nil value (the default) falls back to urlutil.DefaultFormatter{}
	// at parse time, so it may be set any time before Parse/TryParse is
	// called.
	LinkFormatter urlutil.LinkFormatter
	// MaxNesting bounds both tokenizers' recursion depth; 0 means "use
	// each Tokenizer's own default" (100).
	MaxNesting int
	// Ext is a parser-scoped extension set available to core rules and
	// to custom block/inline rules that need configuration living
	// longer than one document.
	Ext extset.Set

	core ruler.Ruler[CoreRuleFunc]
}

// formatterRef adapts a *Parser's LinkFormatter field into a stable
// urlutil.LinkFormatter value installed once at NewParser time: each
// method resolves p.LinkFormatter afresh, so setting the field later
// (the documented config-by-field style) still takes effect.
type formatterRef struct{ p *Parser }

func (f formatterRef) resolve() urlutil.LinkFormatter {
	if f.p.LinkFormatter != nil {
		return f.p.LinkFormatter
	}
	return urlutil.DefaultFormatter{}
}

func (f formatterRef) Validate(dest string) bool        { return f.resolve().Validate(dest) }
func (f formatterRef) Normalize(dest string) string     { return f.resolve().Normalize(dest) }
func (f formatterRef) NormalizeText(dest string) string { return f.resolve().NormalizeText(dest) }

// NewParser returns a Parser with the full CommonMark block and inline
// rule set installed (via rules/cmark.Install) and the standard core
// rule chain ("tight_lists" then "inline") registered.
func NewParser() *Parser {
	p := &Parser{
		Block:      block.NewTokenizer(),
		Inline:     inline.NewTokenizer(),
		MaxNesting: 100,
	}
	cmark.Install(p.Block, p.Inline, formatterRef{p})
	p.AddCoreRule("tight_lists", coreTightLists)
	p.AddCoreRule("inline", coreInline).After("tight_lists")
	return p
}

// AddCoreRule registers a core rule under mark, returning a builder to
// refine its ordering constraints.
func (p *Parser) AddCoreRule(mark ruler.Mark, fn CoreRuleFunc) *CoreRuleBuilder {
	p.core.Push(ruler.Entry[CoreRuleFunc]{Mark: mark, Payload: fn})
	return &CoreRuleBuilder{entry: p.core.Last()}
}

// Parse tokenizes src and runs the core rule chain, returning the
// completed document tree. It never fails: built-in rules have no
// fallible path (custom TryRule-based rules only surface errors through
// TryParse).
func (p *Parser) Parse(src string) *ast.Node {
	root, _ := p.run(src, false)
	return root
}

// TryParse is Parse's fallible twin: if a custom block rule implementing
// block.TryRule returns an error, it comes back here wrapped in a
// *block.RuleError, with root holding whatever was tokenized before the
// failure.
func (p *Parser) TryParse(src string) (*ast.Node, error) {
	return p.run(src, true)
}

func (p *Parser) run(src string, fallible bool) (*ast.Node, error) {
	if p.MaxNesting > 0 {
		p.Block.MaxNesting = p.MaxNesting
		p.Inline.MaxNesting = p.MaxNesting
	}

	rootExt := &extset.Set{}
	root := ast.New(ast.Root{Content: src})

	lines := block.BuildLineIndex(src)
	bs := &block.State{
		Src:     src,
		Tok:     p.Block,
		RootExt: rootExt,
		Node:    root,
		Lines:   lines,
		LineMax: len(lines),
	}

	var err error
	if fallible {
		err = p.Block.TryTokenize(bs)
	} else {
		p.Block.Tokenize(bs)
	}
	if err != nil {
		return root, err
	}

	for _, fn := range p.core.Compile() {
		fn(p, root, rootExt)
	}
	return root, nil
}

// coreTightLists marks every Paragraph directly inside an item of a
// tight List as Hidden, so render/html omits its <p> wrapper. It runs
// before "inline" but Hidden doesn't depend on inline content, so the
// ordering is only there to keep the chain readable top-down.
func coreTightLists(p *Parser, root *ast.Node, rootExt *extset.Set) {
	ast.Walk(root, func(n *ast.Node) {
		list, ok := ast.Cast[cmark.List](n)
		if !ok || !list.Tight {
			return
		}
		for _, item := range n.Children {
			for _, c := range item.Children {
				if para, ok := ast.Cast[cmark.Paragraph](c); ok {
					para.Hidden = true
					c.Replace(para)
				}
			}
		}
	})
}

// coreInline expands every surviving ast.InlineRoot placeholder into
// real inline children, tokenizing its sliced content with a fresh
// inline.State per container and running the fragments-join post-pass
// over the result.
func coreInline(p *Parser, root *ast.Node, rootExt *extset.Set) {
	ast.Walk(root, func(n *ast.Node) {
		if !hasInlineRootChild(n) {
			return
		}
		expanded := make([]*ast.Node, 0, len(n.Children))
		for _, c := range n.Children {
			ir, ok := ast.Cast[ast.InlineRoot](c)
			if !ok {
				expanded = append(expanded, c)
				continue
			}
			expanded = append(expanded, p.expandInlineRoot(ir, rootExt)...)
		}
		n.Children = expanded
	})
}

func hasInlineRootChild(n *ast.Node) bool {
	for _, c := range n.Children {
		if ast.Is[ast.InlineRoot](c) {
			return true
		}
	}
	return false
}

func (p *Parser) expandInlineRoot(ir ast.InlineRoot, rootExt *extset.Set) []*ast.Node {
	container := ast.New(ast.Root{})
	var containerExt extset.Set
	is := &inline.State{
		Src:          ir.Content,
		SourceMap:    ir.SourceMap,
		Tok:          p.Inline,
		RootExt:      rootExt,
		ContainerExt: &containerExt,
		Node:         container,
		Pos:          0,
		PosMax:       len(ir.Content),
	}
	p.Inline.Tokenize(is)
	cmark.JoinFragments(container)
	return container.Children
}
