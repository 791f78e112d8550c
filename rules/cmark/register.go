package cmark

import (
	"github.com/jcorbin/mdit/block"
	"github.com/jcorbin/mdit/inline"
	"github.com/jcorbin/mdit/urlutil"
)

// Install registers the full CommonMark block and inline rule sets onto
// the given tokenizers, wired with the given link formatter (a nil
// formatter falls back to urlutil.DefaultFormatter{} at each call site
// that needs one). It is the one entry point mdit.NewParser calls; a
// caller building a custom dialect can call the individual AddRule
// calls shown here directly instead.
func Install(b *block.Tokenizer, in *inline.Tokenizer, formatter urlutil.LinkFormatter) {
	installBlockRules(b)
	installInlineRules(in, formatter)
}

func installBlockRules(b *block.Tokenizer) {
	b.AddRule("blockquote", BlockquoteRule{})
	b.AddRule("list", ListRule{})
	b.AddRule("reference", ReferenceRule{})
	b.AddRule("code", IndentedCodeRule{})
	b.AddRule("fence", FencedCodeRule{})
	b.AddRule("html_block", HTMLBlockRule{})
	b.AddRule("hr", ThematicBreakRule{})
	b.AddRule("heading", ATXHeadingRule{})

	terminators := []block.Rule{
		BlockquoteRule{},
		ListRule{},
		htmlBlockParagraphTerminator{},
		ThematicBreakRule{},
		ATXHeadingRule{},
		FencedCodeRule{},
	}

	b.AddRule("lheading", SetextHeadingRule{Terminators: terminators}).Before("paragraph")
	b.AddRule("paragraph", ParagraphRule{Terminators: terminators}).AfterAll()
}

func installInlineRules(in *inline.Tokenizer, formatter urlutil.LinkFormatter) {
	in.AddRule("escape", EscapeRule{})
	in.AddRule("newline", NewlineRule{})
	in.AddRule("backticks", CodeSpanRule{MarkerByte: '`'})
	in.AddRule("entity", EntityRule{})
	in.AddRule("autolink", AutolinkRule{Formatter: formatter})
	in.AddRule("html_inline", HTMLInlineRule{})
	in.AddRule("link", LinkOpenRule{Image: false})
	in.AddRule("image", LinkOpenRule{Image: true})
	in.AddRule("link_close", LinkCloseRule{Formatter: formatter}).Require("link")
	in.AddRule("emphasis_star", EmphasisScanRule{MarkerByte: '*'})
	in.AddRule("emphasis_underscore", EmphasisScanRule{MarkerByte: '_'})
}
