// Command mdfmt reads CommonMark from stdin (or a file argument) and
// writes rendered HTML to stdout (or an output file, written atomically).
package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/google/renameio"

	"github.com/jcorbin/mdit"
	"github.com/jcorbin/mdit/render/html"
)

func main() {
	var (
		outPath    string
		xhtml      bool
		sourcePos  bool
		headingIDs bool
		maxNesting int
	)

	flag.StringVar(&outPath, "o", "", "write output to this file instead of stdout (atomically)")
	flag.BoolVar(&xhtml, "xhtml", false, "self-close void elements as XHTML")
	flag.BoolVar(&sourcePos, "sourcepos", false, "decorate output with data-sourcepos attributes")
	flag.BoolVar(&headingIDs, "heading-ids", false, "add id anchors to headings")
	flag.IntVar(&maxNesting, "max-nesting", 0, "override the parser's block/inline recursion limit (0 uses the default)")
	flag.Parse()

	in := io.Reader(os.Stdin)
	if name := flag.Arg(0); name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			log.Fatalf("unable to open %v: %v", name, err)
		}
		defer f.Close()
		in = f
	}

	src, err := ioutil.ReadAll(in)
	if err != nil {
		log.Fatalf("unable to read input: %v", err)
	}

	p := mdit.NewParser()
	p.MaxNesting = maxNesting
	root := p.Parse(string(src))

	var opts []html.Option
	if sourcePos {
		opts = append(opts, html.WithSourcePos())
	}
	if headingIDs {
		opts = append(opts, html.WithHeadingAnchors())
	}

	var out string
	if xhtml {
		out = html.XRender(root, opts...)
	} else {
		out = html.Render(root, opts...)
	}

	if outPath == "" {
		if _, err := fmt.Fprint(os.Stdout, out); err != nil {
			log.Fatalf("unable to write output: %v", err)
		}
		return
	}

	pf, err := renameio.TempFile("", outPath)
	if err != nil {
		log.Fatalf("unable to create temp file for %v: %v", outPath, err)
	}
	defer pf.Cleanup()

	if _, err := io.WriteString(pf, out); err != nil {
		log.Fatalf("unable to write %v: %v", outPath, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		log.Fatalf("unable to commit %v: %v", outPath, err)
	}
}
