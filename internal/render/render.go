// Package render converts XHTML content documents to plain text and
// writes the result, reflowed to a target line width, to an output
// stream.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Options configures text output.
type Options struct {
	// Width is the output line width for reflow. Zero disables reflow.
	Width int
}

// Renderer writes markup-stripped text to a single output stream. It is
// not safe for concurrent use; documents must be rendered sequentially
// to keep output in reading order.
type Renderer struct {
	out   io.Writer
	width int
}

// New creates a Renderer writing to out.
func New(out io.Writer, opts Options) *Renderer {
	return &Renderer{out: out, width: opts.Width}
}

// blockTags is the set of elements that force a line break before and
// after their content.
var blockTags = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Li:         true,
	atom.Tr:         true,
	atom.Blockquote: true,
	atom.Table:      true,
	atom.Hr:         true,
	atom.Pre:        true,
}

// skipTags is the set of elements whose content is never rendered.
var skipTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Head:   true,
}

// RenderFile reads an XHTML document from path, strips its markup, and
// writes the text. Character references are decoded by the HTML parser.
func (r *Renderer) RenderFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var st textState
	for _, n := range doc.Find("body").Nodes {
		collectText(n, &st)
	}

	text := strings.TrimRight(st.b.String(), "\n")
	if text == "" {
		return nil
	}
	return r.write(text)
}

// WriteLine writes a single line of already-plain text (used for
// metadata output), subject to the same width constraint as content.
func (r *Renderer) WriteLine(s string) error {
	return r.write(s)
}

func (r *Renderer) write(text string) error {
	if r.width > 0 {
		text = wordwrap.String(text, r.width)
	}
	_, err := fmt.Fprintln(r.out, text)
	return err
}

// textState accumulates extracted text with whitespace collapsed.
type textState struct {
	b           strings.Builder
	atLineStart bool
	pendingWS   bool
}

func collectText(n *html.Node, st *textState) {
	switch n.Type {
	case html.TextNode:
		st.appendText(n.Data)
		return
	case html.ElementNode:
		a := n.DataAtom
		if skipTags[a] {
			return
		}
		if a == atom.Br {
			st.newline()
			return
		}
		if blockTags[a] {
			st.newline()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collectText(c, st)
		}
		if blockTags[a] {
			st.newline()
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, st)
	}
}

// appendText adds text with runs of whitespace collapsed to one space.
// Spaces are never emitted at the start of a line, and a space is only
// placed between two runs when whitespace actually separated them.
func (st *textState) appendText(s string) {
	if s == "" {
		return
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		st.pendingWS = true
		return
	}

	leadingWS := strings.TrimLeftFunc(s, unicode.IsSpace) != s
	trailingWS := strings.TrimRightFunc(s, unicode.IsSpace) != s

	if (st.pendingWS || leadingWS) && st.b.Len() > 0 && !st.atLineStart {
		st.b.WriteByte(' ')
	}
	st.b.WriteString(strings.Join(words, " "))
	st.atLineStart = false
	st.pendingWS = trailingWS
}

func (st *textState) newline() {
	if st.b.Len() == 0 || st.atLineStart {
		return
	}
	st.b.WriteByte('\n')
	st.atLineStart = true
	st.pendingWS = false
}
