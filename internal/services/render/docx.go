package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
)

const (
	documentPart = "word/document.xml"
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	xmlNS        = "http://www.w3.org/XML/1998/namespace"
)

var placeholderRe = regexp.MustCompile(`\{([^{}\s]+)\}`)

// ErrNotDocx marks input that is not a zip package with a word/document.xml
// part, or whose document part is not well-formed XML.
var ErrNotDocx = errors.New("not a word document")

// Eligible text lives in runs of body paragraphs or of paragraphs directly
// inside the cells of body-level tables.
var (
	bodyRunText  = []string{"document", "body", "p", "r", "t"}
	tableRunText = []string{"document", "body", "tbl", "tr", "tc", "p", "r", "t"}
)

// textNode is one eligible <w:t> element located in the raw document bytes.
type textNode struct {
	run              int // sequence number of the enclosing <w:r>
	tagStart, tagEnd int // the start tag
	textEnd          int // start of the end tag
	text             string
	preserve         bool
}

// edit replaces the text of one node.
type edit struct {
	node textNode
	text string
}

// Fill substitutes {KEY} placeholders in the main document part of a .docx
// package. The <w:t> elements of one run are read as one text, so a
// placeholder split inside a run is found; a placeholder the editor split
// across runs is left as is. Every other byte of the package is kept.
func Fill(docx []byte, values map[string]string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return nil, fmt.Errorf("%w: read zip: %v", ErrNotDocx, err)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	found := false

	for _, f := range zr.File {
		if f.Name != documentPart {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}
		found = true

		raw, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		filled, err := fillDocument(raw, values)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrNotDocx, documentPart, err)
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   f.Method,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", f.Name, err)
		}
		if _, err := w.Write(filled); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}

	if !found {
		return nil, fmt.Errorf("%w: %s missing", ErrNotDocx, documentPart)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip writer: %w", err)
	}
	return out.Bytes(), nil
}

// Scan lists the distinct placeholder keys present in eligible runs.
func Scan(docx []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return nil, fmt.Errorf("%w: read zip: %v", ErrNotDocx, err)
	}
	for _, f := range zr.File {
		if f.Name != documentPart {
			continue
		}
		raw, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		nodes, err := textNodes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrNotDocx, documentPart, err)
		}
		seen := map[string]struct{}{}
		for _, group := range runs(nodes) {
			for _, m := range placeholderRe.FindAllStringSubmatch(joinText(group), -1) {
				seen[m[1]] = struct{}{}
			}
		}
		keys := make([]string, 0, len(seen))
		for k := range seen {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return keys, nil
	}
	return nil, fmt.Errorf("%w: %s missing", ErrNotDocx, documentPart)
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return b, nil
}

func fillDocument(raw []byte, values map[string]string) ([]byte, error) {
	nodes, err := textNodes(raw)
	if err != nil {
		return nil, err
	}

	var edits []edit
	for _, group := range runs(nodes) {
		edits = append(edits, runEdits(group, values)...)
	}

	var out bytes.Buffer
	out.Grow(len(raw))
	last := 0
	for _, e := range edits {
		n := e.node
		out.Write(raw[last:n.tagStart])
		if !n.preserve && needsPreserve(e.text) {
			out.Write(withPreserve(raw[n.tagStart:n.tagEnd]))
		} else {
			out.Write(raw[n.tagStart:n.tagEnd])
		}
		if err := xml.EscapeText(&out, []byte(e.text)); err != nil {
			return nil, err
		}
		last = n.textEnd
	}
	out.Write(raw[last:])
	return out.Bytes(), nil
}

// runEdits substitutes the text of one run. When every placeholder sits
// inside a single <w:t>, each element is edited in place. Otherwise the whole
// result goes into the first element and the others are emptied, keeping the
// run and its formatting.
func runEdits(group []textNode, values map[string]string) []edit {
	whole, changed := substitute(joinText(group), values)
	if !changed {
		return nil
	}

	var (
		edits  []edit
		joined strings.Builder
	)
	for _, n := range group {
		text, ok := substitute(n.text, values)
		joined.WriteString(text)
		if ok {
			edits = append(edits, edit{node: n, text: text})
		}
	}
	if joined.String() == whole {
		return edits
	}

	edits = edits[:0]
	edits = append(edits, edit{node: group[0], text: whole})
	for _, n := range group[1:] {
		if n.text != "" {
			edits = append(edits, edit{node: n})
		}
	}
	return edits
}

// runs splits nodes into groups sharing one <w:r>. Nodes are in document
// order, so the groups are contiguous.
func runs(nodes []textNode) [][]textNode {
	var out [][]textNode
	for i := 0; i < len(nodes); {
		j := i + 1
		for j < len(nodes) && nodes[j].run == nodes[i].run {
			j++
		}
		out = append(out, nodes[i:j])
		i = j
	}
	return out
}

func joinText(group []textNode) string {
	if len(group) == 1 {
		return group[0].text
	}
	var b strings.Builder
	for _, n := range group {
		b.WriteString(n.text)
	}
	return b.String()
}

// substitute replaces known {KEY} tokens in one pass; inserted values are not
// scanned again.
func substitute(text string, values map[string]string) (string, bool) {
	changed := false
	res := placeholderRe.ReplaceAllStringFunc(text, func(tok string) string {
		v, ok := values[tok[1:len(tok)-1]]
		if !ok {
			return tok
		}
		changed = true
		return v
	})
	return res, changed
}

func textNodes(raw []byte) ([]textNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	var (
		stack []string
		nodes []textNode
		run   int
		cur   *textNode
		buf   bytes.Buffer
	)

	for {
		before := int(dec.InputOffset())
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == wordNS {
				stack = append(stack, t.Name.Local)
			} else {
				stack = append(stack, "")
			}
			if t.Name.Space == wordNS && t.Name.Local == "r" {
				run++
			}
			if t.Name.Space == wordNS && t.Name.Local == "t" && eligible(stack) {
				cur = &textNode{run: run, tagStart: before, tagEnd: int(dec.InputOffset())}
				for _, a := range t.Attr {
					if a.Name.Space == xmlNS && a.Name.Local == "space" && a.Value == "preserve" {
						cur.preserve = true
					}
				}
				buf.Reset()
			}
		case xml.CharData:
			if cur != nil {
				buf.Write(t)
			}
		case xml.EndElement:
			if cur != nil && t.Name.Space == wordNS && t.Name.Local == "t" {
				// A self-closing <w:t/> has nothing to replace.
				if raw[cur.tagEnd-2] != '/' {
					cur.textEnd = before
					cur.text = buf.String()
					nodes = append(nodes, *cur)
				}
				cur = nil
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return nodes, nil
}

func eligible(stack []string) bool {
	return slices.Equal(stack, bodyRunText) || slices.Equal(stack, tableRunText)
}

func needsPreserve(s string) bool {
	if s == "" {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return isSpace(first) || isSpace(last)
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

// withPreserve adds xml:space="preserve" to a <w:t ...> start tag.
func withPreserve(tag []byte) []byte {
	end := len(tag) - 1
	out := make([]byte, 0, len(tag)+len(` xml:space="preserve"`))
	out = append(out, tag[:end]...)
	out = append(out, ` xml:space="preserve"`...)
	return append(out, tag[end:]...)
}
