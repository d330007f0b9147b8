package layout

import "strings"

// Page holds the commands placed on one page, in emission order.
type Page struct {
	Index    int
	Commands []DrawCommand
}

// Words returns the words on the page.
func (p Page) Words() []string {
	words := make([]string, len(p.Commands))
	for i, c := range p.Commands {
		words[i] = c.Word
	}
	return words
}

// Lines groups the page's words by baseline and joins each line with
// single spaces.
func (p Page) Lines() []string {
	var lines []string
	var line []string
	for i, c := range p.Commands {
		if i > 0 && c.Y != p.Commands[i-1].Y {
			lines = append(lines, strings.Join(line, " "))
			line = line[:0]
		}
		line = append(line, c.Word)
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return lines
}

// Document is a layout grouped by page. Pages that only carry blank lines
// are present with no commands.
type Document struct {
	Pages []Page
}

// Document lays the text out and groups the commands by page.
func (f *Flow) Document() Document {
	res := f.Layout()
	return res.Document()
}

// Document groups a materialized result by page.
func (r Result) Document() Document {
	pages := make([]Page, r.Pages)
	for i := range pages {
		pages[i].Index = i
	}
	for _, c := range r.Commands {
		pages[c.Page].Commands = append(pages[c.Page].Commands, c)
	}
	return Document{Pages: pages}
}

// WordCount returns the number of words placed in the document.
func (d Document) WordCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Commands)
	}
	return n
}
