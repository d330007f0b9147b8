// Package render draws a layout.Flow onto PDF pages with gofpdf.
//
// A Canvas is both halves of the backend contract the layout needs: Measure
// supplies the font metrics and Draw places the words. Layout coordinates
// have their origin at the bottom-left of the page; gofpdf's origin is the
// top-left, so Draw flips y against the page height.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"pdf_summarizer/layout"
)

// ErrAlreadyWritten is returned when a Canvas is output a second time.
var ErrAlreadyWritten = errors.New("render: canvas already written")

// ErrUnknownPageSize is returned for page sizes gofpdf does not know.
var ErrUnknownPageSize = errors.New("render: unknown page size")

var knownPageSizes = []string{"A3", "A4", "A5", "Letter", "Legal", "Tabloid"}

// Config controls the fonts and metadata of generated documents.
type Config struct {
	FontFamily string  `yaml:"font_family"`
	FontStyle  string  `yaml:"font_style"`
	FontSize   float64 `yaml:"font_size"`
	PageSize   string  `yaml:"page_size"`

	Title   string `yaml:"title"`
	Author  string `yaml:"author"`
	Creator string `yaml:"creator"`

	// Compress enables flate compression of page content streams.
	Compress bool `yaml:"compress"`

	// CreationDate is written to the document info when non-zero.
	CreationDate time.Time `yaml:"-"`
}

// DefaultConfig returns Helvetica 12 on A4.
func DefaultConfig() Config {
	return Config{
		FontFamily: "Helvetica",
		FontSize:   12,
		PageSize:   "A4",
		Title:      "Summary",
		Creator:    "pdf_summarizer",
		Compress:   true,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FontFamily == "" {
		c.FontFamily = d.FontFamily
	}
	if c.FontSize <= 0 {
		c.FontSize = d.FontSize
	}
	if c.PageSize == "" {
		c.PageSize = d.PageSize
	}
	return c
}

// NormalizePageSize returns the gofpdf spelling of a page size name.
func NormalizePageSize(name string) (string, error) {
	for _, known := range knownPageSizes {
		if strings.EqualFold(known, name) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownPageSize, name, strings.Join(knownPageSizes, ", "))
}

// Canvas is a PDF document being drawn. It is not safe for concurrent use.
type Canvas struct {
	pdf        *gofpdf.Fpdf
	config     Config
	translate  func(string) string
	pageHeight float64
	pages      int
	drawn      bool
	written    bool
}

// NewCanvas creates an empty document in points with the configured font
// selected. No page is added until Draw.
func NewCanvas(cfg Config) (*Canvas, error) {
	cfg = cfg.withDefaults()
	size, err := NormalizePageSize(cfg.PageSize)
	if err != nil {
		return nil, err
	}
	cfg.PageSize = size

	pdf := gofpdf.New("P", "pt", cfg.PageSize, "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(cfg.Compress)
	if cfg.Title != "" {
		pdf.SetTitle(cfg.Title, true)
	}
	if cfg.Author != "" {
		pdf.SetAuthor(cfg.Author, true)
	}
	if cfg.Creator != "" {
		pdf.SetCreator(cfg.Creator, true)
	}
	if !cfg.CreationDate.IsZero() {
		pdf.SetCreationDate(cfg.CreationDate)
	}
	pdf.SetFont(cfg.FontFamily, cfg.FontStyle, cfg.FontSize)

	// Core fonts are cp1252; summaries arrive as UTF-8.
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if pdf.Err() {
		return nil, fmt.Errorf("render: set up font %s: %w", cfg.FontFamily, pdf.Error())
	}

	_, height := pdf.GetPageSize()
	return &Canvas{
		pdf:        pdf,
		config:     cfg,
		translate:  translate,
		pageHeight: height,
	}, nil
}

// Measure returns the advance of word followed by one space in the current
// font. It satisfies layout.MeasureFunc.
func (c *Canvas) Measure(word string) float64 {
	return c.pdf.GetStringWidth(c.translate(word + " "))
}

// PageHeight returns the page height in points.
func (c *Canvas) PageHeight() float64 {
	return c.pageHeight
}

// Pages returns the number of pages drawn so far.
func (c *Canvas) Pages() int {
	return c.pages
}

// Draw renders every command of flow and returns the number of pages the
// flow occupies, flow.PageCount(). Pages without words, such as the one
// opened by a final line break below the bottom margin, are still added.
// Each Draw starts on a new page.
func (c *Canvas) Draw(flow *layout.Flow) (int, error) {
	if c.written {
		return 0, ErrAlreadyWritten
	}
	if c.pages == 0 || c.drawn {
		c.newPage()
	}
	c.drawn = true
	base := c.pages - 1

	res := flow.Layout()
	for _, cmd := range res.Commands {
		for base+cmd.Page >= c.pages {
			c.newPage()
		}
		c.pdf.Text(cmd.X, c.pageHeight-cmd.Y, c.translate(cmd.Word))
	}
	for base+res.Pages > c.pages {
		c.newPage()
	}

	if c.pdf.Err() {
		return 0, fmt.Errorf("render: draw: %w", c.pdf.Error())
	}
	return c.pages - base, nil
}

func (c *Canvas) newPage() {
	c.pdf.AddPage()
	c.pdf.SetFont(c.config.FontFamily, c.config.FontStyle, c.config.FontSize)
	c.pages++
}

// Write outputs the document to w. A Canvas can be written once.
func (c *Canvas) Write(w io.Writer) error {
	if c.written {
		return ErrAlreadyWritten
	}
	c.written = true
	if c.pages == 0 {
		c.newPage()
	}
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("render: write pdf: %w", err)
	}
	return nil
}

// WriteFile outputs the document to path, replacing any existing file. The
// PDF is written to a temporary file next to path and renamed into place,
// so a failed write never leaves a truncated PDF behind.
func (c *Canvas) WriteFile(path string) error {
	if c.written {
		return ErrAlreadyWritten
	}
	c.written = true
	if c.pages == 0 {
		c.newPage()
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+tempSuffix)
	if err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	// CreateTemp uses 0600.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	if err := c.pdf.Output(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return nil
}

// tempSuffix is appended to the hidden temporary name used by WriteFile.
const tempSuffix = ".tmp-*"

// TempGlob matches temporary files WriteFile may leave next to path when
// the process is killed mid-write.
func TempGlob(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+base+tempSuffix)
}

// RenderFile lays text out with geometry, draws it with cfg and writes the
// result to path. It returns the number of pages written.
func RenderFile(text string, geometry layout.Geometry, cfg Config, path string) (int, error) {
	canvas, err := NewCanvas(cfg)
	if err != nil {
		return 0, err
	}
	flow, err := layout.New(text, geometry, canvas.Measure)
	if err != nil {
		return 0, err
	}
	pages, err := canvas.Draw(flow)
	if err != nil {
		return 0, err
	}
	if err := canvas.WriteFile(path); err != nil {
		return 0, err
	}
	return pages, nil
}
