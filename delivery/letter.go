package delivery

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/unidoc/unioffice/document"
)

// run is a stretch of text with uniform emphasis.
type run struct {
	Text   string
	Bold   bool
	Italic bool
}

type paragraph struct {
	Heading bool
	Runs    []run
}

// Letter is an email body template authored in Word. Paragraph text may
// hold {{placeholder}} tokens.
type Letter struct {
	paragraphs []paragraph
}

// ReadLetter parses a DOCX cover letter.
func ReadLetter(r io.ReaderAt, size int64) (*Letter, error) {
	doc, err := document.Read(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read letter: %w", err)
	}

	l := &Letter{}
	for _, para := range doc.Paragraphs() {
		p := paragraph{Heading: strings.HasPrefix(para.Style(), "Heading")}
		for _, r := range para.Runs() {
			text := r.Text()
			if text == "" {
				continue
			}
			cur := run{Text: text, Bold: r.Properties().IsBold(), Italic: r.Properties().IsItalic()}
			// Word splits text into runs at arbitrary points, often inside a
			// placeholder; runs with equal emphasis are joined back together.
			if n := len(p.Runs); n > 0 && p.Runs[n-1].Bold == cur.Bold && p.Runs[n-1].Italic == cur.Italic {
				p.Runs[n-1].Text += cur.Text
				continue
			}
			p.Runs = append(p.Runs, cur)
		}
		l.paragraphs = append(l.paragraphs, p)
	}
	return l, nil
}

// LoadLetter reads a DOCX cover letter from disk.
func LoadLetter(path string) (*Letter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open letter: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat letter: %w", err)
	}
	return ReadLetter(f, info.Size())
}

// HTML renders the letter as an email body, replacing {{key}} with values[key].
// Unknown placeholders are left as they are.
func (l *Letter) HTML(values map[string]string) string {
	pairs := make([]string, 0, 2*len(values))
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	rep := strings.NewReplacer(pairs...)

	var sb strings.Builder
	for _, p := range l.paragraphs {
		tag := "p"
		if p.Heading {
			tag = "h2"
		}
		sb.WriteString("<" + tag + ">")
		for _, r := range p.Runs {
			text := html.EscapeString(rep.Replace(r.Text))
			if r.Bold {
				text = "<b>" + text + "</b>"
			}
			if r.Italic {
				text = "<i>" + text + "</i>"
			}
			sb.WriteString(text)
		}
		sb.WriteString("</" + tag + ">\n")
	}
	return sb.String()
}
