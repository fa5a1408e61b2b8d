// Package pptx writes the report as an Office Open XML presentation.
//
// The package emits the minimal set of PresentationML parts directly into a
// zip container: one slide master, one blank layout, a theme carrying the brand
// colours, and one part per slide. All text is placed in explicit text boxes.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // logo decoding
	_ "image/png"  // logo and chart decoding
	"strings"
	"text/template"
	"time"

	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
)

// ContentType is the MIME type of a .pptx file.
const ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// ErrInvalidImage indicates image bytes that could not be decoded as PNG or JPEG.
var ErrInvalidImage = errors.New("invalid image data")

// KPITitle heads the metrics slide.
const KPITitle = "Key Metrics"

// Deck is the content of a presentation.
type Deck struct {
	// Title is the title slide heading.
	Title string
	// Subtitle is shown under the title.
	Subtitle string
	// Branding supplies the KPI colours, theme accents and optional logo.
	Branding models.Branding
	// KPIs are listed on the metrics slide, coloured tertiary, secondary, primary.
	KPIs []models.KPI
	// Charts get one slide each, headed by the chart title.
	Charts []*models.ChartImage
	// Created is recorded in the document properties.
	Created time.Time
}

type textBox struct {
	ID         int
	Name       string
	X, Y, W, H int64
	Text       string
	Size       int
	Bold       bool
	Color      string
	Align      string
	Anchor     string
}

type picture struct {
	ID         int
	Name       string
	Descr      string
	RelID      string
	Media      string
	X, Y, W, H int64
}

type slidePart struct {
	Name      string
	PresRelID string
	Texts     []textBox
	Pictures  []picture
	nextID    int
}

type mediaPart struct {
	Name string
	Data []byte
}

type presentation struct {
	Slides []*slidePart
	Width  int64
	Height int64
	media  []mediaPart
}

// PropsRelID numbers the presentation-level relationships that follow the slides.
func (p *presentation) PropsRelID(i int) string {
	return fmt.Sprintf("rId%d", len(p.Slides)+2+i)
}

var templates = template.Must(template.New("pptx").Funcs(template.FuncMap{
	"esc": escape,
	"add": func(a, b int) int { return a + b },
}).Parse(`{{define "contentTypes"}}` + contentTypesTmpl + `{{end}}` +
	`{{define "core"}}` + coreTmpl + `{{end}}` +
	`{{define "app"}}` + appTmpl + `{{end}}` +
	`{{define "presentation"}}` + presentationTmpl + `{{end}}` +
	`{{define "presentationRels"}}` + presentationRelsTmpl + `{{end}}` +
	`{{define "theme"}}` + themeTmpl + `{{end}}` +
	`{{define "slide"}}` + slideTmpl + `{{end}}` +
	`{{define "slideRels"}}` + slideRelsTmpl + `{{end}}`))

// Build renders deck as a .pptx file.
func Build(deck Deck) ([]byte, error) {
	p := &presentation{Width: SlideWidth, Height: SlideHeight}

	title := p.addSlide()
	title.addText(textBox{
		Name: "Title", X: Inches(0.5), Y: Inches(2.3), W: Inches(9), H: Inches(1.5),
		Text: deck.Title, Size: FontSize(44), Align: "ctr", Anchor: "b",
	})
	title.addText(textBox{
		Name: "Subtitle", X: Inches(1.5), Y: Inches(4.2), W: Inches(7), H: Inches(1),
		Text: deck.Subtitle, Size: FontSize(20), Align: "ctr", Anchor: "t",
	})
	if len(deck.Branding.Logo) > 0 {
		if err := p.addImage(title, "Logo", deck.Branding.Logo, Inches(8), Inches(0.3), Inches(1.5)); err != nil {
			return nil, fmt.Errorf("logo: %w", err)
		}
	}

	kpi := p.addSlide()
	kpi.addHeading(KPITitle, 36)
	colors := []string{deck.Branding.Tertiary, deck.Branding.Secondary, deck.Branding.Primary}
	for i, k := range deck.KPIs {
		kpi.addText(textBox{
			Name: k.Label,
			X:    Inches(0.5), Y: Inches(1.5 + float64(i)*1.2), W: Inches(8), H: Inches(1),
			Text:  fmt.Sprintf("%s: %d", k.Label, k.Value),
			Size:  FontSize(24),
			Bold:  true,
			Color: models.HexRGB(colors[i%len(colors)]),
			Align: "l", Anchor: "t",
		})
	}

	for _, c := range deck.Charts {
		s := p.addSlide()
		s.addHeading(c.Title, 32)
		if err := p.addImage(s, c.Title, c.PNG, Inches(0.5), Inches(1.5), Inches(8)); err != nil {
			return nil, fmt.Errorf("chart %q: %w", c.Title, err)
		}
	}

	return p.write(deck)
}

func (p *presentation) addSlide() *slidePart {
	n := len(p.Slides) + 1
	s := &slidePart{
		Name:      fmt.Sprintf("slide%d.xml", n),
		PresRelID: fmt.Sprintf("rId%d", n+1),
		nextID:    2,
	}
	p.Slides = append(p.Slides, s)
	return s
}

func (s *slidePart) addText(tb textBox) {
	tb.ID = s.nextID
	s.nextID++
	s.Texts = append(s.Texts, tb)
}

func (s *slidePart) addHeading(text string, pt float64) {
	s.addText(textBox{
		Name: "Title", X: Inches(0.5), Y: Inches(0.3), W: Inches(9), H: Inches(1.1),
		Text: text, Size: FontSize(pt), Align: "l", Anchor: "ctr",
	})
}

// addImage embeds data on s at (x, y) scaled to width, keeping its aspect ratio.
func (p *presentation) addImage(s *slidePart, name string, data []byte, x, y, width int64) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	ext, ok := map[string]string{"png": "png", "jpeg": "jpeg"}[format]
	if !ok {
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidImage, format)
	}

	media := fmt.Sprintf("image%d.%s", len(p.media)+1, ext)
	p.media = append(p.media, mediaPart{Name: media, Data: data})

	s.Pictures = append(s.Pictures, picture{
		ID:    s.nextID,
		Name:  name,
		Descr: name,
		RelID: fmt.Sprintf("rId%d", len(s.Pictures)+2),
		Media: media,
		X:     x,
		Y:     y,
		W:     width,
		H:     ScaleToWidth(width, cfg.Width, cfg.Height),
	})
	s.nextID++
	return nil
}

func (p *presentation) write(deck Deck) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := deck.Created
	if modified.IsZero() {
		modified = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	add := func(name string, data []byte) error {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	render := func(name, tmpl string, data any) error {
		var out bytes.Buffer
		if err := templates.ExecuteTemplate(&out, tmpl, data); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		return add(name, out.Bytes())
	}

	props := struct {
		Title, Subtitle, Created string
		Slides                   []*slidePart
	}{deck.Title, deck.Subtitle, modified.UTC().Format(time.RFC3339), p.Slides}
	theme := struct{ Primary, Secondary, Tertiary string }{
		models.HexRGB(deck.Branding.Primary),
		models.HexRGB(deck.Branding.Secondary),
		models.HexRGB(deck.Branding.Tertiary),
	}

	steps := []func() error{
		func() error { return render("[Content_Types].xml", "contentTypes", p) },
		func() error { return add("_rels/.rels", []byte(rootRelsTmpl)) },
		func() error { return render("docProps/core.xml", "core", props) },
		func() error { return render("docProps/app.xml", "app", props) },
		func() error { return render("ppt/presentation.xml", "presentation", p) },
		func() error { return render("ppt/_rels/presentation.xml.rels", "presentationRels", p) },
		func() error { return add("ppt/slideMasters/slideMaster1.xml", []byte(slideMasterXML)) },
		func() error { return add("ppt/slideMasters/_rels/slideMaster1.xml.rels", []byte(slideMasterRelsXML)) },
		func() error { return add("ppt/slideLayouts/slideLayout1.xml", []byte(slideLayoutXML)) },
		func() error { return add("ppt/slideLayouts/_rels/slideLayout1.xml.rels", []byte(slideLayoutRelsXML)) },
		func() error { return render("ppt/theme/theme1.xml", "theme", theme) },
		func() error { return add("ppt/presProps.xml", []byte(presPropsXML)) },
		func() error { return add("ppt/viewProps.xml", []byte(viewPropsXML)) },
		func() error { return add("ppt/tableStyles.xml", []byte(tableStylesXML)) },
	}
	for _, s := range p.Slides {
		s := s
		steps = append(steps,
			func() error { return render("ppt/slides/"+s.Name, "slide", s) },
			func() error { return render("ppt/slides/_rels/"+s.Name+".rels", "slideRels", s) },
		)
	}
	for _, m := range p.media {
		m := m
		steps = append(steps, func() error { return add("ppt/media/"+m.Name, m.Data) })
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// escape returns s with XML special characters replaced by entities.
func escape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return ""
	}
	return b.String()
}
