// Package htmldeck renders the report as a single self-contained reveal.js page.
package htmldeck

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"regexp"
	"time"

	"github.com/ukaji3/ticketreport-go/pkg/ticketreport/models"
)

// ContentType is the MIME type of the generated page.
const ContentType = "text/html; charset=utf-8"

// RevealBase is where the reveal.js script and stylesheets are loaded from.
const RevealBase = "https://unpkg.com/reveal.js@5"

// UpdatedLayout formats the date shown on the title section.
const UpdatedLayout = "Jan 02, 2006"

// DefaultDocumentTitle is used for the <title> element when Page.DocumentTitle is empty.
const DefaultDocumentTitle = "Sumadhura | Simplify360 Ticket Report"

var cssColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

var tmpl = template.Must(template.New("deck").Parse(pageTemplate))

// Section is one chart slide.
type Section struct {
	Chart *models.ChartImage
	// Alt is the image alt text.
	Alt string
	// Caption is an optional line under the image.
	Caption string
}

// Page is the content of the HTML deck.
type Page struct {
	DocumentTitle string
	Title         string
	Subtitle      string
	Updated       time.Time
	Branding      models.Branding
	KPIs          []models.KPI
	Sections      []Section
}

type colors struct {
	Primary, Secondary, Tertiary template.CSS
}

type sectionView struct {
	Title   string
	Image   template.URL
	Alt     string
	Caption string
}

type pageView struct {
	DocumentTitle string
	Title         string
	Subtitle      string
	Updated       string
	RevealBase    string
	Colors        colors
	Logo          template.URL
	KPIs          []models.KPI
	Sections      []sectionView
}

// Build renders page as UTF-8 HTML. Images are inlined as base64 data URIs.
func Build(page Page) ([]byte, error) {
	title := page.DocumentTitle
	if title == "" {
		title = DefaultDocumentTitle
	}
	view := pageView{
		DocumentTitle: title,
		Title:         page.Title,
		Subtitle:      page.Subtitle,
		Updated:       page.Updated.Format(UpdatedLayout),
		RevealBase:    RevealBase,
		KPIs:          page.KPIs,
	}

	var err error
	if view.Colors, err = brandColors(page.Branding); err != nil {
		return nil, err
	}
	if len(page.Branding.Logo) > 0 {
		view.Logo = dataURI(page.Branding.Logo)
	}
	for _, s := range page.Sections {
		if s.Chart == nil {
			continue
		}
		view.Sections = append(view.Sections, sectionView{
			Title:   s.Chart.Title,
			Image:   dataURI(s.Chart.PNG),
			Alt:     s.Alt,
			Caption: s.Caption,
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

func brandColors(b models.Branding) (colors, error) {
	var c colors
	for _, f := range []struct {
		name string
		in   string
		out  *template.CSS
	}{
		{"primary", b.Primary, &c.Primary},
		{"secondary", b.Secondary, &c.Secondary},
		{"tertiary", b.Tertiary, &c.Tertiary},
	} {
		v := models.CSSColor(f.in)
		if !cssColor.MatchString(v) {
			return colors{}, fmt.Errorf("invalid %s colour %q", f.name, f.in)
		}
		*f.out = template.CSS(v)
	}
	return c, nil
}

func dataURI(data []byte) template.URL {
	mime := http.DetectContentType(data)
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}
