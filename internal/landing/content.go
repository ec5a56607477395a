// Package landing loads the copy of the marketing page.
package landing

import (
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/softsell/softsell/web"
)

const contentFile = "content/landing.yaml"

// Page is the static content rendered around the contact form.
type Page struct {
	Brand        string       `yaml:"brand"`
	Hero         Hero         `yaml:"hero"`
	Steps        Section      `yaml:"steps"`
	Features     Section      `yaml:"features"`
	Testimonials Testimonials `yaml:"testimonials"`
	Contact      ContactCopy  `yaml:"contact"`
	Footer       Footer       `yaml:"footer"`
}

type Hero struct {
	Headline string `yaml:"headline"`
	Subhead  string `yaml:"subhead"`
	CTA      string `yaml:"cta"`
}

// Section is a titled grid of cards.
type Section struct {
	Title string `yaml:"title"`
	Items []Card `yaml:"items"`
}

// Card is one tile of a Section. Blurb is derived on load.
type Card struct {
	Title string `yaml:"title"`
	Icon  string `yaml:"icon"`
	Blurb string `yaml:"-"`
}

type Testimonials struct {
	Title string        `yaml:"title"`
	Items []Testimonial `yaml:"items"`
}

type Testimonial struct {
	Name    string `yaml:"name"`
	Role    string `yaml:"role"`
	Company string `yaml:"company"`
	Review  string `yaml:"review"`
}

type ContactCopy struct {
	Title  string `yaml:"title"`
	Submit string `yaml:"submit"`
}

type Footer struct {
	Year int `yaml:"year"`
}

// Load parses the embedded page content.
func Load() (Page, error) {
	return LoadFS(web.Content, contentFile)
}

// LoadFS parses page content from name in fsys.
func LoadFS(fsys fs.FS, name string) (Page, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Page{}, fmt.Errorf("landing: read %s: %w", name, err)
	}
	var page Page
	if err := yaml.Unmarshal(raw, &page); err != nil {
		return Page{}, fmt.Errorf("landing: parse %s: %w", name, err)
	}
	if page.Brand == "" || page.Hero.Headline == "" {
		return Page{}, errors.New("landing: brand and hero headline are required")
	}

	for i := range page.Steps.Items {
		page.Steps.Items[i].Blurb = fmt.Sprintf("Step %d to turn your license into cash", i+1)
	}
	lower := cases.Lower(language.English)
	for i, item := range page.Features.Items {
		page.Features.Items[i].Blurb = "We ensure " + lower.String(item.Title) + " for every transaction."
	}
	return page, nil
}

// Placeholder turns a field name into its input placeholder ("email" -> "Email").
func Placeholder(field string) string {
	return cases.Title(language.English).String(field)
}
