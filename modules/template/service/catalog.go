package service

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"party-invites/modules/template/entity"

	"github.com/gosimple/slug"
)

func defaultCatalog() []entity.Template {
	return []entity.Template{
		{Name: "Classic Balloons"},
		{Name: "Dinosaur Adventure"},
		{Name: "Princess Castle", Premium: true, PriceCents: 299},
		{Name: "Space Explorer", Premium: true, PriceCents: 299},
		{Name: "Unicorn Dreams", Premium: true, PriceCents: 399},
	}
}

// LoadCatalog reads the template list from a JSON array file, or returns the
// built-in list when path is empty. Missing ids are derived from the name.
func LoadCatalog(path string) ([]entity.Template, error) {
	templates := defaultCatalog()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template catalog: %w", err)
		}
		templates = nil
		if err := json.Unmarshal(raw, &templates); err != nil {
			return nil, fmt.Errorf("parse template catalog %s: %w", path, err)
		}
	}
	return normalizeCatalog(templates)
}

func normalizeCatalog(templates []entity.Template) ([]entity.Template, error) {
	seen := make(map[string]bool, len(templates))
	for i := range templates {
		t := &templates[i]
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, fmt.Errorf("template %d has no name", i)
		}
		if t.ID == "" {
			t.ID = slug.Make(t.Name)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		seen[t.ID] = true
		if t.Preview == "" {
			t.Preview = "/static/templates/" + t.ID + ".png"
		}
		if !t.Premium {
			t.PriceCents = 0
		}
	}
	return templates, nil
}
