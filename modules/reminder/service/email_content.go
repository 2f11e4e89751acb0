package service

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"party-invites/core/utils"
	"party-invites/modules/reminder/entity"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/reminder.txt.tmpl"))
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/reminder.html.tmpl"))
)

type EmailContent struct {
	Subject string
	Text    string
	HTML    string
}

type ContentGenerator interface {
	Generate(party entity.Party, guest entity.Guest, checkpoint entity.ReminderType) (*EmailContent, error)
}

type emailData struct {
	Lead            string
	ChildName       string
	ChildAge        int
	When            string
	Location        string
	Theme           string
	Notes           string
	GuestParentName string
	GuestChildName  string
	RSVPURL         string
}

type TemplateContentGenerator struct {
	loc       *time.Location
	publicURL string
}

// NewContentGenerator renders dates in loc and links guests to publicURL/invite/<token>.
func NewContentGenerator(loc *time.Location, publicURL string) *TemplateContentGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &TemplateContentGenerator{loc: loc, publicURL: strings.TrimRight(publicURL, "/")}
}

func subjectFor(checkpoint entity.ReminderType, childName string) (subject, lead string) {
	switch checkpoint {
	case entity.ReminderSevenDays:
		return fmt.Sprintf("One week until %s's birthday party", childName), "The party is one week away."
	case entity.ReminderTwoDays:
		return fmt.Sprintf("%s's birthday party is in 2 days", childName), "Just two more days to go."
	default:
		return fmt.Sprintf("Today: %s's birthday party", childName), "The party is today!"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (g *TemplateContentGenerator) Generate(party entity.Party, guest entity.Guest, checkpoint entity.ReminderType) (*EmailContent, error) {
	start := party.EventDatetime.In(g.loc)
	when := start.Format("Monday, January 2, 2006 at 15:04")
	if party.EventEndDatetime != nil {
		when += " - " + party.EventEndDatetime.In(g.loc).Format("15:04")
	}

	subject, lead := subjectFor(checkpoint, party.ChildName)
	data := emailData{
		Lead:            lead,
		ChildName:       party.ChildName,
		ChildAge:        utils.AgeOn(party.ChildBirthDate.UTC(), start),
		When:            when,
		Location:        party.Location,
		Theme:           deref(party.Theme),
		Notes:           deref(party.Notes),
		GuestParentName: strings.TrimSpace(guest.ParentName),
		GuestChildName:  strings.TrimSpace(guest.ChildName),
	}
	if g.publicURL != "" && party.PublicRSVPToken != "" {
		data.RSVPURL = g.publicURL + "/invite/" + party.PublicRSVPToken
	}

	var text, html bytes.Buffer
	if err := textTemplates.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("render text reminder: %w", err)
	}
	if err := htmlTemplates.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render html reminder: %w", err)
	}

	return &EmailContent{Subject: subject, Text: text.String(), HTML: html.String()}, nil
}
