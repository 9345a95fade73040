package render

import (
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"resumebuilder/internal/resume"
)

// ErrUnknownStyle is returned when a resume references a style with no
// registered stylesheet. This is a reportable error, never a fallback.
var ErrUnknownStyle = errors.New("unknown resume style")

var styles = map[string]string{
	"modern":  modernCSS,
	"classic": classicCSS,
	"minimal": minimalCSS,
}

// Styles lists the registered style identifiers, sorted.
func Styles() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownStyle reports whether a stylesheet is registered for the identifier.
func KnownStyle(name string) bool {
	_, ok := styles[name]
	return ok
}

type templateData struct {
	Doc      *resume.Document
	CSS      template.CSS
	ImageURL string
}

var resumeTemplate = template.Must(template.New("resume").Parse(resumeTemplateString))

// Resume renders the assembled document to a standalone HTML page using the
// resume's style. imageURL is the resolved profile-image location, empty when
// only the default placeholder applies.
func Resume(doc *resume.Document, imageURL string) (string, error) {
	style := doc.Resume.Style
	css, ok := styles[style]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}

	var b strings.Builder
	err := resumeTemplate.Execute(&b, templateData{
		Doc:      doc,
		CSS:      template.CSS(css),
		ImageURL: imageURL,
	})
	if err != nil {
		return "", fmt.Errorf("execute resume template: %w", err)
	}
	return b.String(), nil
}

const resumeTemplateString = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Doc.Resume.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<div class="resume">
  <header class="header">
    {{if .ImageURL}}<img class="profile-pic" src="{{.ImageURL}}" alt="profile picture">{{end}}
    {{with .Doc.Info}}
    <div class="identity">
      <h1>{{.FullName}}</h1>
      <p class="contact">
        {{if .Email}}<span>{{.Email}}</span>{{end}}
        {{if .Phone}}<span>{{.Phone}}</span>{{end}}
        {{if .LinkedIn}}<span>{{.LinkedIn}}</span>{{end}}
        {{if .GitHub}}<span>{{.GitHub}}</span>{{end}}
        {{if .Address}}<span>{{.Address}}</span>{{end}}
      </p>
      {{if .Summary}}<p class="summary">{{.Summary}}</p>{{end}}
    </div>
    {{end}}
  </header>

  {{if .Doc.Education}}
  <section>
    <h2>Education</h2>
    {{range .Doc.Education}}
    <div class="entry">
      <div class="entry-head">
        <strong>{{.Degree}}</strong>
        <span class="dates">{{if .StartYear}}{{.StartYear}}{{end}}{{if .EndYear}} - {{.EndYear}}{{end}}</span>
      </div>
      <div class="entry-sub">{{.Institution}}</div>
      {{if .Description}}<p>{{.Description}}</p>{{end}}
    </div>
    {{end}}
  </section>
  {{end}}

  {{if .Doc.Experience}}
  <section>
    <h2>Experience</h2>
    {{range .Doc.Experience}}
    <div class="entry">
      <div class="entry-head">
        <strong>{{.JobTitle}}</strong>
        <span class="dates">{{.StartDate}}{{if .EndDate}} - {{.EndDate}}{{end}}</span>
      </div>
      <div class="entry-sub">{{.Company}}</div>
      {{if .Description}}<p>{{.Description}}</p>{{end}}
    </div>
    {{end}}
  </section>
  {{end}}

  {{if .Doc.Projects}}
  <section>
    <h2>Projects</h2>
    {{range .Doc.Projects}}
    <div class="entry">
      <div class="entry-head">
        <strong>{{.Title}}</strong>
        {{if .TechStack}}<span class="tech">{{.TechStack}}</span>{{end}}
      </div>
      {{if .Description}}<p>{{.Description}}</p>{{end}}
      {{if .Link}}<div class="entry-sub">{{.Link}}</div>{{end}}
    </div>
    {{end}}
  </section>
  {{end}}

  {{if .Doc.Skills}}
  <section>
    <h2>Skills</h2>
    <ul class="skills">
      {{range .Doc.Skills}}<li>{{.Name}} <em>({{.Level}})</em></li>{{end}}
    </ul>
  </section>
  {{end}}

  {{if .Doc.Certifications}}
  <section>
    <h2>Certifications</h2>
    {{range .Doc.Certifications}}
    <div class="entry">
      <div class="entry-head">
        <strong>{{.Name}}</strong>
        <span class="dates">{{.IssueDate}}</span>
      </div>
      <div class="entry-sub">{{.Issuer}}</div>
      {{if .CredentialLink}}<div class="entry-sub">{{.CredentialLink}}</div>{{end}}
    </div>
    {{end}}
  </section>
  {{end}}
</div>
</body>
</html>
`
