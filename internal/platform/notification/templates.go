package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

type templateSpec struct {
	file    string
	subject string
	heading string
	accent  string
}

var templateSpecs = map[Kind]templateSpec{
	KindConfirmation: {"confirmation.html", "Appointment Confirmation - Hospital Appointment System", "Appointment Confirmed", "#007bff"},
	KindCancellation: {"cancellation.html", "Appointment Cancelled - Hospital Appointment System", "Appointment Cancelled", "#dc3545"},
	KindReminder:     {"reminder.html", "Appointment Reminder - Hospital Appointment System", "Appointment Reminder", "#28a745"},
}

// Renderer turns a Kind plus AppointmentData into subject and HTML body.
type Renderer struct {
	templates map[Kind]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[Kind]*template.Template, len(templateSpecs))}
	for kind, spec := range templateSpecs {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+spec.file)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		r.templates[kind] = t
	}
	return r, nil
}

type view struct {
	AppointmentData
	Heading string
	Accent  template.CSS
}

func (r *Renderer) Render(kind Kind, data AppointmentData) (subject, html string, err error) {
	spec, ok := templateSpecs[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown notification kind %q", kind)
	}
	data.Date = displayDate(data.Date)

	var buf bytes.Buffer
	v := view{AppointmentData: data, Heading: spec.heading, Accent: template.CSS(spec.accent)}
	if err := r.templates[kind].ExecuteTemplate(&buf, "layout", v); err != nil {
		return "", "", fmt.Errorf("render %s: %w", kind, err)
	}
	return spec.subject, buf.String(), nil
}

// displayDate turns "2024-06-01" into "Saturday, June 1, 2024"; anything else
// is returned unchanged.
func displayDate(s string) string {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return d.Format("Monday, January 2, 2006")
}

// smsText is the short plain-text variant sent alongside the email.
func smsText(kind Kind, d AppointmentData) string {
	switch kind {
	case KindConfirmation:
		return fmt.Sprintf("Appointment #%d confirmed: %s on %s at %s.", d.AppointmentID, d.ServiceName, d.Date, d.Time)
	case KindCancellation:
		return fmt.Sprintf("Appointment #%d (%s on %s at %s) has been cancelled.", d.AppointmentID, d.ServiceName, d.Date, d.Time)
	default:
		return fmt.Sprintf("Reminder: %s appointment #%d on %s at %s.", d.ServiceName, d.AppointmentID, d.Date, d.Time)
	}
}
