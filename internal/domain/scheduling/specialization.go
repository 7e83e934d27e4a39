package scheduling

import "strings"

const DefaultSpecialization = "General Physician"

// specializations maps a service name to the doctor specialization that
// handles it. Unknown services fall back to DefaultSpecialization.
var specializations = map[string]string{
	"Pediatrics":        "Pediatrician",
	"Neurology":         "Neurologist",
	"Cardiology":        "Cardiologist",
	"General Physician": "General Physician",
	"Emergency":         "Emergency",
	"Immunization":      "General Physician",
}

func SpecializationFor(serviceName string) string {
	if s, ok := specializations[strings.TrimSpace(serviceName)]; ok {
		return s
	}
	return DefaultSpecialization
}
