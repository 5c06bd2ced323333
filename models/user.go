package models

import "strings"

// Member is a signed-in person who belongs to an expense group.
type Member struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// EmailDirectory maps person names to email addresses for one group.
type EmailDirectory map[string]string

// Lookup returns the email on file for person.
func (d EmailDirectory) Lookup(person string) (string, bool) {
	email, ok := d[person]
	if !ok || strings.TrimSpace(email) == "" {
		return "", false
	}
	return email, true
}

// FirstName is the name a member goes by inside a group: the first word of
// their display name.
func FirstName(displayName string) string {
	fields := strings.Fields(displayName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
