package profiles

import (
	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
)

// Ontario is the Legislative Assembly of Ontario, 43rd Parliament.
func Ontario() Profile {
	return Profile{
		ID:             "Ontario",
		Name:           "Legislative Assembly of Ontario",
		StartURL:       "https://www.ola.org/en/members/parliament-43",
		AllowedDomains: []string{"ola.org"},
		Links: discover.LinkSelector{
			Selector: "table tbody a",
		},
		Fields: []extract.FieldRules{
			extract.Field(contact.FieldName, extract.OwnText("h2.field-content")),
			extract.Field(contact.FieldPoliticalAffiliation, extract.OwnText("div.enteteFicheDepute ul > li:nth-child(2)")),
			// The first riding link is the parliament, the second the riding.
			extract.Field(contact.FieldConstituency, extract.OwnNth("p.riding a", 1)),
			extract.Field(contact.FieldContact, extract.Text(`span.field-content a[href^="mailto:"]`)),
			extract.Field(contact.FieldTelephone,
				extract.Regex("div.views-field-field-phone-number", `(\d{3}-\d{3}-\d{4})`),
				extract.Regex("", `(?:Tel\.|Telephone|Phone):?\s*(\d{3}-\d{3}-\d{4})`),
			),
		},
		Constants: map[string]string{
			contact.FieldProvinceTerritory: "Ontario",
			contact.FieldPreferredLanguage: "English",
		},
	}
}
