package profiles

import (
	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
)

// Manitoba is the Legislative Assembly of Manitoba. The member heading holds
// the name and the constituency as its own text nodes; headings without them
// carry the name as a link and no constituency.
func Manitoba() Profile {
	return Profile{
		ID:             "Manitoba",
		Name:           "Legislative Assembly of Manitoba",
		StartURL:       "https://www.gov.mb.ca/legislature/members/mla_list_alphabetical.html",
		AllowedDomains: []string{"gov.mb.ca"},
		Links: discover.LinkSelector{
			Selector: "table tbody a",
		},
		Fields: []extract.FieldRules{
			extract.Field(contact.FieldName, extract.OwnNth("h2", 0), extract.Text("h2 a")),
			extract.Field(contact.FieldPoliticalAffiliation, extract.OwnText("h3")),
			extract.Field(contact.FieldConstituency, extract.OwnNth("h2", 1)),
			extract.Field(contact.FieldContact, extract.Text(`a[href^="mailto:"]`)),
			extract.Field(contact.FieldTelephone,
				extract.Regex(`h3:contains("Constituency Office:") + p`, `Phone:\s*(\(\d{3}\) \d{3}-\d{4})`),
			),
		},
		Constants: map[string]string{
			contact.FieldGovt:              "Provincial Leader",
			contact.FieldProvinceTerritory: "Manitoba",
			contact.FieldPreferredLanguage: "English",
		},
	}
}
