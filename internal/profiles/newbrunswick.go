package profiles

import (
	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
)

// NewBrunswick is the Legislative Assembly of New Brunswick. Member cards
// link to both language versions of each profile.
func NewBrunswick() Profile {
	return Profile{
		ID:             "NewBrunswick",
		Name:           "Legislative Assembly of New Brunswick",
		StartURL:       "https://www.legnb.ca/en/members/current",
		AllowedDomains: []string{"legnb.ca"},
		Links: discover.LinkSelector{
			Selector: "div.member-card a.member-link",
			Allow:    []string{"/en/members/"},
			Deny:     []string{"/fr/members/"},
		},
		Fields: []extract.FieldRules{
			extract.Field(contact.FieldName, extract.Join("h1.member-name")),
			extract.Field(contact.FieldPoliticalAffiliation, extract.Text("div.member-party")),
			extract.Field(contact.FieldConstituency, extract.Text("div.member-riding")),
			extract.Field(contact.FieldContact, extract.Text(`div.member-contact a[href^="mailto:"]`)),
			extract.Field(contact.FieldTelephone,
				extract.Regex("div.member-contact", `Telephone:\s*(\(?\d{3}\)?[\s-]*\d{3}-\d{4})`),
			),
		},
		Constants: map[string]string{
			contact.FieldGovt:              "Provincial Leader",
			contact.FieldProvinceTerritory: "New Brunswick",
			contact.FieldPreferredLanguage: "English",
		},
	}
}
