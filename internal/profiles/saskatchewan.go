package profiles

import (
	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
)

// Saskatchewan is the Legislative Assembly of Saskatchewan.
func Saskatchewan() Profile {
	return Profile{
		ID:             "Saskatchewan",
		Name:           "Legislative Assembly of Saskatchewan",
		StartURL:       "https://www.legassembly.sk.ca/mlas/",
		AllowedDomains: []string{"legassembly.sk.ca"},
		Links: discover.LinkSelector{
			Selector:      `#mla-list table tbody a:not([href^="mailto"])`,
			AllowPatterns: []string{`/mlas/member-details/`},
		},
		Fields: []extract.FieldRules{
			extract.Field(contact.FieldName, extract.Text("div.mla-profile h1"), extract.Text("h1")),
			extract.Field(contact.FieldPoliticalAffiliation, extract.Text(`div.mla-profile dt:contains("Party") + dd`)),
			extract.Field(contact.FieldConstituency, extract.Text(`div.mla-profile dt:contains("Constituency") + dd`)),
			extract.Field(contact.FieldContact,
				extract.Text(`div.mla-contact a[href^="mailto:"]`),
				extract.Regex("div.mla-contact", `[\w.+-]+@[\w.-]+\.\w+`),
			),
			extract.Field(contact.FieldTelephone,
				extract.Regex("div.mla-contact", `Phone:\s*(\(?\d{3}\)?[\s-]*\d{3}-\d{4})`),
			),
		},
		Constants: map[string]string{
			contact.FieldGovt:              "Provincial Leader",
			contact.FieldProvinceTerritory: "Saskatchewan",
			contact.FieldPreferredLanguage: "English",
		},
	}
}
