package profiles

import (
	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
)

const nsContact = "div.panel-pane.pane-dsc.mla-current-profile-contact"

// NovaScotia is the Nova Scotia House of Assembly.
func NovaScotia() Profile {
	return Profile{
		ID:             "NovaScotia",
		Name:           "Nova Scotia House of Assembly",
		StartURL:       "https://nslegislature.ca/members/profiles-table",
		AllowedDomains: []string{"nslegislature.ca"},
		Links: discover.LinkSelector{
			Selector: "table tbody a",
		},
		Fields: []extract.FieldRules{
			extract.Field(contact.FieldName, extract.Text("h1")),
			extract.Field(contact.FieldPoliticalAffiliation,
				extract.Text("table > tbody > tr > td.views-field.views-field-field-party"),
			),
			extract.Field(contact.FieldConstituency,
				extract.Text("table > tbody > tr > td.views-field.views-field-field-constituency"),
			),
			extract.Field(contact.FieldContact, extract.Text(nsContact+" a")),
			extract.Field(contact.FieldTelephone,
				extract.Regex(nsContact+` p:contains("Phone:")`, `Phone:\s*([\d-]+)`),
			),
		},
		Constants: map[string]string{
			contact.FieldProvinceTerritory: "Nova Scotia",
			contact.FieldPreferredLanguage: "English",
		},
	}
}
