package profiles

import (
	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
)

const peiContactBlock = "div.right-sidebar_sidebar.clearfix.text-formatted.field.field--name-field-member-contact-information.field--type-text-long.field--label-hidden.field__item > p"

// PEI is the Legislative Assembly of Prince Edward Island.
func PEI() Profile {
	return Profile{
		ID:             "PEI",
		Name:           "Legislative Assembly of Prince Edward Island",
		StartURL:       "https://www.assembly.pe.ca/members",
		AllowedDomains: []string{"assembly.pe.ca"},
		Links: discover.LinkSelector{
			Selector: "#block-assembly-content > div > div > div > div.view-content.row a",
		},
		Fields: []extract.FieldRules{
			extract.Field(contact.FieldName, extract.Text("h1.title")),
			extract.Field(contact.FieldPoliticalAffiliation,
				extract.Text("div.views-field.views-field-field-member-pol-affiliation"),
			),
			extract.Field(contact.FieldConstituency,
				extract.Text("div.views-field.views-field-field-member-constituency > div"),
			),
			extract.Field(contact.FieldContact, extract.Text(peiContactBlock+" > a")),
			extract.Field(contact.FieldTelephone, extract.Regex(peiContactBlock, `Phone:\s*([\d-]+)`)),
		},
		Constants: map[string]string{
			contact.FieldGovt:              "Provincial Leader",
			contact.FieldProvinceTerritory: "PEI",
			contact.FieldPreferredLanguage: "English",
		},
	}
}
