package profiles

import (
	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
)

const (
	albertaSummary = "div.col-lg-6.my-3.px-3.px-lg-0"
	// Constituency office column. Its links are addressed by position among
	// all element children, so an extra <br> shifts them.
	albertaOffice = "#mla-header > div > div.card-body.bg-white.mla-contact > div.row.border-bottom.pt-2.ml-0.mr-0 > div.col-lg-auto.pb-2"
)

// Alberta is the Legislative Assembly of Alberta.
func Alberta() Profile {
	return Profile{
		ID:             "Alberta",
		Name:           "Legislative Assembly of Alberta",
		StartURL:       "https://www.assembly.ab.ca/members/members-of-the-legislative-assembly",
		AllowedDomains: []string{"assembly.ab.ca"},
		Links: discover.LinkSelector{
			Selector: "div#mla-table a",
		},
		Fields: []extract.FieldRules{
			extract.Field(contact.FieldName, extract.Text("h2")),
			extract.Field(contact.FieldPoliticalAffiliation, extract.OwnText(albertaSummary+" > p:nth-child(3)")),
			extract.Field(contact.FieldConstituency, extract.OwnText(albertaSummary+" > p:nth-child(4)")),
			extract.Field(contact.FieldContact,
				extract.OwnText(albertaOffice+" > a:nth-child(6)"),
				extract.OwnText(albertaOffice+" > a:nth-child(10)"),
			),
			extract.Field(contact.FieldTelephone, extract.OwnText(albertaOffice+" > a:nth-child(3)")),
		},
		Constants: map[string]string{
			contact.FieldProvinceTerritory: "Alberta",
			contact.FieldPreferredLanguage: "English",
		},
	}
}
