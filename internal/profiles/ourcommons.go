package profiles

import (
	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
)

// OurCommons is the federal House of Commons. Province and language are read
// from the member's profile rather than fixed.
func OurCommons() Profile {
	return Profile{
		ID:             "OurCommons",
		Name:           "House of Commons of Canada",
		StartURL:       "https://www.ourcommons.ca/members/en/search",
		AllowedDomains: []string{"ourcommons.ca"},
		Links: discover.LinkSelector{
			Selector: "a.ce-mip-mp-tile",
		},
		Fields: []extract.FieldRules{
			extract.Field(contact.FieldName, extract.OwnText("h1")),
			extract.Field(contact.FieldPoliticalAffiliation, extract.OwnText("dd.mip-mp-profile-caucus")),
			extract.Field(contact.FieldConstituency, extract.OwnText("dd a")),
			extract.Field(contact.FieldProvinceTerritory, extract.OwnText(`dt:contains("Province / Territory:") + dd`)),
			extract.Field(contact.FieldPreferredLanguage, extract.OwnText(`dt:contains("Preferred Language:") + dd`)),
			extract.Field(contact.FieldContact, extract.OwnText("#contact a")),
			extract.Field(contact.FieldTelephone, extract.Regex(`p:contains("Telephone")`, `Telephone:\s+([\d-]+)`)),
		},
		Constants: map[string]string{
			contact.FieldGovt: "Member of Parliament",
		},
	}
}
