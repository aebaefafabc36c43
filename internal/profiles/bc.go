package profiles

import (
	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
)

// The BC member page lists label and value as sibling divs, so party and
// riding are read by position.
const bcDetails = "div.col-xs-12.col-sm-9.col-md-9 > div:nth-child(1) > div"

// BC is the Legislative Assembly of British Columbia.
func BC() Profile {
	return Profile{
		ID:             "BC",
		Name:           "Legislative Assembly of British Columbia",
		StartURL:       "https://www.leg.bc.ca/content-committees/pages/mla-contact-information.aspx",
		AllowedDomains: []string{"leg.bc.ca"},
		Links: discover.LinkSelector{
			Selector: `table tbody a:not([href^="mailto"])`,
		},
		Fields: []extract.FieldRules{
			extract.Field(contact.FieldName, extract.Text("h2")),
			extract.Field(contact.FieldPoliticalAffiliation, extract.Nth(bcDetails, 6)),
			extract.Field(contact.FieldConstituency, extract.Nth(bcDetails, 2)),
			extract.Field(contact.FieldContact,
				extract.Nth("div.convertToEmail", 1),
				extract.Text("div.convertToEmail"),
			),
			extract.Field(contact.FieldTelephone,
				extract.Regex("div.col-xs-12.col-sm-9.col-md-9", `Phone:\s*(\(?\d{3}\)?[\s-]*\d{3}-\d{4})`),
			),
		},
		Constants: map[string]string{
			contact.FieldGovt:              "Provincial Leader",
			contact.FieldProvinceTerritory: "BC",
			contact.FieldPreferredLanguage: "English",
		},
	}
}
