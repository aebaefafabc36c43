package profiles

import (
	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/discover"
	"sjsage522/mpcontacts/internal/extract"
)

// Quebec is the Assemblée nationale du Québec. Its index lists both the
// English and French profile of every member; only the English contact page
// (coordonnees.html) is followed.
func Quebec() Profile {
	return Profile{
		ID:             "Quebec",
		Name:           "Assemblée nationale du Québec",
		StartURL:       "https://www.assnat.qc.ca/en/deputes/index.html",
		AllowedDomains: []string{"assnat.qc.ca"},
		Links: discover.LinkSelector{
			Selector: "#ListeDeputes a:not(.nePasRediriger)",
			Allow:    []string{"/en/deputes/"},
			Deny:     []string{"/fr/deputes/"},
			Rewrite:  []discover.Rewrite{{Old: "index.html", New: "coordonnees.html"}},
		},
		Fields: []extract.FieldRules{
			extract.Field(contact.FieldName, extract.Join("h1")),
			extract.Field(contact.FieldPoliticalAffiliation, extract.OwnText("div.enteteFicheDepute ul > li:nth-child(2)")),
			extract.Field(contact.FieldConstituency, extract.Text("div.enteteFicheDepute > ul > li:nth-child(1)")),
			extract.Field(contact.FieldContact, extract.Attr(`div.blockAdresseDepute a[href^="mailto:"]`, "href")),
			extract.Field(contact.FieldTelephone,
				extract.Regex("div.blockAdresseDepute span.paragraph", `Telephone:\s*([\d-]+)`),
			),
		},
		Constants: map[string]string{
			contact.FieldProvinceTerritory: "Quebec",
			contact.FieldPreferredLanguage: "French",
		},
	}
}
