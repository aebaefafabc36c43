package contact

// Output field names. They double as JSON keys and CSV headers.
const (
	FieldName                 = "Name"
	FieldGovt                 = "Govt"
	FieldPoliticalAffiliation = "PoliticalAffiliation"
	FieldConstituency         = "Constituency"
	FieldProvinceTerritory    = "ProvinceTerritory"
	FieldPreferredLanguage    = "PreferredLanguage"
	FieldContact              = "Contact"
	FieldTelephone            = "Telephone"
	FieldURL                  = "Url"
)

// Fields lists every record field in output order.
var Fields = []string{
	FieldName,
	FieldGovt,
	FieldPoliticalAffiliation,
	FieldConstituency,
	FieldProvinceTerritory,
	FieldPreferredLanguage,
	FieldContact,
	FieldTelephone,
	FieldURL,
}

// Record is the contact information scraped from one member profile page.
// Only Url is guaranteed to be non-empty.
type Record struct {
	Name                 string `json:"Name"`
	Govt                 string `json:"Govt,omitempty"`
	PoliticalAffiliation string `json:"PoliticalAffiliation"`
	Constituency         string `json:"Constituency"`
	ProvinceTerritory    string `json:"ProvinceTerritory"`
	PreferredLanguage    string `json:"PreferredLanguage"`
	Contact              string `json:"Contact"`
	Telephone            string `json:"Telephone"`
	Url                  string `json:"Url"`
}

// IsField reports whether name is a known record field.
func IsField(name string) bool {
	return fieldPtr(&Record{}, name) != nil
}

// Set assigns value to the named field. It returns false for unknown names.
func (r *Record) Set(field, value string) bool {
	p := fieldPtr(r, field)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// Get returns the value of the named field, or "" for unknown names.
func (r Record) Get(field string) string {
	p := fieldPtr(&r, field)
	if p == nil {
		return ""
	}
	return *p
}

// Map returns the record as a field-name to value mapping. Govt is left out
// when empty, matching the JSON form.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(Fields))
	for _, f := range Fields {
		v := r.Get(f)
		if f == FieldGovt && v == "" {
			continue
		}
		m[f] = v
	}
	return m
}

// Values returns the field values in Fields order.
func (r Record) Values() []string {
	vals := make([]string, len(Fields))
	for i, f := range Fields {
		vals[i] = r.Get(f)
	}
	return vals
}

func fieldPtr(r *Record, field string) *string {
	switch field {
	case FieldName:
		return &r.Name
	case FieldGovt:
		return &r.Govt
	case FieldPoliticalAffiliation:
		return &r.PoliticalAffiliation
	case FieldConstituency:
		return &r.Constituency
	case FieldProvinceTerritory:
		return &r.ProvinceTerritory
	case FieldPreferredLanguage:
		return &r.PreferredLanguage
	case FieldContact:
		return &r.Contact
	case FieldTelephone:
		return &r.Telephone
	case FieldURL:
		return &r.Url
	}
	return nil
}
