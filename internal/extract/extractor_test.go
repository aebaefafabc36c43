package extract

import (
	"strings"
	"testing"

	"sjsage522/mpcontacts/internal/contact"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtract_RegexPhoneFirstMatch(t *testing.T) {
	doc := newDoc(t, `<div class="contact"><p>Phone: 613-555-0100 Fax: 613-555-0199</p></div>`)

	e, err := New([]FieldRules{
		Field(contact.FieldTelephone, Regex("div.contact p", `Phone:\s*([\d-]+)`)),
	}, nil)
	require.NoError(t, err)

	rec := e.Extract(doc, "https://example.com/m/1")
	assert.Equal(t, "613-555-0100", rec.Telephone)
}

func TestExtract_RegexWithoutGroupUsesWholeMatch(t *testing.T) {
	doc := newDoc(t, `<p>call 902-555-0101 today</p>`)

	e, err := New([]FieldRules{
		Field(contact.FieldTelephone, Regex("p", `\d{3}-\d{3}-\d{4}`)),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "902-555-0101", e.Extract(doc, "u").Telephone)
}

func TestExtract_RegexNoMatchIsEmpty(t *testing.T) {
	doc := newDoc(t, `<p>Fax: 613-555-0199</p>`)

	e, err := New([]FieldRules{
		Field(contact.FieldTelephone, Regex("p", `Phone:\s*([\d-]+)`)),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "", e.Extract(doc, "u").Telephone)
}

func TestExtract_RegexWholeDocument(t *testing.T) {
	doc := newDoc(t, `<div><span>Telephone: 418-555-0000</span></div>`)

	e, err := New([]FieldRules{
		Field(contact.FieldTelephone, Regex("", `Telephone:\s*([\d-]+)`)),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "418-555-0000", e.Extract(doc, "u").Telephone)
}

func TestExtract_FallbackOrder(t *testing.T) {
	rules := []FieldRules{
		Field(contact.FieldContact,
			Text("a.primary"),
			Text("a.secondary"),
		),
	}
	e, err := New(rules, nil)
	require.NoError(t, err)

	both := newDoc(t, `<a class="primary">first@example.com</a><a class="secondary">second@example.com</a>`)
	assert.Equal(t, "first@example.com", e.Extract(both, "u").Contact)

	blankFirst := newDoc(t, `<a class="primary">   </a><a class="secondary">second@example.com</a>`)
	assert.Equal(t, "second@example.com", e.Extract(blankFirst, "u").Contact)

	neither := newDoc(t, `<p>nothing here</p>`)
	assert.Equal(t, "", e.Extract(neither, "u").Contact)
}

func TestExtract_TextOwnVersusDescendant(t *testing.T) {
	doc := newDoc(t, `<h2><a href="/x">Linked Name</a> Own Text</h2>`)

	e, err := New([]FieldRules{
		Field(contact.FieldName, Text("h2")),
		Field(contact.FieldConstituency, OwnText("h2")),
	}, nil)
	require.NoError(t, err)

	rec := e.Extract(doc, "u")
	assert.Equal(t, "Linked Name", rec.Name)
	assert.Equal(t, "Own Text", rec.Constituency)
}

func TestExtract_NthCountsBlankNodes(t *testing.T) {
	doc := newDoc(t, "<div class=\"info\">\n<b>Riding</b>\n<span>Victoria</span>\n</div>")

	e, err := New([]FieldRules{
		// nodes: "\n", "Riding", "\n", "Victoria", "\n"
		Field(contact.FieldConstituency, Nth("div.info", 3)),
		Field(contact.FieldPoliticalAffiliation, Nth("div.info", 42)),
	}, nil)
	require.NoError(t, err)

	rec := e.Extract(doc, "u")
	assert.Equal(t, "Victoria", rec.Constituency)
	assert.Equal(t, "", rec.PoliticalAffiliation)
}

func TestExtract_NthNestedMatchesNotDuplicated(t *testing.T) {
	doc := newDoc(t, `<div class="a">one<div class="a">two</div>three</div>`)

	e, err := New([]FieldRules{
		Field(contact.FieldName, Nth("div.a", 2)),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "three", e.Extract(doc, "u").Name)
}

func TestExtract_JoinTrimsPieces(t *testing.T) {
	doc := newDoc(t, `<h1>Jane Doe</h1><h1> MNA</h1>`)

	e, err := New([]FieldRules{
		Field(contact.FieldName, Join("h1")),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe MNA", e.Extract(doc, "u").Name)
}

func TestExtract_Attr(t *testing.T) {
	doc := newDoc(t, `<div class="c"><a>no href</a><a href=" mailto:jane@example.com ">Jane</a></div>`)

	e, err := New([]FieldRules{
		Field(contact.FieldContact, Attr(`div.c a`, "href")),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "mailto:jane@example.com", e.Extract(doc, "u").Contact)
}

func TestExtract_ContainsPseudoClass(t *testing.T) {
	doc := newDoc(t, `
		<h3>Legislative Office:</h3><p>Phone: (204) 555-0000</p>
		<h3>Constituency Office:</h3><p>Phone: (204) 555-1234</p>`)

	e, err := New([]FieldRules{
		Field(contact.FieldTelephone, Regex(`h3:contains("Constituency Office:") + p`, `Phone:\s*(\(\d{3}\) \d{3}-\d{4})`)),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "(204) 555-1234", e.Extract(doc, "u").Telephone)
}

func TestExtract_ConstantsAndURL(t *testing.T) {
	doc := newDoc(t, `<h1>Someone</h1><span class="prov">Ignored</span>`)

	e, err := New([]FieldRules{
		Field(contact.FieldName, Text("h1")),
		Field(contact.FieldProvinceTerritory, Text("span.prov")),
	}, map[string]string{
		contact.FieldProvinceTerritory: "Quebec",
		contact.FieldPreferredLanguage: "French",
	})
	require.NoError(t, err)

	rec := e.Extract(doc, "https://example.com/page")
	assert.Equal(t, "Someone", rec.Name)
	assert.Equal(t, "Quebec", rec.ProvinceTerritory)
	assert.Equal(t, "French", rec.PreferredLanguage)
	assert.Equal(t, "https://example.com/page", rec.Url)
}

func TestExtract_Idempotent(t *testing.T) {
	doc := newDoc(t, `<h1>A</h1><p>Phone: 1-2-3</p>`)

	e, err := New([]FieldRules{
		Field(contact.FieldName, Text("h1")),
		Field(contact.FieldTelephone, Regex("p", `Phone:\s*([\d-]+)`)),
	}, map[string]string{contact.FieldGovt: "Provincial Leader"})
	require.NoError(t, err)

	assert.Equal(t, e.Extract(doc, "u"), e.Extract(doc, "u"))
}

func TestExtract_Misses(t *testing.T) {
	doc := newDoc(t, `<h1>A</h1>`)

	e, err := New([]FieldRules{
		Field(contact.FieldName, Text("h1")),
		Field(contact.FieldContact, Text("a.mail")),
	}, nil)
	require.NoError(t, err)

	rec := e.Extract(doc, "u")
	assert.Equal(t, []string{contact.FieldContact}, e.Misses(rec))
}

func TestNew_RejectsBadConfiguration(t *testing.T) {
	cases := []struct {
		name      string
		fields    []FieldRules
		constants map[string]string
	}{
		{"unknown field", []FieldRules{Field("Email", Text("a"))}, nil},
		{"url rules", []FieldRules{Field(contact.FieldURL, Text("a"))}, nil},
		{"bad regex", []FieldRules{Field(contact.FieldTelephone, Regex("p", `(`))}, nil},
		{"empty regex", []FieldRules{Field(contact.FieldTelephone, Regex("p", ""))}, nil},
		{"bad selector", []FieldRules{Field(contact.FieldName, Text("div[["))}, nil},
		{"empty selector", []FieldRules{Field(contact.FieldName, Text(""))}, nil},
		{"attr without name", []FieldRules{Field(contact.FieldContact, Attr("a", ""))}, nil},
		{"negative index", []FieldRules{Field(contact.FieldName, Nth("div", -1))}, nil},
		{"unknown kind", []FieldRules{Field(contact.FieldName, Rule{Kind: "xpath", Selector: "div"})}, nil},
		{"url constant", nil, map[string]string{contact.FieldURL: "x"}},
		{"unknown constant", nil, map[string]string{"Email": "x"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.fields, tc.constants)
			assert.Error(t, err)
		})
	}
}
