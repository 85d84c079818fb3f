package xmldoc_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlstore/xmldoc"
)

func TestValidate_WellFormed(t *testing.T) {
	docs := []string{
		"<root><child>text</child></root>",
		"<root/>",
		`<?xml version="1.0" encoding="UTF-8"?>` + "\n<root a=\"1\"><!-- c --><x/></root>\n",
		`<?xml version="1.0" encoding="ISO-8859-1"?><root>caf` + "\xe9" + `</root>`,
		"<ns:root xmlns:ns=\"urn:x\"><ns:a>1</ns:a></ns:root>",
		"\ufeff<root/>",
		"\ufeff" + `<?xml version="1.0" encoding="UTF-8"?><root>x</root>`,
	}
	for _, doc := range docs {
		assert.NoError(t, xmldoc.Validate(doc), doc)
	}
}

func TestValidate_Malformed(t *testing.T) {
	cases := map[string]string{
		"mismatched close":   "<root><child></root>",
		"unclosed":           "<a><b></b>",
		"empty":              "",
		"whitespace only":    "   \n",
		"plain text":         "hello",
		"two roots":          "<a/><b/>",
		"trailing text":      "<a/>junk",
		"bad attribute":      "<a x=1/>",
		"undefined entity":   "<a>&nope;</a>",
		"stray close":        "</a>",
		"unterminated cdata": "<a><![CDATA[x</a>",
		"bom only":           "\ufeff",
		"repeated bom":       "\ufeff\ufeff<a/>",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			err := xmldoc.Validate(doc)
			require.Error(t, err)

			var se *xmldoc.SyntaxError
			require.ErrorAs(t, err, &se)
			assert.NotEmpty(t, se.Msg)
		})
	}
}

func TestValidate_ReportsParserMessage(t *testing.T) {
	err := xmldoc.Validate("<root><child></root>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed by")
}

func TestValidate_ReportsLine(t *testing.T) {
	err := xmldoc.Validate("<a>\n<b>\n</a>")

	var se *xmldoc.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Line)

	require.ErrorAs(t, xmldoc.Validate(""), &se)
	assert.Zero(t, se.Line)
}

func TestValidate_Deterministic(t *testing.T) {
	a := xmldoc.Validate("<a><b></a>")
	b := xmldoc.Validate("<a><b></a>")
	require.Error(t, a)
	assert.Equal(t, a.Error(), b.Error())
}

func TestParse_NestedElements(t *testing.T) {
	data, err := xmldoc.Parse("<a><b>1</b></a>")
	require.NoError(t, err)

	out, err := json.Marshal(data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":{"b":"1"}}`, string(out))
}

func TestParse_AttributesAndRepeats(t *testing.T) {
	data, err := xmldoc.Parse(`<list id="7"><item>x</item><item>y</item></list>`)
	require.NoError(t, err)

	out, err := json.Marshal(data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"list":{"-id":"7","item":["x","y"]}}`, string(out))
}

func TestParse_LeadingBOM(t *testing.T) {
	data, err := xmldoc.Parse("\ufeff<a><b>1</b></a>")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": "1"}}, data)
}

func TestParse_Malformed(t *testing.T) {
	_, err := xmldoc.Parse("<a><b>1</a>")
	require.Error(t, err)

	var se *xmldoc.SyntaxError
	assert.ErrorAs(t, err, &se)
}
