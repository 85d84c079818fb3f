package core_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"xmlstore/core"
)

var safeName = regexp.MustCompile(`^[a-zA-Z0-9._-]*\.xml$`)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report":             "report.xml",
		"report.xml":         "report.xml",
		"my report.xml":      "my_report.xml",
		"../../etc/passwd":   ".._.._etc_passwd.xml",
		"a/b\\c":             "a_b_c.xml",
		"data.XML":           "data.XML.xml",
		"naïve":              "na_ve.xml",
		"日本":                 "__.xml",
		"x.xml ":             "x.xml_.xml",
		"keep-_.these.0-9":   "keep-_.these.0-9.xml",
		"semi;colon&amp":     "semi_colon_amp.xml",
		".xml":               ".xml",
		"?":                  "_.xml",
		"emoji 😀":           "emoji__.xml",
		"tab\there\nnewline": "tab_here_newline.xml",
	}
	for in, want := range cases {
		assert.Equal(t, want, core.SanitizeFilename(in), "input %q", in)
	}
}

func TestSanitizeFilename_Properties(t *testing.T) {
	inputs := []string{
		"", "a", "a.xml", "a.xml.xml", "..", "/", "C:\\temp\\x", "%2e%2e",
		"\x00null", "emoji 😀", "spaces   here", "UPPER.Xml", "-.-", "über.xml",
	}
	for _, in := range inputs {
		got := core.SanitizeFilename(in)
		assert.Regexp(t, safeName, got, "input %q", in)
		assert.Equal(t, got, core.SanitizeFilename(got), "not idempotent for %q", in)
	}
}

func TestIsManaged(t *testing.T) {
	assert.True(t, core.IsManaged("a.xml"))
	assert.False(t, core.IsManaged("a.txt"))
	assert.False(t, core.IsManaged("a.xml.tmp"))
	assert.False(t, core.IsManaged("a.XML"))
}

func TestCheckFilename(t *testing.T) {
	for _, ok := range []string{"a.xml", "My File.xml", "sub/a.xml", "a..b.xml"} {
		assert.NoError(t, core.CheckFilename(ok), ok)
	}
	for _, bad := range []string{"", "..", "../a.xml", "/etc/passwd", "a/../../b.xml", "a\x00.xml"} {
		assert.ErrorIs(t, core.CheckFilename(bad), core.ErrInvalidFilename, bad)
	}
}
