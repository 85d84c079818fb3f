package xmldoc

import (
	"github.com/clbanning/mxj/v2"
	"golang.org/x/net/html/charset"
)

func init() {
	mxj.XmlCharsetReader = charset.NewReaderLabel
}

// Parse converts a well-formed document into a nested map keyed by the root
// element name. Attributes appear as "-name" keys, text next to attributes
// or children as "#text", and repeated elements as lists.
func Parse(text string) (map[string]any, error) {
	if err := Validate(text); err != nil {
		return nil, err
	}
	m, err := mxj.NewMapXml([]byte(trimBOM(text)))
	if err != nil {
		return nil, &SyntaxError{Msg: err.Error()}
	}
	return m, nil
}
