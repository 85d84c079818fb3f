// Package xmldoc checks XML well-formedness and converts documents into
// generic nested maps. No schema or DTD validation is performed.
package xmldoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// SyntaxError carries the parser message unchanged. Line is 1-based and
// zero when the failure has no position, such as an empty document.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string { return e.Msg }

// byteOrderMark may lead a UTF-8 document and is not character data.
const byteOrderMark = "\ufeff"

// Validate returns nil when text is a well-formed XML document with exactly
// one root element, otherwise a *SyntaxError.
func Validate(text string) error {
	dec := xml.NewDecoder(strings.NewReader(trimBOM(text)))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return syntaxError(err, dec)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					line, _ := dec.InputPos()
					return &SyntaxError{Line: line, Msg: "multiple root elements: <" + t.Name.Local + ">"}
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				line, _ := dec.InputPos()
				return &SyntaxError{Line: line, Msg: "non-whitespace character data outside root element"}
			}
		}
	}

	if roots == 0 {
		return &SyntaxError{Msg: "no root element"}
	}
	return nil
}

func syntaxError(err error, dec *xml.Decoder) *SyntaxError {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return &SyntaxError{Line: se.Line, Msg: se.Error()}
	}
	line, _ := dec.InputPos()
	return &SyntaxError{Line: line, Msg: err.Error()}
}

func trimBOM(text string) string {
	return strings.TrimPrefix(text, byteOrderMark)
}
