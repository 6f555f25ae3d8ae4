package feed

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// zipSignature is the ZIP local-file-header magic (PK\x03\x04).
var zipSignature = []byte{0x50, 0x4B, 0x03, 0x04}

// DecodeError reports a container that could not be turned into an XML
// document: a ZIP without an .xml entry, a corrupted archive, or a payload
// that is not XML at all (typically an HTML error page).
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decoding container: " + e.Reason
}

// Decode extracts the XML payload from a raw export file. The supplier names
// files ".gz" but serves raw ZIP containers, so the bytes are sniffed instead
// of trusting the extension.
func Decode(data []byte) (string, error) {
	var text string
	if bytes.HasPrefix(data, zipSignature) {
		extracted, err := extractFromZip(data)
		if err != nil {
			return "", err
		}
		text = extracted
	} else {
		text = string(data)
	}

	if !looksLikeXML(text) {
		return "", &DecodeError{Reason: "payload has neither an XML declaration nor a Root element"}
	}
	return text, nil
}

func extractFromZip(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &DecodeError{Reason: fmt.Sprintf("opening zip: %v", err)}
	}

	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", &DecodeError{Reason: fmt.Sprintf("opening zip entry %s: %v", f.Name, err)}
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", &DecodeError{Reason: fmt.Sprintf("reading zip entry %s: %v", f.Name, err)}
		}
		return string(content), nil
	}
	return "", &DecodeError{Reason: "zip contains no .xml entry"}
}

func looksLikeXML(text string) bool {
	return strings.Contains(text, "<?xml") || strings.Contains(text, "<Root>")
}
