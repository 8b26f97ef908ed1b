package epub

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// container.xml structure. Field tags match local element names, so the
// parse is namespace-agnostic regardless of prefix.
type containerXML struct {
	Rootfiles struct {
		Rootfile []struct {
			// A pointer distinguishes an absent attribute from one
			// declared with an empty value.
			FullPath  *string `xml:"full-path,attr"`
			MediaType string  `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

// LocateRootFile parses a META-INF/container.xml document and returns the
// relative path of the package root file. The first rootfile element
// carrying a full-path attribute wins, even when the attribute's value is
// empty. The returned path is untrusted and must be resolved through
// ResolveUnder before use.
func LocateRootFile(data []byte) (string, error) {
	var c containerXML
	if err := lenientDecoder(data).Decode(&c); err != nil {
		return "", fmt.Errorf("failed to parse container.xml: %w", err)
	}

	for _, rf := range c.Rootfiles.Rootfile {
		if rf.FullPath != nil {
			return *rf.FullPath, nil
		}
	}

	return "", ErrNoRootFile
}

// lenientDecoder builds an XML decoder that tolerates the HTML named
// entities and loose markup seen in real-world EPUB files. encoding/xml
// in strict mode rejects entities like &mdash; outright.
func lenientDecoder(data []byte) *xml.Decoder {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = false
	d.Entity = xml.HTMLEntity
	return d
}
