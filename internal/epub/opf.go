package epub

import (
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"path/filepath"
	"strings"
)

// opfPackage represents the package (OPF) XML structure. Section
// children are captured with ",any" rather than by element name: the
// reading-order cross-reference keys off id/idref/href attributes, and
// real-world packages occasionally carry oddly named children.
type opfPackage struct {
	XMLName  xml.Name
	Metadata opfSection[metadataElement]
	Manifest opfSection[manifestItemXML]
	Spine    opfSection[itemrefXML]
}

// opfSection is one direct child section of the package element. A
// populated XMLName records that the section was present.
type opfSection[T any] struct {
	XMLName  xml.Name
	Children []T `xml:",any"`
}

func (s *opfSection[T]) seen() bool {
	return s.XMLName.Local != ""
}

// UnmarshalXML walks the direct children of the package element and
// decodes only the first metadata, manifest, and spine section; a
// repeated section name is skipped entirely, never merged into the
// first.
func (p *opfPackage) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.XMLName = start.Name
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var err error
			switch {
			case t.Name.Local == "metadata" && !p.Metadata.seen():
				err = d.DecodeElement(&p.Metadata, &t)
			case t.Name.Local == "manifest" && !p.Manifest.seen():
				err = d.DecodeElement(&p.Manifest, &t)
			case t.Name.Local == "spine" && !p.Spine.seen():
				err = d.DecodeElement(&p.Spine, &t)
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// metadataElement is one child of the metadata section, kept in document
// order. XMLName.Local carries the namespace-stripped tag name.
type metadataElement struct {
	XMLName  xml.Name
	Text     string `xml:",chardata"`
	Name     string `xml:"name,attr"`
	Property string `xml:"property,attr"`
	Content  string `xml:"content,attr"`
}

type manifestItemXML struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type itemrefXML struct {
	IDRef string `xml:"idref,attr"`
}

// ParsePackage parses a package document. The document is parsed exactly
// once; the metadata and spine passes both operate on the result.
func ParsePackage(data []byte) (*Package, error) {
	var pkg opfPackage
	if err := lenientDecoder(data).Decode(&pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package XML: %w", err)
	}

	p := &Package{
		Manifest:         make(map[string]ManifestItem),
		meta:             pkg.Metadata.Children,
		manifestChildren: len(pkg.Manifest.Children),
		hasManifest:      pkg.Manifest.seen(),
		hasSpine:         pkg.Spine.seen(),
	}

	for _, item := range pkg.Manifest.Children {
		if item.ID == "" {
			continue
		}
		// First declaration of an id wins; duplicates are not an error.
		if _, ok := p.Manifest[item.ID]; ok {
			continue
		}
		mi := ManifestItem{
			ID:        item.ID,
			Href:      item.Href,
			MediaType: item.MediaType,
		}
		if item.Properties != "" {
			mi.Properties = strings.Fields(item.Properties)
		}
		p.Manifest[item.ID] = mi
		p.ManifestOrder = append(p.ManifestOrder, item.ID)
	}

	for _, ref := range pkg.Spine.Children {
		p.Spine = append(p.Spine, SpineItem{IDRef: ref.IDRef})
	}

	return p, nil
}

// metadataKind enumerates the recognized metadata element kinds.
type metadataKind int

const (
	kindCreator metadataKind = iota
	kindPublisher
	kindContributor
	kindIdentifier
	kindDate
	kindDescription
	kindSubject
	kindLanguage
	kindTitle
	kindMeta
	kindUnknown
)

// metadataRules classify metadata elements by substring match on the
// namespace-stripped tag name. Order matters: the first matching rule
// wins. Only direct children of the metadata section are classified.
var metadataRules = []struct {
	substr string
	kind   metadataKind
	key    string
}{
	{"creator", kindCreator, "Creator"},
	{"publisher", kindPublisher, "Publisher"},
	{"contributor", kindContributor, "Contributor"},
	{"identifier", kindIdentifier, "Identifier"},
	{"date", kindDate, "Date"},
	{"description", kindDescription, "Description"},
	{"subject", kindSubject, "Subject"},
	{"language", kindLanguage, "Language"},
	{"title", kindTitle, "Title"},
	{"meta", kindMeta, "Meta"},
}

func classifyMetadataTag(local string) (metadataKind, string) {
	for _, r := range metadataRules {
		if strings.Contains(local, r.substr) {
			return r.kind, r.key
		}
	}
	return kindUnknown, ""
}

// MetadataFields runs the metadata extraction pass. Fields are returned
// in document order, one per non-empty value; values are HTML-entity
// decoded. Absence of metadata is not an error: the result is empty.
func (p *Package) MetadataFields(opts MetadataOptions) []MetadataField {
	var fields []MetadataField

	for _, el := range p.meta {
		kind, key := classifyMetadataTag(el.XMLName.Local)

		if kind == kindMeta {
			if opts.Calibre {
				fields = append(fields, calibreFields(el)...)
			}
			continue
		}
		if kind == kindUnknown {
			continue
		}

		value := strings.TrimSpace(el.Text)
		if value == "" {
			continue
		}
		if kind == kindDate {
			// Year-only normalization: "2021-05-01" -> "2021".
			value, _, _ = strings.Cut(value, "-")
		}
		fields = append(fields, MetadataField{Key: key, Value: decodeEntities(value)})
	}

	return fields
}

// calibreFields interprets a meta element carrying Calibre extension
// metadata. Unrecognized names contribute nothing.
func calibreFields(el metadataElement) []MetadataField {
	name := el.Name
	if name == "" {
		name = el.Property
	}
	if name == "" || el.Content == "" {
		return nil
	}

	switch name {
	case "calibre:series":
		return []MetadataField{{Key: "Calibre series", Value: decodeEntities(el.Content)}}
	case "calibre:series_index":
		// Index is emitted without its fractional part: "3.0" -> "3".
		idx, _, _ := strings.Cut(el.Content, ".")
		return []MetadataField{{Key: "Calibre series index", Value: decodeEntities(idx)}}
	case "calibre:title_sort":
		return []MetadataField{{Key: "Calibre title sort", Value: decodeEntities(el.Content)}}
	}
	return nil
}

// decodeEntities converts remaining character references to text. The
// XML decoder already resolves well-formed entities; this catches values
// that arrive double-escaped (e.g. "&amp;mdash;").
func decodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return html.UnescapeString(s)
}

// SpinePaths runs the spine extraction pass: the ordered sequence of
// content document paths, relative to the package document's directory.
//
// A missing or empty manifest, or a missing spine, is fatal for text
// extraction and reported as ErrNoManifest / ErrNoSpine. A spine idref
// with no manifest match contributes nothing and raises no error.
func (p *Package) SpinePaths() ([]string, error) {
	if !p.hasManifest || p.manifestChildren == 0 {
		return nil, ErrNoManifest
	}
	if !p.hasSpine {
		return nil, ErrNoSpine
	}

	var paths []string
	for _, ref := range p.Spine {
		if ref.IDRef == "" {
			continue
		}
		item, ok := p.Manifest[ref.IDRef]
		if !ok || item.Href == "" {
			continue
		}
		href, err := url.PathUnescape(item.Href)
		if err != nil {
			// Malformed percent escapes pass through undecoded.
			href = item.Href
		}
		paths = append(paths, href)
	}
	return paths, nil
}

// DetectCover finds the cover image declared by the package, trying in
// order: a manifest item with the cover-image property (EPUB 3), the
// meta name="cover" item reference (EPUB 2), and finally an image item
// whose filename contains "cover". SVG is excluded.
func (p *Package) DetectCover() (ManifestItem, bool) {
	for _, id := range p.ManifestOrder {
		item := p.Manifest[id]
		for _, prop := range item.Properties {
			if strings.EqualFold(prop, "cover-image") {
				return item, true
			}
		}
	}

	for _, el := range p.meta {
		kind, _ := classifyMetadataTag(el.XMLName.Local)
		if kind != kindMeta || el.Name != "cover" || el.Content == "" {
			continue
		}
		if item, ok := p.Manifest[el.Content]; ok && isImageMediaType(item.MediaType) {
			return item, true
		}
	}

	for _, id := range p.ManifestOrder {
		item := p.Manifest[id]
		if !isImageMediaType(item.MediaType) {
			continue
		}
		base := strings.ToLower(filepath.Base(item.Href))
		if strings.Contains(base, "cover") {
			return item, true
		}
	}

	return ManifestItem{}, false
}

// isImageMediaType checks if a media type is a raster image (SVG excluded).
func isImageMediaType(mediaType string) bool {
	if mediaType == "image/svg+xml" {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
