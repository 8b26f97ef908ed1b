package epub

// Package represents the parsed package (OPF) document.
type Package struct {
	Manifest      map[string]ManifestItem // id -> item, first declaration wins
	ManifestOrder []string                // manifest ids in document order
	Spine         []SpineItem

	meta             []metadataElement
	manifestChildren int // raw manifest child count, including items without ids
	hasManifest      bool
	hasSpine         bool
}

// ManifestItem represents an item in the manifest.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string
}

// SpineItem represents an item reference in the spine.
type SpineItem struct {
	IDRef string
}

// MetadataField is one emitted metadata key/value pair. The same key may
// appear more than once; repeated values stay as separate fields.
type MetadataField struct {
	Key   string
	Value string
}

// MetadataOptions controls the metadata extraction pass.
type MetadataOptions struct {
	// Calibre enables interpretation of calibre:* meta elements.
	Calibre bool
}
