package epub

import "errors"

// Sentinel errors returned by the epub package.
var (
	// ErrNoRootFile indicates that container.xml does not declare a
	// package root via a rootfile full-path attribute.
	ErrNoRootFile = errors.New("epub: no root file declared in container.xml")

	// ErrNoManifest indicates the package document has no manifest
	// section, or a manifest with no entries. Text extraction cannot
	// proceed without one.
	ErrNoManifest = errors.New("epub: package has no valid manifest")

	// ErrNoSpine indicates the package document has no spine section,
	// so no reading order can be derived.
	ErrNoSpine = errors.New("epub: package has no spine")

	// ErrNotContained indicates a resolved path escapes the directory
	// it is required to stay inside. Paths come from untrusted archive
	// content, so this is always treated as hostile.
	ErrNotContained = errors.New("epub: path escapes containing directory")
)
