// Package extract drives the EPUB text-extraction pipeline: unpack the
// archive, locate the package document, and render every spine item in
// reading order with strict path containment throughout.
package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/epubtext/epubtext/internal/epub"
	"github.com/epubtext/epubtext/internal/render"
)

// containerPath is the fixed location of the container descriptor
// inside an EPUB archive.
const containerPath = "META-INF/container.xml"

// Options is the immutable configuration for one run.
type Options struct {
	Meta      bool   // emit metadata before the text
	NoText    bool   // suppress text output
	Calibre   bool   // recognize Calibre metadata extensions
	Separator string // printed before each spine item's text, if non-empty
	Width     int    // output line width, 0 disables reflow
	CoverPath string // write the cover image here, if non-empty
}

// Pipeline processes EPUB files one at a time. Processing is strictly
// sequential: spine items must be rendered in order to a shared output
// stream, and each input's temporary directory is removed before the
// next input starts.
type Pipeline struct {
	opts      Options
	out       io.Writer
	extractor Extractor
}

// NewPipeline creates a pipeline writing text to standard output and
// extracting archives with the system unzip binary.
func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{
		opts:      opts,
		out:       os.Stdout,
		extractor: unzipExtractor{},
	}
}

// Run processes one EPUB file end to end. Structural problems (archive
// does not extract, no container descriptor, no manifest) abort this
// input and are returned; problems with individual spine items are
// logged and the item skipped. The temporary extraction directory is
// removed on every exit path.
func (p *Pipeline) Run(file string) error {
	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("file not found or not readable: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not an EPUB file", file)
	}

	wd, err := NewWorkdir()
	if err != nil {
		return err
	}
	defer func() {
		if err := wd.Remove(); err != nil {
			logrus.Warnf("failed to remove temporary directory: %v", err)
		}
	}()

	logrus.Debugf("extracting %s into %s", file, wd.Path())
	if err := p.extractor.Extract(file, wd.Path()); err != nil {
		return err
	}
	if err := wd.RestrictPermissions(); err != nil {
		logrus.Warnf("failed to restrict permissions under %s: %v", wd.Path(), err)
	}

	containerData, err := os.ReadFile(filepath.Join(wd.Path(), containerPath))
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", containerPath, err)
	}
	rootRel, err := epub.LocateRootFile(containerData)
	if err != nil {
		return err
	}
	logrus.Debugf("package root file: %s", rootRel)

	opfPath, err := epub.ResolveUnder(wd.Path(), rootRel)
	if err != nil {
		return fmt.Errorf("bad package root file %q: %w", rootRel, err)
	}

	opfData, err := os.ReadFile(opfPath)
	if err != nil {
		return fmt.Errorf("cannot read package document: %w", err)
	}
	pkg, err := epub.ParsePackage(opfData)
	if err != nil {
		return err
	}

	// Content documents resolve against the directory holding the
	// package document, not the extraction root.
	contentDir := filepath.Dir(opfPath)
	logrus.Debugf("content directory: %s", contentDir)

	r := render.New(p.out, render.Options{Width: p.opts.Width})

	if p.opts.Meta {
		p.emitMetadata(pkg, r)
	}
	if p.opts.CoverPath != "" {
		p.exportCover(pkg, contentDir)
	}
	if p.opts.NoText {
		return nil
	}

	paths, err := pkg.SpinePaths()
	if err != nil {
		return err
	}
	logrus.Debugf("spine has %d items", len(paths))

	for _, rel := range paths {
		abs, err := epub.ResolveUnder(contentDir, rel)
		if err != nil {
			logrus.Warnf("skipping spine item %q: %v", rel, err)
			continue
		}
		if p.opts.Separator != "" {
			if _, err := fmt.Fprintln(p.out, p.opts.Separator); err != nil {
				return fmt.Errorf("write failed: %w", err)
			}
		}
		if err := r.RenderFile(abs); err != nil {
			logrus.Warnf("error rendering %q: %v", rel, err)
		}
	}

	return nil
}

// emitMetadata writes one "Key: value" line per metadata field. Errors
// here never prevent the text phase.
func (p *Pipeline) emitMetadata(pkg *epub.Package, r *render.Renderer) {
	fields := pkg.MetadataFields(epub.MetadataOptions{Calibre: p.opts.Calibre})
	for _, f := range fields {
		if err := r.WriteLine(f.Key + ": " + f.Value); err != nil {
			logrus.Warnf("error emitting metadata: %v", err)
			return
		}
	}
}

// exportCover detects the package's cover image and writes it to the
// configured path. Failures are logged, never fatal.
func (p *Pipeline) exportCover(pkg *epub.Package, contentDir string) {
	item, ok := pkg.DetectCover()
	if !ok {
		logrus.Warnf("no cover image declared in package")
		return
	}
	src, err := epub.ResolveUnder(contentDir, item.Href)
	if err != nil {
		logrus.Warnf("skipping cover image %q: %v", item.Href, err)
		return
	}
	if err := writeCover(src, p.opts.CoverPath); err != nil {
		logrus.Warnf("cover export failed: %v", err)
		return
	}
	logrus.Debugf("cover written to %s", p.opts.CoverPath)
}
