package extract

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// coverMaxWidth bounds the exported cover image width. Larger sources
// are downscaled preserving aspect ratio.
const coverMaxWidth = 600

// writeCover decodes the cover image at src and saves it to dst. The
// output format follows dst's file extension.
func writeCover(src, dst string) error {
	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("cannot decode cover image %s: %w", src, err)
	}
	if img.Bounds().Dx() > coverMaxWidth {
		img = imaging.Resize(img, coverMaxWidth, 0, imaging.Lanczos)
	}
	if err := imaging.Save(img, dst); err != nil {
		return fmt.Errorf("cannot save cover image to %s: %w", dst, err)
	}
	return nil
}
