package extract

import (
	"bytes"
	"fmt"
	"os/exec"
)

// Extractor unpacks an archive into a destination directory. A non-nil
// error is fatal for the input being processed.
type Extractor interface {
	Extract(archive, dest string) error
}

// unzipExtractor shells out to the system unzip binary. EPUB containers
// are ZIP archives; decompression is delegated rather than reimplemented.
type unzipExtractor struct{}

func (unzipExtractor) Extract(archive, dest string) error {
	cmd := exec.Command("unzip", "-o", "-qq", archive, "-d", dest)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := string(bytes.TrimSpace(out))
		if msg != "" {
			return fmt.Errorf("unzip failed for %s: %w: %s", archive, err, msg)
		}
		return fmt.Errorf("unzip failed for %s: %w", archive, err)
	}
	return nil
}
