// Package iconcheck compares the MIME types icons declare with the content of
// the files they point to.
package iconcheck

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nightconcept/capctl/internal/core/capability"
)

// Mismatch describes an icon whose file does not match its declared type, or
// could not be read.
type Mismatch struct {
	Href     string
	Declared string
	Detected string
	Err      error
}

func (m Mismatch) String() string {
	if m.Err != nil {
		return fmt.Sprintf("%s: %v", m.Href, m.Err)
	}
	return fmt.Sprintf("%s: declared %s, detected %s", m.Href, m.Declared, m.Detected)
}

// localPath maps an icon href to a file. Remote hrefs yield false.
func localPath(baseDir, href string) (string, bool) {
	if u, err := url.Parse(href); err == nil && len(u.Scheme) > 1 {
		if u.Scheme != "file" {
			return "", false
		}
		href = u.Path
	}
	if filepath.IsAbs(href) {
		return href, true
	}
	return filepath.Join(baseDir, filepath.FromSlash(href)), true
}

// Verify sniffs every local icon file, resolving relative hrefs against
// baseDir. Icons without a location or declared type and remote icons are
// skipped.
func Verify(baseDir string, icons []capability.Icon) []Mismatch {
	var mismatches []Mismatch
	for _, icon := range icons {
		if icon.Href == "" || icon.MimeType == "" {
			continue
		}
		path, ok := localPath(baseDir, icon.Href)
		if !ok {
			continue
		}
		mt, err := mimetype.DetectFile(path)
		if err != nil {
			mismatches = append(mismatches, Mismatch{Href: icon.Href, Declared: icon.MimeType, Err: fmt.Errorf("failed to inspect icon: %w", err)})
			continue
		}
		if !mt.Is(strings.ToLower(icon.MimeType)) {
			mismatches = append(mismatches, Mismatch{Href: icon.Href, Declared: icon.MimeType, Detected: mt.String()})
		}
	}
	return mismatches
}

// VerifyList runs Verify over the icons of every capability in l.
func VerifyList(baseDir string, l *capability.List) []Mismatch {
	var icons []capability.Icon
	for _, c := range l.Entries {
		if f := capability.IconsOf(c); f != nil {
			icons = append(icons, f.Icons...)
		}
	}
	return Verify(baseDir, icons)
}
