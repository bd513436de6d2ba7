package contract

import (
	"os"
	"path/filepath"
)

// DefaultBodyFamily is used when no candidate font file exists.
const DefaultBodyFamily = "Helvetica"

// FontCandidate names a font family, the face name it registers under and
// the file that provides it. Relative paths are looked up in static dirs.
type FontCandidate struct {
	Family   string
	FaceName string
	Path     string
}

var NormalFontCandidates = []FontCandidate{
	{"Sarabun", "Sarabun", "fonts/Sarabun/Sarabun-Regular.ttf"},
	{"Sarabun", "Sarabun", "fonts/Sarabun/SarabunNew-Regular.ttf"},
	{"Sarabun", "Sarabun", "/usr/share/fonts/truetype/sarabun/Sarabun-Regular.ttf"},
	{"DejaVuSans", "DejaVuSans", "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"},
	{"DejaVuSans", "DejaVuSans", "/usr/share/fonts/TTF/DejaVuSans.ttf"},
	{"Sarabun", "Sarabun", "C:/Windows/Fonts/THSarabunNew.ttf"},
	{"Tahoma", "Tahoma", "C:/Windows/Fonts/Tahoma.ttf"},
	{"LeelawUI", "LeelawUI", "C:/Windows/Fonts/LeelawUI.ttf"},
}

var BoldFontCandidates = []FontCandidate{
	{"Sarabun", "Sarabun-Bold", "fonts/Sarabun/Sarabun-Bold.ttf"},
	{"Sarabun", "Sarabun-Bold", "fonts/Sarabun/SarabunNew-Bold.ttf"},
	{"Sarabun", "Sarabun-Bold", "/usr/share/fonts/truetype/sarabun/Sarabun-Bold.ttf"},
	{"DejaVuSans", "DejaVuSans-Bold", "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"},
	{"DejaVuSans", "DejaVuSans-Bold", "/usr/share/fonts/TTF/DejaVuSans-Bold.ttf"},
	{"Sarabun", "Sarabun-Bold", "C:/Windows/Fonts/THSarabunNew Bold.ttf"},
	{"Tahoma", "Tahoma-Bold", "C:/Windows/Fonts/TahomaBD.TTF"},
	{"LeelawUI", "LeelawUI-Bold", "C:/Windows/Fonts/LeelawUIb.ttf"},
}

// FontFinder turns a candidate path into an existing file path.
type FontFinder interface {
	Find(path string) (string, bool)
}

// StaticFinder checks absolute paths directly and relative paths against
// each directory in order.
type StaticFinder struct {
	Dirs []string
}

func (f StaticFinder) Find(path string) (string, bool) {
	if isAbsolute(path) {
		return path, fileExists(path)
	}

	for _, dir := range f.Dirs {
		candidate := filepath.Join(dir, filepath.FromSlash(path))
		if !fileExists(candidate) {
			continue
		}
		if abs, err := filepath.Abs(candidate); err == nil {
			return abs, true
		}
		return candidate, true
	}
	return "", false
}

// isAbsolute also accepts Windows drive paths on any OS.
func isAbsolute(path string) bool {
	if filepath.IsAbs(path) {
		return true
	}
	return len(path) > 2 && path[1] == ':' && (path[2] == '/' || path[2] == '\\')
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ResolvedFont is a candidate whose file was found. The zero value means none.
type ResolvedFont struct {
	Family   string
	FaceName string
	Path     string
}

func (r ResolvedFont) Found() bool {
	return r.Path != ""
}

// ResolveFont returns the first candidate whose file exists. Candidates of
// the preferred family are tried before all others.
func ResolveFont(candidates []FontCandidate, preferredFamily string, finder FontFinder) (ResolvedFont, bool) {
	ordered := candidates
	if preferredFamily != "" {
		ordered = make([]FontCandidate, 0, len(candidates))
		for _, c := range candidates {
			if c.Family == preferredFamily {
				ordered = append(ordered, c)
			}
		}
		for _, c := range candidates {
			if c.Family != preferredFamily {
				ordered = append(ordered, c)
			}
		}
	}

	for _, c := range ordered {
		if path, ok := finder.Find(c.Path); ok {
			return ResolvedFont{Family: c.Family, FaceName: c.FaceName, Path: path}, true
		}
	}
	return ResolvedFont{}, false
}

// FontSet is the outcome of resolving both weights.
type FontSet struct {
	BodyFamily string
	Regular    ResolvedFont
	Bold       ResolvedFont
}

// ResolveFontSet resolves the regular face, then the bold face preferring
// the regular family. Without a bold file the bold face reuses the regular
// file under a synthesized "<face>-Bold" name.
func ResolveFontSet(normal, bold []FontCandidate, finder FontFinder) FontSet {
	regular, _ := ResolveFont(normal, "", finder)
	boldFont, _ := ResolveFont(bold, regular.Family, finder)

	family := regular.Family
	if family == "" {
		family = boldFont.Family
	}

	if boldFont.FaceName == "" && regular.FaceName != "" {
		boldFont.FaceName = regular.FaceName + "-Bold"
		boldFont.Family = regular.Family
	}
	if boldFont.Path == "" {
		boldFont.Path = regular.Path
	}

	if family == "" {
		family = DefaultBodyFamily
	}

	return FontSet{BodyFamily: family, Regular: regular, Bold: boldFont}
}
