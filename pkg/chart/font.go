package chart

import (
	"os"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"k8s.io/klog/v2"
)

// Hangul capable fonts looked up when no font is configured.
var fallbackFontPaths = []string{
	"/usr/share/fonts/truetype/nanum/NanumGothic.ttf",
	"/usr/share/fonts/nanum/NanumGothic.ttf",
	"/Library/Fonts/AppleGothic.ttf",
	"C:/Windows/Fonts/malgun.ttf",
}

// FontPath returns configured when set, otherwise the first well known Hangul font that
// exists on this host. It returns "" when none is found.
func FontPath(configured string) string {
	if configured != "" {
		return configured
	}
	for _, p := range fallbackFontPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFont parses the TrueType font chosen by FontPath. Without any font file it falls
// back to the go-chart default font, which has no Hangul glyphs.
func LoadFont(configured string) (*truetype.Font, error) {
	path := FontPath(configured)
	if path == "" {
		klog.Warningf("No Hangul font found, Korean labels may not render")
		return gochart.GetDefaultFont()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("Using font %s", path)
	return f, nil
}
