package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := Default()
	if opts.BlockTag != "p" {
		t.Errorf("expected block tag p, got %q", opts.BlockTag)
	}
	if opts.EmptyPlaceholderText == "" {
		t.Error("default placeholder must not be empty")
	}
}

func TestNormalizeRejectsBadBlockTag(t *testing.T) {
	opts := Options{BlockTag: "section"}.Normalize()
	if opts.BlockTag != "p" {
		t.Errorf("invalid block tag must fall back to p, got %q", opts.BlockTag)
	}

	opts = Options{BlockTag: "div"}.Normalize()
	if opts.BlockTag != "div" {
		t.Errorf("div is valid, got %q", opts.BlockTag)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if opts.BlockTag != "p" {
		t.Errorf("expected defaults, got %+v", opts)
	}
}

func TestLoadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.toml")
	content := `
block_tag = "div"
section_class_names = ["story", "body"]
empty_placeholder_text = "Write..."

[heading_styles]
large = "font-size: 2em"
small = "font-size: 1.4em"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if opts.BlockTag != "div" {
		t.Errorf("expected div, got %q", opts.BlockTag)
	}
	if len(opts.SectionClassNames) != 2 || opts.SectionClassNames[0] != "story" {
		t.Errorf("unexpected class names %v", opts.SectionClassNames)
	}
	if opts.HeadingStyles.Large != "font-size: 2em" {
		t.Errorf("unexpected heading style %q", opts.HeadingStyles.Large)
	}
	if opts.EmptyPlaceholderText != "Write..." {
		t.Errorf("unexpected placeholder %q", opts.EmptyPlaceholderText)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.toml")
	if err := os.WriteFile(path, []byte("block_tag = ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("malformed file must fail")
	}
}
