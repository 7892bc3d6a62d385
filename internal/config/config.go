package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// HeadingStyles holds the inline styles applied to heading sections.
type HeadingStyles struct {
	Large string `toml:"large"`
	Small string `toml:"small"`
}

// Options configures one editor instance.
type Options struct {
	// BlockTag is the tag used for plain text sections: "p" or "div".
	BlockTag string `toml:"block_tag"`

	// SectionClassNames are applied to every text section.
	SectionClassNames []string `toml:"section_class_names"`

	// SectionStyle is an inline style applied to every text section.
	SectionStyle string `toml:"section_style"`

	// ContainerClassNames are applied to every container section.
	ContainerClassNames []string `toml:"container_class_names"`

	// ContainerStyle is an inline style applied to every container section.
	ContainerStyle string `toml:"container_style"`

	// HeadingStyles are the inline styles for large and small headings.
	HeadingStyles HeadingStyles `toml:"heading_styles"`

	// ImageClassNames are applied to embedded images.
	ImageClassNames []string `toml:"image_class_names"`

	// ImageStyle is an inline style applied to embedded images.
	ImageStyle string `toml:"image_style"`

	// EmptyPlaceholderText is shown while the document is a single empty
	// section.
	EmptyPlaceholderText string `toml:"empty_placeholder_text"`
}

// Default returns the built-in options.
func Default() Options {
	return Options{
		BlockTag:             "p",
		EmptyPlaceholderText: "Tell your story...",
	}
}

// Normalize corrects invalid option values to their defaults.
func (o Options) Normalize() Options {
	if o.BlockTag != "p" && o.BlockTag != "div" {
		o.BlockTag = "p"
	}
	return o
}

// Load reads options from a TOML file, merged over the defaults. A
// missing file is not an error; the defaults are returned.
func Load(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("reading options file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &opts); err != nil {
		return Default(), fmt.Errorf("parsing options file %s: %w", path, err)
	}
	return opts.Normalize(), nil
}
