// Package config holds the editor options: block tag, class names,
// inline styles, heading styles, and placeholder text.
//
// Options come from three places, later sources overriding earlier ones:
// built-in defaults, an optional TOML options file, and values passed
// directly by the embedding application. A Watcher can monitor the
// options file and deliver reloaded options while the editor runs.
package config
