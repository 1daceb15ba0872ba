package config

// CarveOptions holds the carving options for a single image. A nil
// ScanUnicode means "not specified" so that per-image overrides can
// distinguish "disabled" from "absent".
type CarveOptions struct {
	// ChunkSize is the read size per iteration in bytes.
	ChunkSize int `yaml:"chunk_size,omitempty"`

	// Overlap is the byte overlap between consecutive chunks.
	Overlap int `yaml:"overlap,omitempty"`

	// MinLength is the minimum printable run length for carving.
	MinLength int `yaml:"min_length,omitempty"`

	// ScanUnicode also carves UTF-16LE strings. Nil means unspecified.
	ScanUnicode *bool `yaml:"scan_unicode,omitempty"`
}

// File represents the structure of the .steamcarve configuration file.
type File struct {
	// Images maps image paths (or base names) to per-image overrides.
	Images map[string]CarveOptions `yaml:"images,omitempty"`

	// Defaults contains carving options applied to all images unless
	// overridden per image.
	Defaults CarveOptions `yaml:"defaults,omitempty"`
}

// Merge applies the file's defaults and the per-image overrides for the
// given image path on top of base, returning the effective options.
// Zero values in the file leave the corresponding base value untouched.
func (f *File) Merge(image string, base CarveOptions) CarveOptions {
	result := base
	apply := func(o CarveOptions) {
		if o.ChunkSize > 0 {
			result.ChunkSize = o.ChunkSize
		}
		if o.Overlap > 0 {
			result.Overlap = o.Overlap
		}
		if o.MinLength > 0 {
			result.MinLength = o.MinLength
		}
		if o.ScanUnicode != nil {
			result.ScanUnicode = o.ScanUnicode
		}
	}

	apply(f.Defaults)
	if o, ok := f.Images[image]; ok {
		apply(o)
	}
	return result
}
