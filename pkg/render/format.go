package render

import "strings"

// Format is an output image format
type Format int

const (
	SVG Format = iota
	PNG
)

// ParseFormat maps "svg"/"png" (any case, optional dot) to a Format; anything else is SVG
func ParseFormat(s string) Format {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "png":
		return PNG
	default:
		return SVG
	}
}

// ContentType returns the HTTP content type
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// String returns the format name, which is also its file extension
func (f Format) String() string {
	if f == PNG {
		return "png"
	}
	return "svg"
}
