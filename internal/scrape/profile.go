package scrape

import "regexp"

// Profile captures the marketplace-specific knobs the extractor needs.
// Listing pages are not uniformly structured, so everything here feeds a
// fallback chain rather than a single selector.
type Profile struct {
	// Brand is the marketplace brand token. A heading that is just the
	// brand is a known extraction failure and gets discarded; the token is
	// also stripped from resolved names and descriptions.
	Brand string

	// ImageHost is the host substring used by the <img> fallback scan.
	ImageHost string

	// ImagePattern matches CDN image URLs embedded in script payloads
	// (the marketplace hydrates its gallery client-side, so static markup
	// often carries no usable <img> tags).
	ImagePattern *regexp.Regexp

	// MinImageURLLen guards against truncated or placeholder matches:
	// URLs this short or shorter are dropped after query stripping.
	MinImageURLLen int

	// NamePlaceholder and DescriptionPlaceholder fill fields no strategy
	// could resolve.
	NamePlaceholder        string
	DescriptionPlaceholder string
}

// DefaultProfile returns the profile for the marketplace the shop imports
// from.
func DefaultProfile() Profile {
	return Profile{
		Brand:     "Yaga",
		ImageHost: "yaga.co.za",
		ImagePattern: regexp.MustCompile(
			`https://images\.yaga\.co\.za/[a-zA-Z0-9]+/[a-zA-Z0-9]+\.(jpeg|jpg)`),
		MinImageURLLen:         30,
		NamePlaceholder:        "Premium Device",
		DescriptionPlaceholder: "Premium quality hardware.",
	}
}
