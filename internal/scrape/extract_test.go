package scrape

import (
	"strings"
	"testing"
)

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultProfile())
}

func TestExtract_GalleryFromScriptPayloads(t *testing.T) {
	// Three CDN URLs in script content, duplicated and thumbnail-sized; no
	// usable <img> tags. The hydration-payload scan must win.
	html := `<html><head><title>Dell Latitude 7490 | Yaga</title></head><body>
	<h1>Dell Latitude 7490</h1>
	<script>
	var gallery = [
	  "https://images.yaga.co.za/abc123/def456.jpeg?s=600",
	  "https://images.yaga.co.za/abc123/ghi789.jpg?s=600",
	  "https://images.yaga.co.za/abc123/def456.jpeg"
	];
	</script>
	<script>preload("https://images.yaga.co.za/abc123/jkl012.jpeg?s=120");</script>
	<img src="/static/logo.png">
	</body></html>`

	candidate, err := newTestExtractor().Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []string{
		"https://images.yaga.co.za/abc123/def456.jpeg",
		"https://images.yaga.co.za/abc123/ghi789.jpg",
		"https://images.yaga.co.za/abc123/jkl012.jpeg",
	}
	if len(candidate.Images) != len(want) {
		t.Fatalf("got %d images %v, want %d", len(candidate.Images), candidate.Images, len(want))
	}
	for i, url := range want {
		if candidate.Images[i] != url {
			t.Errorf("images[%d] = %q, want %q", i, candidate.Images[i], url)
		}
	}
	if candidate.CoverImage != want[0] {
		t.Errorf("cover image = %q, want first gallery entry %q", candidate.CoverImage, want[0])
	}
}

func TestExtract_ImgTagFallback(t *testing.T) {
	// No script matches at all; the lazy-load attribute scan takes over.
	html := `<html><body>
	<h1>iPhone 12</h1>
	<img data-src="https://cdn.yaga.co.za/listings/aaaabbbbccccdddd.jpeg?s=320">
	<img src="https://cdn.yaga.co.za/listings/eeeeffffgggghhhh.jpeg">
	<img src="https://elsewhere.example.com/unrelated-image-0123456789.jpeg">
	</body></html>`

	candidate, err := newTestExtractor().Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []string{
		"https://cdn.yaga.co.za/listings/aaaabbbbccccdddd.jpeg",
		"https://cdn.yaga.co.za/listings/eeeeffffgggghhhh.jpeg",
	}
	if len(candidate.Images) != len(want) {
		t.Fatalf("got images %v, want %v", candidate.Images, want)
	}
	for i, url := range want {
		if candidate.Images[i] != url {
			t.Errorf("images[%d] = %q, want %q", i, candidate.Images[i], url)
		}
	}
}

func TestExtract_ImagesExcludeProfileAndAvatarAssets(t *testing.T) {
	html := `<html><body><script>
	"https://images.yaga.co.za/profile1/abcdefgh.jpeg"
	"https://images.yaga.co.za/abcd1234/avatarpic.jpeg"
	"https://images.yaga.co.za/abcd1234/realphoto.jpeg"
	</script></body></html>`

	candidate, err := newTestExtractor().Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(candidate.Images) != 1 || candidate.Images[0] != "https://images.yaga.co.za/abcd1234/realphoto.jpeg" {
		t.Errorf("got images %v, want only the real photo", candidate.Images)
	}
}

func TestExtract_NameFallbacks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "heading wins",
			html: `<html><head><title>Something Else | Yaga</title></head><body><h1>MacBook Air M1</h1></body></html>`,
			want: "MacBook Air M1",
		},
		{
			name: "brand-only heading falls through to title tag",
			html: `<html><head><title>ThinkPad X1 Carbon | Yaga</title></head><body><h1>Yaga</h1></body></html>`,
			want: "ThinkPad X1 Carbon",
		},
		{
			name: "og title when no heading",
			html: `<html><head><meta property="og:title" content="Buy HP EliteBook on Yaga"></head><body></body></html>`,
			want: "HP EliteBook",
		},
		{
			name: "marketplace tokens stripped",
			html: `<html><body><h1>Buy AirPods Pro on Yaga</h1></body></html>`,
			want: "AirPods Pro",
		},
		{
			name: "placeholder when nothing resolves",
			html: `<html><body><p>nothing here</p></body></html>`,
			want: "Premium Device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate, err := newTestExtractor().Extract(tt.html)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if candidate.Name != tt.want {
				t.Errorf("name = %q, want %q", candidate.Name, tt.want)
			}
			for _, token := range []string{"buy", "on yaga"} {
				if strings.Contains(strings.ToLower(candidate.Name), token) {
					t.Errorf("name %q still contains %q", candidate.Name, token)
				}
			}
		})
	}
}

func TestExtract_Description(t *testing.T) {
	html := `<html><head>
	<meta property="og:description" content="Barely used, boxed. Available on Yaga for collection.">
	</head><body></body></html>`

	candidate, err := newTestExtractor().Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if candidate.Description != "Barely used, boxed. Available" {
		t.Errorf("description = %q, want brand suffix truncated", candidate.Description)
	}

	candidate, err = newTestExtractor().Extract(`<html><body></body></html>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if candidate.Description != "Premium quality hardware." {
		t.Errorf("description = %q, want placeholder", candidate.Description)
	}
}

func TestExtract_RawPrice(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "structured price meta preferred",
			html: `<html><head><meta property="product:price:amount" content="5000"></head>
			<body><span class="price-display">R 9,999</span></body></html>`,
			want: "5000",
		},
		{
			name: "price-class element fallback",
			html: `<html><body><span class="listing-price-big">R 5,000</span></body></html>`,
			want: "R 5,000",
		},
		{
			name: "zero sentinel when absent",
			html: `<html><body><p>no price anywhere</p></body></html>`,
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate, err := newTestExtractor().Extract(tt.html)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if candidate.RawPriceText != tt.want {
				t.Errorf("raw price = %q, want %q", candidate.RawPriceText, tt.want)
			}
		})
	}
}

func TestExtract_CoverImageFallsBackToOGImage(t *testing.T) {
	html := `<html><head>
	<meta property="og:image" content="https://images.yaga.co.za/xyz/cover.jpeg">
	</head><body></body></html>`

	candidate, err := newTestExtractor().Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(candidate.Images) != 0 {
		t.Errorf("expected no gallery images, got %v", candidate.Images)
	}
	if candidate.CoverImage != "https://images.yaga.co.za/xyz/cover.jpeg" {
		t.Errorf("cover image = %q, want og:image", candidate.CoverImage)
	}
}
