package listing

import (
	"net/url"
	"strings"

	"agrimarket/internal/model"
)

var staticImages = map[string]string{
	"organic tomatoes": "organicTomato.jpg",
	"basmati rice":     "basmatiRice.jpg",
	"fresh carrots":    "freshCarrots.jpg",
	"green peas":       "greenPeas.jpg",
	"fresh potatoes":   "freshPotatoes.jpg",
	"whole wheat":      "wholeWheat.jpg",
}

const placeholderBase = "https://placehold.co/300x200/a3e635/4d7c0f?text="

// ImageURL resolves the card image: uploaded image, bundled asset, placeholder.
func ImageURL(c model.Crop) string {
	if c.Image != "" {
		return c.Image
	}
	if f, ok := staticImages[strings.ToLower(c.Name)]; ok {
		return "/assets/img/" + f
	}
	return placeholderBase + strings.ReplaceAll(url.QueryEscape(c.Name), "+", "%20")
}
