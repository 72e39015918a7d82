package listing

import (
	"strings"

	"agrimarket/internal/model"
)

// IsOrganic is a text heuristic: a listing counts as organic when its name or
// description mentions "organic". The backend stores no such field.
func IsOrganic(c model.Crop) bool {
	return strings.Contains(strings.ToLower(c.Name), "organic") ||
		strings.Contains(strings.ToLower(c.Description), "organic")
}

// Matches reports whether c satisfies every criterion. Criteria must be normalized.
func Matches(c model.Crop, cr Criteria) bool {
	if cr.Pinned() {
		return c.Farmer.ID != "" && c.Farmer.ID == cr.FarmerID
	}

	if cr.Query != "" {
		name := strings.ToLower(c.Name)
		farmer := strings.ToLower(c.FarmerDisplayName())
		if !strings.Contains(name, cr.Query) && !strings.Contains(farmer, cr.Query) {
			return false
		}
	}

	if cr.Category != "" && strings.ToLower(c.Category) != cr.Category {
		return false
	}

	if cr.Location != "" && cr.Location != All &&
		!strings.Contains(strings.ToLower(c.Location), cr.Location) {
		return false
	}

	if cr.Quality != "" && cr.Quality != All {
		q := strings.ToLower(c.Quality)
		if q == "" {
			q = defaultQuality
		}
		if q != cr.Quality {
			return false
		}
	}

	switch cr.Organic {
	case OrganicOnly:
		return IsOrganic(c)
	case Conventional:
		return !IsOrganic(c)
	}
	return true
}
