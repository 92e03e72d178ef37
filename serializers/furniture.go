package serializers

import (
	"time"

	"github.com/kendall-kelly/furniture-store-api/models"
)

// FurnitureContext carries the per-request data needed to render furniture:
// which items the caller likes, like counts, and how to turn a model key into a URL.
type FurnitureContext struct {
	Liked    map[uint]bool
	Counts   map[uint]int64
	ModelURL func(key string) string
}

// Furniture is a catalog item with its like state and model URL
type Furniture struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	Model3D     *string   `json:"model_3d"`
	Pic         string    `json:"pic"`
	Rating      float64   `json:"rating"`
	CategoryID  *uint     `json:"category_id"`
	Category    *Category `json:"category"`
	IsLiked     bool      `json:"is_liked"`
	LikesCount  int64     `json:"likes_count"`
}

// NewFurniture renders f using the caller-specific values in fc
func NewFurniture(f *models.Furniture, fc FurnitureContext) Furniture {
	out := Furniture{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Color:       f.Color,
		Price:       Money(f.Price),
		CreatedAt:   f.CreatedAt,
		Pic:         f.Pic,
		Rating:      f.Rating,
		CategoryID:  f.CategoryID,
		Category:    NewCategory(f.Category),
		IsLiked:     fc.Liked[f.ID],
		LikesCount:  fc.Counts[f.ID],
	}
	if f.Model3DKey != nil && *f.Model3DKey != "" && fc.ModelURL != nil {
		if url := fc.ModelURL(*f.Model3DKey); url != "" {
			out.Model3D = &url
		}
	}
	return out
}

// NewFurnitureList renders a list of furniture
func NewFurnitureList(items []models.Furniture, fc FurnitureContext) []Furniture {
	out := make([]Furniture, 0, len(items))
	for i := range items {
		out = append(out, NewFurniture(&items[i], fc))
	}
	return out
}
