package course

import "gorm.io/gorm"

const (
	CourseDraft    = "DRAFT"
	CourseActive   = "ACTIVE"
	CourseInactive = "INACTIVE"
)

// Course represents a learning course sold on the marketplace.
// Prices are in MZN; IsFree courses skip the payment review queue.
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	AuthorID     uint    `json:"author_id" gorm:"index;not null"`
	Price        float64 `json:"price" gorm:"default:0"`
	IsFree       bool    `json:"is_free" gorm:"default:false"`
	Status       string  `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL string  `json:"thumbnail_url"`
	IsDeleted    bool    `gorm:"default:false"`
}
