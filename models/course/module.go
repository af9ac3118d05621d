package course

import "gorm.io/gorm"

// Module represents a section/module within a course. OrderIndex is
// contiguous starting at 1 within a course; modules unlock in that order.
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" gorm:"not null"`
	IsDeleted   bool   `gorm:"default:false"`
}

const (
	MaterialText     = "TEXT"
	MaterialVideo    = "VIDEO"
	MaterialDocument = "DOCUMENT"
	MaterialLink     = "LINK"
)

// Material is a leaf content item within a module. ContentType selects
// which of the content fields is meaningful.
type Material struct {
	gorm.Model
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	ContentType string `json:"content_type" gorm:"default:'TEXT'"` // TEXT, VIDEO, DOCUMENT, LINK
	TextContent string `json:"text_content" gorm:"type:text"`      // For TEXT type
	ContentURL  string `json:"content_url"`                        // For VIDEO, DOCUMENT, LINK types
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsDeleted   bool   `gorm:"default:false"`
}

// MaterialCompletion tracks a learner's completion of a material.
// At most one row per (enrollment, material); re-marking is a no-op.
type MaterialCompletion struct {
	gorm.Model
	EnrollmentID uint `json:"enrollment_id" gorm:"uniqueIndex:idx_completion_enrollment_material;not null"`
	MaterialID   uint `json:"material_id" gorm:"uniqueIndex:idx_completion_enrollment_material;not null"`
}
