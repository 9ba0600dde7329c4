package models

// Category groups posts.
type Category struct {
	BaseModel

	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`

	Posts []Post `gorm:"foreignKey:CategoryID" json:"posts,omitempty"`
}
