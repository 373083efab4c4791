package models

type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:256;not null"`
	Description string `json:"description" gorm:"type:text"`
	Slug        string `json:"slug" gorm:"size:64;uniqueIndex;not null"`
	Published
}

type CreateCategoryRequest struct {
	Title       string `json:"title" binding:"required,max=256"`
	Description string `json:"description"`
	Slug        string `json:"slug" binding:"required,max=64,slug"`
	IsPublished *bool  `json:"is_published"`
}
