package models

import "time"

// Category groups outfits. Names are unique.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null;uniqueIndex:idx_categories_name" json:"name"`
}

// Item is a single clothing piece. Items are owned by exactly one outfit and
// are only created through outfit create/update.
type Item struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"size:255;not null" json:"name"`
	Brand *string `gorm:"size:255" json:"brand"`
	Model *string `gorm:"size:255" json:"model"`
}

// Outfit is a curated look in exactly one category.
type Outfit struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	ImageURL    *string   `gorm:"size:1024" json:"image_url"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Items       []Item    `gorm:"many2many:outfit_items;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// OutfitItem is one row of the outfit_items association table.
type OutfitItem struct {
	OutfitID uint `gorm:"primaryKey;autoIncrement:false"`
	ItemID   uint `gorm:"primaryKey;autoIncrement:false"`
}

// TableName returns the association table shared with Outfit.Items.
func (OutfitItem) TableName() string {
	return "outfit_items"
}

// ItemInput describes an item to materialize for an outfit.
type ItemInput struct {
	Name  string  `json:"name"`
	Brand *string `json:"brand"`
	Model *string `json:"model"`
}
