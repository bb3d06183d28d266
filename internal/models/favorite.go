package models

import "time"

// Favorite is a user's bookmark of an outfit.
// The (UserID, OutfitID) pair is the primary key, so it can exist only once.
type Favorite struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	OutfitID  uint      `gorm:"primaryKey;autoIncrement:false;index" json:"outfit_id"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Outfit *Outfit `gorm:"foreignKey:OutfitID;constraint:OnDelete:CASCADE" json:"-"`
}
