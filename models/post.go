package models

import (
	"time"

	"server/db"
)

type Post struct {
	ID uint64 `gorm:"primaryKey"`
	// Set once at creation and never updated, even through the edit path.
	PublishedAt int64 `gorm:"index:post_order,priority:1;not null"`
	UpdatedAt   int64
	UserID      uint64 `gorm:"index:post_author;not null"`
	User        User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GroupID     *uint64
	Group       *Group `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Text        string `gorm:"type:text"`
	ImagePath   string `gorm:"type:varchar(300)"`
	ThumbPath   string `gorm:"type:varchar(300)"`
}

func PostCreate(userID uint64, text string, groupID *uint64, imagePath, thumbPath string) (p Post, err error) {
	p.PublishedAt = time.Now().Unix()
	p.UserID = userID
	p.GroupID = groupID
	p.Text = text
	p.ImagePath = imagePath
	p.ThumbPath = thumbPath
	return p, db.Instance.Create(&p).Error
}

func PostByID(id uint64) (p Post, err error) {
	err = db.Instance.Preload("User").Preload("Group").First(&p, id).Error
	return
}
