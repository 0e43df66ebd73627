package models

import (
	"gorm.io/gorm/clause"

	"server/db"
)

// Follow records that one user (the follower) subscribed to another (the followee).
// The composite unique index makes concurrent duplicate follows collapse to one row.
type Follow struct {
	ID         uint64 `gorm:"primaryKey"`
	CreatedAt  int64
	FollowerID uint64 `gorm:"index:uniq_follow_pair,unique;not null"`
	Follower   User   `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FolloweeID uint64 `gorm:"index:uniq_follow_pair,unique;index:follow_followee;not null"`
	Followee   User   `gorm:"foreignKey:FolloweeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// FollowCreate is idempotent: a second follow of the same pair is a no-op.
func FollowCreate(followerID, followeeID uint64) error {
	f := Follow{FollowerID: followerID, FolloweeID: followeeID}
	return db.Instance.Clauses(clause.OnConflict{DoNothing: true}).Create(&f).Error
}

func FollowDelete(followerID, followeeID uint64) error {
	return db.Instance.
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&Follow{}).Error
}

func IsFollowing(followerID, followeeID uint64) bool {
	var cnt int64
	if db.Instance.Model(&Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&cnt).Error != nil {
		return false
	}
	return cnt > 0
}

// FollowerCount returns how many users follow the given one.
func FollowerCount(userID uint64) (cnt int64) {
	db.Instance.Model(&Follow{}).Where("followee_id = ?", userID).Count(&cnt)
	return
}

// FollowingCount returns how many users the given one follows.
func FollowingCount(userID uint64) (cnt int64) {
	db.Instance.Model(&Follow{}).Where("follower_id = ?", userID).Count(&cnt)
	return
}

func FolloweeIDs(followerID uint64) (ids []uint64, err error) {
	err = db.Instance.Model(&Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followee_id", &ids).Error
	return
}
