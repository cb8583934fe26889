package models

// Follow is a directed edge: FollowerID follows FollowedID.
// The composite primary key rules out duplicate edges.
type Follow struct {
	FollowedID uint  `json:"user_being_followed_id" gorm:"column:user_being_followed_id;primaryKey;autoIncrement:false"`
	FollowerID uint  `json:"user_following_id" gorm:"column:user_following_id;primaryKey;autoIncrement:false"`
	Followed   *User `json:"-" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
	Follower   *User `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
}
