package postgres

import "time"

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        string           `gorm:"type:varchar(36);primaryKey"`              // UUID in canonical text form
	Email     string           `gorm:"type:varchar(255);not null;uniqueIndex"`   // Unique email address
	Username  string           `gorm:"type:varchar(255);not null;uniqueIndex"`   // Unique login handle
	Name      string           `gorm:"type:varchar(255);not null"`               // Display name
	Location  string           `gorm:"type:varchar(3);not null;default:''"`      // ISO 3166-1 alpha-3, empty when unset
	IsBlocked bool             `gorm:"not null;default:false"`                   // Hides the profile from direct lookups
	CreatedAt time.Time        `gorm:"not null"`                                 // Set by GORM on insert
	Interests []InterestSchema `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Goals     []GoalSchema     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Twitsnaps []TwitsnapSchema `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// AdminSchema represents the database schema for the admins table.
type AdminSchema struct {
	ID    string `gorm:"type:varchar(36);primaryKey"`
	Email string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName specifies the table name for the AdminSchema model.
func (AdminSchema) TableName() string {
	return "admins"
}

// InterestSchema assigns one interest tag to a user.
type InterestSchema struct {
	UserID   string `gorm:"type:varchar(36);primaryKey"`
	Interest string `gorm:"type:varchar(20);primaryKey;check:interest IN ('sports','games','science','politics','engineering')"`
}

// TableName specifies the table name for the InterestSchema model.
func (InterestSchema) TableName() string {
	return "users_interests"
}

// GoalSchema stores one free-text goal of a user. Position keeps goals in
// the order they were added.
type GoalSchema struct {
	UserID   string `gorm:"type:varchar(36);primaryKey"`
	Goal     string `gorm:"type:varchar(255);primaryKey"`
	Position int    `gorm:"not null;default:0"`
}

// TableName specifies the table name for the GoalSchema model.
func (GoalSchema) TableName() string {
	return "users_goals"
}

// TwitsnapSchema references a piece of content owned by another service.
type TwitsnapSchema struct {
	UserID     string `gorm:"type:varchar(36);primaryKey"`
	TwitsnapID string `gorm:"type:varchar(36);primaryKey"`
}

// TableName specifies the table name for the TwitsnapSchema model.
func (TwitsnapSchema) TableName() string {
	return "users_twitsnaps"
}

// FollowSchema is a directed follow edge. Both directions of the graph are
// answered from this single table.
type FollowSchema struct {
	FollowerID string     `gorm:"type:varchar(36);primaryKey"`
	FollowedID string     `gorm:"type:varchar(36);primaryKey;index"`
	CreatedAt  time.Time  `gorm:"not null"`
	Follower   UserSchema `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followed   UserSchema `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the FollowSchema model.
func (FollowSchema) TableName() string {
	return "followers"
}
