package domain

import "time"

// Role is the fixed three-tier permission level
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Level returns the numeric rank of a role. Unknown roles rank as viewer.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleEditor:
		return 1
	default:
		return 0
	}
}

// User is a wiki account, created on first Discord login.
// Table: users
type User struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DiscordID string    `gorm:"column:discord_id;uniqueIndex;size:50;not null" json:"discord_id"`
	Username  string    `gorm:"column:username;size:100;not null" json:"username"`
	AvatarURL string    `gorm:"column:avatar_url;size:500" json:"avatar_url"`
	Role      Role      `gorm:"column:role;size:20;default:viewer" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastLogin time.Time `gorm:"column:last_login" json:"last_login"`
	IPAddress string    `gorm:"column:ip_address;size:45" json:"-"`
	UserAgent string    `gorm:"column:user_agent;size:500" json:"-"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// UserResponse is the API representation of a user
type UserResponse struct {
	ID        int64     `json:"id"`
	DiscordID string    `json:"discord_id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		DiscordID: u.DiscordID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}
