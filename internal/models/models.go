package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null"                 json:"role"`
	CreatedAt    time.Time `gorm:"not null"                 json:"createdAt"`
}

// UserView is the safe representation of a User; it never carries the hash.
type UserView struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type Member struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	StageName string `gorm:"index"                    json:"stageName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Birthday  string `json:"birthday"`
	Skzoo     string `json:"skzoo"`
}

type Pet struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Birthday string `json:"birthday"`
	OwnerID  *uint  `gorm:"index"                    json:"owner"`
}

type Position struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null"                 json:"name"`
}

type SubUnit struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null"                 json:"name"`
}

type MemberPosition struct {
	MemberID   uint `gorm:"primaryKey;autoIncrement:false" json:"memberId"`
	PositionID uint `gorm:"primaryKey;autoIncrement:false" json:"positionId"`
}

type MemberSubUnit struct {
	MemberID  uint `gorm:"primaryKey;autoIncrement:false" json:"memberId"`
	SubUnitID uint `gorm:"primaryKey;autoIncrement:false" json:"subUnitId"`
}

func All() []any {
	return []any{
		&User{},
		&Member{},
		&Pet{},
		&Position{},
		&SubUnit{},
		&MemberPosition{},
		&MemberSubUnit{},
	}
}
