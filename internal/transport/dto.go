package transport

import "github.com/Skotchmaster/skz_roster/internal/models"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RegisterResponse struct {
	Message string          `json:"message"`
	User    models.UserView `json:"user"`
}

type LoginResponse struct {
	Message      string          `json:"message"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         models.UserView `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// UpdateUserRequest fields left nil or empty are not changed.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type MemberRequest struct {
	StageName *string `json:"stageName"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Birthday  *string `json:"birthday"`
	Skzoo     *string `json:"skzoo"`
}

type PetRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Birthday *string `json:"birthday"`
	Owner    *uint   `json:"owner"`
}

// NameRequest is the body for positions and sub-units.
type NameRequest struct {
	Name *string `json:"name"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PositionMembersResponse struct {
	PositionID uint   `json:"positionId"`
	MemberIDs  []uint `json:"memberIds"`
}

type SubUnitMembersResponse struct {
	SubUnitID uint   `json:"subUnitId"`
	MemberIDs []uint `json:"memberIds"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
