package dto

import "github.com/yigit/freshman/internal/app/models"

// FreshmanQuery carries the secret used to bind on first access
type FreshmanQuery struct {
	Secret string `form:"secret" binding:"omitempty,max=72"`
}

// UpdateFreshmanRequest is the form body of PUT /freshman/:account.
// Contact is a JSON document sent as a string field.
type UpdateFreshmanRequest struct {
	Contact  *string `form:"contact" binding:"omitempty,json,max=4096"`
	Visible  *bool   `form:"visible"`
	LastSeen *bool   `form:"last_seen"`
}

// FreshmanProfileResponse is returned by GET /freshman/:account
type FreshmanProfileResponse struct {
	Me            models.FreshmanBasic `json:"me"`
	SameNameCount int64                `json:"sameNameCount"`
}

// RoommatesResponse lists students sharing the caller's room
type RoommatesResponse struct {
	Roommates []models.Mate `json:"roommates"`
}

// ClassmatesResponse lists students sharing the caller's class
type ClassmatesResponse struct {
	Classmates []models.Mate `json:"classmates"`
}

// FamiliarResponse lists visible students the caller might know
type FamiliarResponse struct {
	Fellows []models.Familiar `json:"fellows"`
}
