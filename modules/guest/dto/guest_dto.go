package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddGuestRequest struct {
	ParentName string  `json:"parent_name"`
	ChildName  string  `json:"child_name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
}

type SubmitRSVPRequest struct {
	Email         string  `json:"email"`
	ParentName    string  `json:"parent_name"`
	ChildName     string  `json:"child_name"`
	Status        string  `json:"status"`
	ChildrenCount int     `json:"children_count"`
	ParentStays   bool    `json:"parent_stays"`
	Allergies     *string `json:"allergies"`
	Message       *string `json:"message"`
}

type RSVPAnswer struct {
	Status        string    `json:"status"`
	ChildrenCount int       `json:"children_count"`
	ParentStays   bool      `json:"parent_stays"`
	Allergies     *string   `json:"allergies,omitempty"`
	Message       *string   `json:"message,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type GuestResponse struct {
	ID         uuid.UUID   `json:"id"`
	ParentName string      `json:"parent_name"`
	ChildName  string      `json:"child_name"`
	Email      string      `json:"email"`
	Phone      *string     `json:"phone,omitempty"`
	Registered bool        `json:"registered"`
	RSVP       *RSVPAnswer `json:"rsvp,omitempty"`
}

type RSVPSummary struct {
	Invited        int `json:"invited"`
	Yes            int `json:"yes"`
	No             int `json:"no"`
	Maybe          int `json:"maybe"`
	Pending        int `json:"pending"`
	ChildrenComing int `json:"children_coming"`
	ParentsStaying int `json:"parents_staying"`
}

type RSVPListResponse struct {
	Guests  []GuestResponse `json:"guests"`
	Summary RSVPSummary     `json:"summary"`
}

// InvitationResponse is what an invited family sees. It carries no host data.
type InvitationResponse struct {
	ChildName           string     `json:"child_name"`
	ChildAge            int        `json:"child_age"`
	EventDatetime       time.Time  `json:"event_datetime"`
	EventEndDatetime    *time.Time `json:"event_end_datetime,omitempty"`
	Location            string     `json:"location"`
	Theme               *string    `json:"theme,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	TemplateID          string     `json:"template_id"`
	PhotoSharingEnabled bool       `json:"photo_sharing_enabled"`
}

type RSVPResponse struct {
	GuestID       uuid.UUID `json:"guest_id"`
	Status        string    `json:"status"`
	ChildrenCount int       `json:"children_count"`
}
