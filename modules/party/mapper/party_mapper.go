package mapper

import (
	"strings"

	"party-invites/modules/party/dto"
	"party-invites/modules/party/entity"
)

// RSVPURL is the public invitation page for a token.
func RSVPURL(publicURL, token string) string {
	return strings.TrimRight(publicURL, "/") + "/invite/" + token
}

func ToChildResponse(child entity.Child) dto.ChildResponse {
	return dto.ChildResponse{
		ID:        child.ID,
		Name:      child.Name,
		BirthDate: child.BirthDate.UTC().Format(dto.DateLayout),
	}
}

func ToChildResponses(children []entity.Child) []dto.ChildResponse {
	out := make([]dto.ChildResponse, 0, len(children))
	for _, c := range children {
		out = append(out, ToChildResponse(c))
	}
	return out
}

func ToPartyResponse(party *entity.PartyDetail, publicURL string, paidTemplateIDs []string) *dto.PartyResponse {
	return &dto.PartyResponse{
		ID:                  party.ID,
		ChildID:             party.ChildID,
		ChildName:           party.ChildName,
		EventDatetime:       party.EventDatetime,
		EventEndDatetime:    party.EventEndDatetime,
		Location:            party.Location,
		Theme:               party.Theme,
		Notes:               party.Notes,
		PublicRSVPToken:     party.PublicRSVPToken,
		RSVPURL:             RSVPURL(publicURL, party.PublicRSVPToken),
		TemplateID:          party.TemplateID,
		PaidTemplateIDs:     paidTemplateIDs,
		PhotoSharingEnabled: party.PhotoSharingEnabled,
		PhotoSharingPaid:    party.PhotoSharingPaid,
		CreatedAt:           party.CreatedAt,
	}
}

func ToPaginatedPartyResponse(page *entity.PaginatedPartyEntity, publicURL string) *dto.PaginatedPartyResponse {
	items := make([]dto.PartyResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *ToPartyResponse(&page.Items[i], publicURL, nil))
	}
	return &dto.PaginatedPartyResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(),
	}
}
