package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"party-invites/core/errors"
	"party-invites/core/logger"
	"party-invites/core/metrics"
	"party-invites/core/utils"
	"party-invites/modules/guest/dto"
	"party-invites/modules/guest/entity"
	"party-invites/modules/guest/repository"
	partyentity "party-invites/modules/party/entity"

	"github.com/google/uuid"
)

// PartyLookup resolves parties for host and public requests.
type PartyLookup interface {
	GetOwnedParty(ctx context.Context, userID, partyID uuid.UUID) (*partyentity.PartyDetail, *errors.AppError)
	GetPartyByToken(ctx context.Context, token string) (*partyentity.PartyDetail, *errors.AppError)
}

type RSVPNotifier interface {
	NotifyRSVPReceived(ctx context.Context, userID, partyID, guestID uuid.UUID, guestName, status string, childrenCount int) error
}

type GuestService struct {
	repo     repository.GuestRepositoryInterface
	parties  PartyLookup
	notifier RSVPNotifier
	now      func() time.Time
}

func NewGuestService(repo repository.GuestRepositoryInterface, parties PartyLookup, notifier RSVPNotifier) *GuestService {
	return &GuestService{repo: repo, parties: parties, notifier: notifier, now: time.Now}
}

func (s *GuestService) SetClock(now func() time.Time) {
	s.now = now
}

func normalizeEmail(raw string) (string, *errors.AppError) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errors.NewAppError(errors.ErrInvalidInput, "email is required", nil)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", errors.NewAppError(errors.ErrInvalidInput, "email is invalid", err)
	}
	return email, nil
}

func (s *GuestService) AddGuest(ctx context.Context, userID, partyID uuid.UUID, req *dto.AddGuestRequest) (*dto.GuestResponse, *errors.AppError) {
	if _, appErr := s.parties.GetOwnedParty(ctx, userID, partyID); appErr != nil {
		return nil, appErr
	}

	email, appErr := normalizeEmail(req.Email)
	if appErr != nil {
		return nil, appErr
	}

	linked, err := s.repo.FindUserIDByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up user", err)
	}

	guest := &entity.Guest{
		PartyID:    partyID,
		UserID:     linked,
		ParentName: strings.TrimSpace(req.ParentName),
		ChildName:  strings.TrimSpace(req.ChildName),
		Email:      email,
		Phone:      req.Phone,
	}
	guest.Touch(s.now())

	created, err := s.repo.CreateGuest(ctx, guest)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to add guest", err)
	}
	if !created {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "guest with this email is already invited", nil)
	}

	return &dto.GuestResponse{
		ID:         guest.ID,
		ParentName: guest.ParentName,
		ChildName:  guest.ChildName,
		Email:      guest.Email,
		Phone:      guest.Phone,
		Registered: guest.UserID != nil,
	}, nil
}

func toGuestResponse(g entity.GuestWithRSVP) dto.GuestResponse {
	resp := dto.GuestResponse{
		ID:         g.ID,
		ParentName: g.ParentName,
		ChildName:  g.ChildName,
		Email:      g.Email,
		Phone:      g.Phone,
		Registered: g.UserID != nil,
	}
	if g.RSVPStatus != nil {
		answer := &dto.RSVPAnswer{
			Status:    string(*g.RSVPStatus),
			Allergies: g.RSVPAllergies,
			Message:   g.RSVPMessage,
		}
		if g.RSVPChildrenCount != nil {
			answer.ChildrenCount = *g.RSVPChildrenCount
		}
		if g.RSVPParentStays != nil {
			answer.ParentStays = *g.RSVPParentStays
		}
		if g.RSVPUpdatedAt != nil {
			answer.UpdatedAt = *g.RSVPUpdatedAt
		}
		resp.RSVP = answer
	}
	return resp
}

func (s *GuestService) ListGuests(ctx context.Context, userID, partyID uuid.UUID) ([]dto.GuestResponse, *errors.AppError) {
	if _, appErr := s.parties.GetOwnedParty(ctx, userID, partyID); appErr != nil {
		return nil, appErr
	}

	rows, err := s.repo.ListGuests(ctx, partyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list guests", err)
	}

	guests := make([]dto.GuestResponse, 0, len(rows))
	for _, g := range rows {
		guests = append(guests, toGuestResponse(g))
	}
	return guests, nil
}

// ListRSVPs returns the guest list with answers and the headcount.
func (s *GuestService) ListRSVPs(ctx context.Context, userID, partyID uuid.UUID) (*dto.RSVPListResponse, *errors.AppError) {
	guests, appErr := s.ListGuests(ctx, userID, partyID)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.RSVPListResponse{Guests: guests, Summary: Summarize(guests)}, nil
}

// Summarize counts answers. Only YES answers contribute to the headcount.
func Summarize(guests []dto.GuestResponse) dto.RSVPSummary {
	summary := dto.RSVPSummary{Invited: len(guests)}
	for _, g := range guests {
		if g.RSVP == nil {
			summary.Pending++
			continue
		}
		switch entity.RSVPStatus(g.RSVP.Status) {
		case entity.RSVPYes:
			summary.Yes++
			summary.ChildrenComing += g.RSVP.ChildrenCount
			if g.RSVP.ParentStays {
				summary.ParentsStaying++
			}
		case entity.RSVPNo:
			summary.No++
		case entity.RSVPMaybe:
			summary.Maybe++
		}
	}
	return summary
}

func (s *GuestService) DeleteGuest(ctx context.Context, userID, partyID, guestID uuid.UUID) *errors.AppError {
	if _, appErr := s.parties.GetOwnedParty(ctx, userID, partyID); appErr != nil {
		return appErr
	}

	guest, err := s.repo.GetGuest(ctx, guestID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to get guest", err)
	}
	if guest == nil || guest.PartyID != partyID {
		return errors.NewAppError(errors.ErrNotFound, "guest not found", nil)
	}

	if err := s.repo.DeleteGuest(ctx, guestID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete guest", err)
	}
	return nil
}

func (s *GuestService) GetInvitation(ctx context.Context, token string) (*dto.InvitationResponse, *errors.AppError) {
	party, appErr := s.parties.GetPartyByToken(ctx, token)
	if appErr != nil {
		return nil, appErr
	}

	return &dto.InvitationResponse{
		ChildName:           party.ChildName,
		ChildAge:            utils.AgeOn(party.ChildBirthDate.UTC(), party.EventDatetime.UTC()),
		EventDatetime:       party.EventDatetime,
		EventEndDatetime:    party.EventEndDatetime,
		Location:            party.Location,
		Theme:               party.Theme,
		Notes:               party.Notes,
		TemplateID:          party.TemplateID,
		PhotoSharingEnabled: party.PhotoSharingEnabled,
	}, nil
}

func validateRSVP(req *dto.SubmitRSVPRequest) (entity.RSVPStatus, *errors.AppError) {
	status := entity.RSVPStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		return "", errors.NewAppError(errors.ErrInvalidInput, "status must be YES, NO or MAYBE", nil)
	}
	if req.ChildrenCount < 0 {
		return "", errors.NewAppError(errors.ErrInvalidInput, "children_count cannot be negative", nil)
	}
	return status, nil
}

// SubmitRSVP records a family's answer through the public token. The guest
// is matched by email, so a resubmission overwrites the earlier answer.
func (s *GuestService) SubmitRSVP(ctx context.Context, token string, req *dto.SubmitRSVPRequest) (*dto.RSVPResponse, *errors.AppError) {
	status, appErr := validateRSVP(req)
	if appErr != nil {
		return nil, appErr
	}
	email, appErr := normalizeEmail(req.Email)
	if appErr != nil {
		return nil, appErr
	}

	party, appErr := s.parties.GetPartyByToken(ctx, token)
	if appErr != nil {
		return nil, appErr
	}
	if !party.EventDatetime.After(s.now()) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "this party has already started", nil)
	}

	linked, err := s.repo.FindUserIDByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up user", err)
	}

	guest := &entity.Guest{
		PartyID:    party.ID,
		UserID:     linked,
		ParentName: strings.TrimSpace(req.ParentName),
		ChildName:  strings.TrimSpace(req.ChildName),
		Email:      email,
	}
	guest.Touch(s.now())

	guestID, err := s.repo.UpsertGuest(ctx, guest)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save guest", err)
	}

	childrenCount := req.ChildrenCount
	if status == entity.RSVPNo {
		childrenCount = 0
	}
	rsvp := &entity.RSVP{
		GuestID:       guestID,
		PartyID:       party.ID,
		Status:        status,
		ChildrenCount: childrenCount,
		ParentStays:   req.ParentStays && status != entity.RSVPNo,
		Allergies:     req.Allergies,
		Message:       req.Message,
	}
	rsvp.Touch(s.now())

	if err := s.repo.UpsertRSVP(ctx, rsvp); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save RSVP", err)
	}
	metrics.RSVPSubmissions.WithLabelValues(string(status)).Inc()

	guestName := guest.ParentName
	if guestName == "" {
		guestName = email
	}
	if err := s.notifier.NotifyRSVPReceived(ctx, party.UserID, party.ID, guestID, guestName, string(status), childrenCount); err != nil {
		logger.Warn("GuestService:SubmitRSVP:Notify:Error", "party_id", party.ID, "error", err)
	}

	logger.Info("GuestService:SubmitRSVP:Saved", "party_id", party.ID, "guest_id", guestID, "status", status)
	return &dto.RSVPResponse{GuestID: guestID, Status: string(status), ChildrenCount: childrenCount}, nil
}
