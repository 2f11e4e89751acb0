package service

import (
	"context"
	"strings"
	"time"

	"party-invites/core/errors"
	"party-invites/core/logger"
	"party-invites/core/params"
	"party-invites/core/utils"
	"party-invites/modules/party/dto"
	"party-invites/modules/party/entity"
	"party-invites/modules/party/mapper"
	"party-invites/modules/party/repository"
	templateentity "party-invites/modules/template/entity"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const qrSize = 512

// ReminderScheduler creates the reminder rows for a party's event time.
type ReminderScheduler interface {
	CreateReminderSchedule(ctx context.Context, partyID uuid.UUID) *errors.AppError
}

type TemplateProvider interface {
	Find(id string) (templateentity.Template, bool)
	IsPurchased(ctx context.Context, partyID uuid.UUID, templateID string) (bool, error)
	PaidTemplateIDs(ctx context.Context, partyID uuid.UUID) ([]string, error)
}

type Options struct {
	PublicURL           string
	PhotoSharingPremium bool
}

type PartyService struct {
	repo      repository.PartyRepositoryInterface
	scheduler ReminderScheduler
	templates TemplateProvider
	opts      Options
	now       func() time.Time
}

func NewPartyService(repo repository.PartyRepositoryInterface, scheduler ReminderScheduler, templates TemplateProvider, opts Options) *PartyService {
	return &PartyService{
		repo:      repo,
		scheduler: scheduler,
		templates: templates,
		opts:      opts,
		now:       time.Now,
	}
}

// SetClock replaces the clock used to validate event times.
func (s *PartyService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *PartyService) CreateChild(ctx context.Context, userID uuid.UUID, req *dto.CreateChildRequest) (*dto.ChildResponse, *errors.AppError) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name is required", nil)
	}

	birth, err := time.Parse(dto.DateLayout, req.BirthDate)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "birth_date must be YYYY-MM-DD", err)
	}
	if birth.After(s.now()) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "birth_date cannot be in the future", nil)
	}

	child := &entity.Child{UserID: userID, Name: name, BirthDate: birth}
	child.Touch(s.now())
	if err := s.repo.CreateChild(ctx, child); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create child", err)
	}

	resp := mapper.ToChildResponse(*child)
	return &resp, nil
}

func (s *PartyService) ListChildren(ctx context.Context, userID uuid.UUID) ([]dto.ChildResponse, *errors.AppError) {
	children, err := s.repo.ListChildren(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list children", err)
	}
	return mapper.ToChildResponses(children), nil
}

func (s *PartyService) validateSchedule(start time.Time, end *time.Time) *errors.AppError {
	if start.IsZero() {
		return errors.NewAppError(errors.ErrInvalidInput, "event_datetime is required", nil)
	}
	if !start.After(s.now()) {
		return errors.NewAppError(errors.ErrInvalidInput, "event_datetime must be in the future", nil)
	}
	if end != nil && !end.After(start) {
		return errors.NewAppError(errors.ErrInvalidInput, "event_end_datetime must be after event_datetime", nil)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// schedule refreshes the reminder rows. A failure does not undo the party
// write: the send path claims checkpoints whose rows are missing.
func (s *PartyService) schedule(ctx context.Context, partyID uuid.UUID) {
	if appErr := s.scheduler.CreateReminderSchedule(ctx, partyID); appErr != nil {
		logger.Warn("PartyService:CreateReminderSchedule:Error", "party_id", partyID, "error", appErr)
	}
}

func (s *PartyService) CreateParty(ctx context.Context, userID uuid.UUID, req *dto.CreatePartyRequest) (*dto.PartyResponse, *errors.AppError) {
	if appErr := s.validateSchedule(req.EventDatetime, req.EventEndDatetime); appErr != nil {
		return nil, appErr
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "location is required", nil)
	}

	child, err := s.repo.GetChild(ctx, req.ChildID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get child", err)
	}
	if child == nil || child.UserID != userID {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "child not found", nil)
	}

	token, err := utils.GenerateRSVPToken()
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate RSVP token", err)
	}

	party := &entity.Party{
		UserID:           userID,
		ChildID:          child.ID,
		EventDatetime:    req.EventDatetime.UTC(),
		EventEndDatetime: utcPtr(req.EventEndDatetime),
		Location:         location,
		Theme:            req.Theme,
		Notes:            req.Notes,
		PublicRSVPToken:  token,
	}
	party.Touch(s.now())

	if err := s.repo.CreateParty(ctx, party); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create party", err)
	}
	logger.Info("PartyService:CreateParty:Created", "party_id", party.ID, "event", party.EventDatetime)

	s.schedule(ctx, party.ID)

	detail := &entity.PartyDetail{Party: *party, ChildName: child.Name, ChildBirthDate: child.BirthDate}
	return mapper.ToPartyResponse(detail, s.opts.PublicURL, nil), nil
}

// GetOwnedParty loads a party and checks that userID owns it.
func (s *PartyService) GetOwnedParty(ctx context.Context, userID, partyID uuid.UUID) (*entity.PartyDetail, *errors.AppError) {
	party, err := s.repo.GetParty(ctx, partyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get party", err)
	}
	if party == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "party not found", nil)
	}
	if party.UserID != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "party belongs to another user", nil)
	}
	return party, nil
}

// GetPartyByToken resolves a public RSVP token.
func (s *PartyService) GetPartyByToken(ctx context.Context, token string) (*entity.PartyDetail, *errors.AppError) {
	party, err := s.repo.GetPartyByToken(ctx, token)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get party", err)
	}
	if party == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "invitation not found", nil)
	}
	return party, nil
}

func (s *PartyService) GetParty(ctx context.Context, userID, partyID uuid.UUID) (*dto.PartyResponse, *errors.AppError) {
	party, appErr := s.GetOwnedParty(ctx, userID, partyID)
	if appErr != nil {
		return nil, appErr
	}

	paid, err := s.templates.PaidTemplateIDs(ctx, party.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get purchased templates", err)
	}
	return mapper.ToPartyResponse(party, s.opts.PublicURL, paid), nil
}

func (s *PartyService) ListParties(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*dto.PaginatedPartyResponse, *errors.AppError) {
	page, err := s.repo.ListParties(ctx, userID, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list parties", err)
	}
	return mapper.ToPaginatedPartyResponse(page, s.opts.PublicURL), nil
}

func (s *PartyService) UpdateParty(ctx context.Context, userID, partyID uuid.UUID, req *dto.UpdatePartyRequest) (*dto.PartyResponse, *errors.AppError) {
	party, appErr := s.GetOwnedParty(ctx, userID, partyID)
	if appErr != nil {
		return nil, appErr
	}

	rescheduled := false
	start := party.EventDatetime
	if req.EventDatetime != nil && !req.EventDatetime.Equal(party.EventDatetime) {
		start = req.EventDatetime.UTC()
		rescheduled = true
	}
	end := party.EventEndDatetime
	if req.EventEndDatetime != nil {
		end = utcPtr(req.EventEndDatetime)
	}

	if rescheduled {
		if appErr := s.validateSchedule(start, end); appErr != nil {
			return nil, appErr
		}
	} else if end != nil && !end.After(start) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "event_end_datetime must be after event_datetime", nil)
	}

	if req.Location != nil {
		location := strings.TrimSpace(*req.Location)
		if location == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "location cannot be empty", nil)
		}
		party.Location = location
	}
	if req.Theme != nil {
		party.Theme = req.Theme
	}
	if req.Notes != nil {
		party.Notes = req.Notes
	}
	party.EventDatetime = start
	party.EventEndDatetime = end
	party.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateParty(ctx, &party.Party); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update party", err)
	}

	if rescheduled {
		s.schedule(ctx, party.ID)
	}
	return s.GetParty(ctx, userID, partyID)
}

func (s *PartyService) DeleteParty(ctx context.Context, userID, partyID uuid.UUID) *errors.AppError {
	if _, appErr := s.GetOwnedParty(ctx, userID, partyID); appErr != nil {
		return appErr
	}
	if err := s.repo.DeleteParty(ctx, partyID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete party", err)
	}
	return nil
}

// SelectTemplate sets the invitation template. Premium templates need a
// purchase for this party. An empty id resets to the default look.
func (s *PartyService) SelectTemplate(ctx context.Context, userID, partyID uuid.UUID, templateID string) (*dto.PartyResponse, *errors.AppError) {
	if _, appErr := s.GetOwnedParty(ctx, userID, partyID); appErr != nil {
		return nil, appErr
	}

	if templateID != "" {
		tmpl, ok := s.templates.Find(templateID)
		if !ok {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown template: "+templateID, nil)
		}
		if tmpl.Premium {
			paid, err := s.templates.IsPurchased(ctx, partyID, templateID)
			if err != nil {
				return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check template purchase", err)
			}
			if !paid {
				return nil, errors.NewAppError(errors.ErrPaymentRequired, "template must be purchased first", nil)
			}
		}
	}

	if err := s.repo.SetTemplate(ctx, partyID, templateID); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to set template", err)
	}
	return s.GetParty(ctx, userID, partyID)
}

func (s *PartyService) SetPhotoSharing(ctx context.Context, userID, partyID uuid.UUID, enabled bool) (*dto.PartyResponse, *errors.AppError) {
	party, appErr := s.GetOwnedParty(ctx, userID, partyID)
	if appErr != nil {
		return nil, appErr
	}

	if enabled && s.opts.PhotoSharingPremium && !party.PhotoSharingPaid {
		return nil, errors.NewAppError(errors.ErrPaymentRequired, "photo sharing must be purchased first", nil)
	}

	if err := s.repo.SetPhotoSharing(ctx, partyID, enabled); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update photo sharing", err)
	}
	return s.GetParty(ctx, userID, partyID)
}

// MarkPhotoSharingPaid records a photo sharing payment for a party.
func (s *PartyService) MarkPhotoSharingPaid(ctx context.Context, partyID uuid.UUID) *errors.AppError {
	found, err := s.repo.MarkPhotoSharingPaid(ctx, partyID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to record photo sharing payment", err)
	}
	if !found {
		return errors.NewAppError(errors.ErrNotFound, "party not found", nil)
	}
	return nil
}

// QRCode renders the public RSVP link as a PNG.
func (s *PartyService) QRCode(ctx context.Context, userID, partyID uuid.UUID) ([]byte, *errors.AppError) {
	party, appErr := s.GetOwnedParty(ctx, userID, partyID)
	if appErr != nil {
		return nil, appErr
	}

	png, err := qrcode.Encode(mapper.RSVPURL(s.opts.PublicURL, party.PublicRSVPToken), qrcode.Medium, qrSize)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to render QR code", err)
	}
	return png, nil
}
