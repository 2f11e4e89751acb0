package service

import (
	"context"
	"fmt"
	"time"

	"party-invites/core/errors"
	"party-invites/core/logger"
	"party-invites/core/mailer"
	"party-invites/core/metrics"
	"party-invites/modules/reminder/dto"
	"party-invites/modules/reminder/entity"
	"party-invites/modules/reminder/repository"

	"github.com/google/uuid"
)

// HostNotifier tells a party owner that a checkpoint went out.
type HostNotifier interface {
	NotifyRemindersSent(ctx context.Context, userID, partyID uuid.UUID, checkpoint string, sent, failed int) error
}

type ReminderServiceInterface interface {
	CreateReminderSchedule(ctx context.Context, partyID uuid.UUID) *errors.AppError
	ProcessReminders(ctx context.Context) (*dto.RunSummary, *errors.AppError)
}

type ReminderService struct {
	repo     repository.ReminderRepositoryInterface
	mailer   mailer.Mailer
	content  ContentGenerator
	notifier HostNotifier
	loc      *time.Location
	now      func() time.Time
}

type Option func(*ReminderService)

func WithClock(now func() time.Time) Option {
	return func(s *ReminderService) { s.now = now }
}

func WithNotifier(n HostNotifier) Option {
	return func(s *ReminderService) { s.notifier = n }
}

func NewReminderService(repo repository.ReminderRepositoryInterface, m mailer.Mailer, content ContentGenerator, loc *time.Location, opts ...Option) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	s := &ReminderService{
		repo:    repo,
		mailer:  m,
		content: content,
		loc:     loc,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ReminderServiceInterface = (*ReminderService)(nil)

// CreateReminderSchedule creates an unsent reminder for every checkpoint of the
// party that is still ahead. Past checkpoints are skipped for good.
func (s *ReminderService) CreateReminderSchedule(ctx context.Context, partyID uuid.UUID) *errors.AppError {
	eventTime, err := s.repo.GetPartyEventTime(ctx, partyID)
	if err != nil {
		logger.Error("ReminderService:CreateReminderSchedule:GetPartyEventTime:Error:", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to load party", err)
	}
	if eventTime == nil {
		return errors.NewAppError(errors.ErrNotFound, "party not found", nil)
	}

	now := s.now()
	created := 0
	for _, target := range CheckpointTargets(*eventTime, s.loc) {
		if !target.At.After(now) {
			continue
		}
		at := target.At.UTC()
		reminder := &entity.Reminder{PartyID: partyID, Type: target.Type, ScheduledFor: &at}
		if err := s.repo.UpsertReminder(ctx, reminder); err != nil {
			logger.Error("ReminderService:CreateReminderSchedule:UpsertReminder:Error:", err, "party_id", partyID, "type", target.Type)
			return errors.NewAppError(errors.ErrInternalServer, "failed to schedule reminders", err)
		}
		created++
	}

	logger.Info("ReminderService:CreateReminderSchedule:Done", "party_id", partyID, "scheduled", created)
	return nil
}

// ProcessReminders sends every checkpoint that is due right now. Only a failure
// of the candidate query aborts the run; anything else is isolated per party.
func (s *ReminderService) ProcessReminders(ctx context.Context) (*dto.RunSummary, *errors.AppError) {
	now := s.now()
	summary := dto.NewRunSummary(now)

	parties, err := s.repo.FindPartiesByEventRange(ctx, now, now.Add(LookaheadWindow))
	if err != nil {
		logger.Error("ReminderService:ProcessReminders:FindParties:Error:", err)
		metrics.ReminderRuns.WithLabelValues("error").Inc()
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load upcoming parties", err)
	}
	summary.PartiesScanned = len(parties)

	for _, party := range parties {
		days := DaysUntil(party.EventDatetime, now)
		checkpoint, due := CheckpointFor(days)
		if !due {
			continue
		}

		if existing, ok := party.Reminder(checkpoint); ok && existing.IsSent() {
			summary.Skipped = append(summary.Skipped, dto.SkippedCheckpoint{
				PartyID: party.ID, Checkpoint: checkpoint, Reason: "already sent",
			})
			continue
		}

		result, skipped, err := s.processParty(ctx, party, checkpoint, days, now)
		switch {
		case err != nil:
			logger.Error("ReminderService:ProcessReminders:Party:Error", "party_id", party.ID, "checkpoint", checkpoint, "error", err)
			summary.Errors = append(summary.Errors, dto.PartyError{PartyID: party.ID, Error: err.Error()})
		case skipped:
			summary.Skipped = append(summary.Skipped, dto.SkippedCheckpoint{
				PartyID: party.ID, Checkpoint: checkpoint, Reason: "claimed by another run",
			})
		default:
			summary.AddCheckpoint(*result)
		}
	}

	summary.FinishedAt = s.now()
	metrics.ReminderRuns.WithLabelValues("ok").Inc()
	logger.Info("ReminderService:ProcessReminders:Done",
		"parties", summary.PartiesScanned,
		"checkpoints", len(summary.Checkpoints),
		"emails_sent", summary.EmailsSent,
		"emails_failed", summary.EmailsFailed,
		"errors", len(summary.Errors),
	)
	return summary, nil
}

// processParty claims the checkpoint first, then mails every guest. The
// checkpoint stays sent whatever happens to individual guests.
func (s *ReminderService) processParty(ctx context.Context, party entity.Party, checkpoint entity.ReminderType, days int, now time.Time) (*dto.CheckpointSummary, bool, error) {
	won, err := s.repo.ClaimReminder(ctx, party.ID, checkpoint, now)
	if err != nil {
		return nil, false, fmt.Errorf("claim %s: %w", checkpoint, err)
	}
	if !won {
		return nil, true, nil
	}

	result := &dto.CheckpointSummary{
		PartyID:        party.ID,
		Checkpoint:     checkpoint,
		DaysUntilEvent: days,
		Guests:         []dto.GuestResult{},
	}
	for _, guest := range party.Guests {
		result.Add(s.sendToGuest(ctx, party, guest, checkpoint))
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyRemindersSent(ctx, party.UserID, party.ID, string(checkpoint), result.Sent, result.Failed); err != nil {
			logger.Warn("ReminderService:ProcessReminders:NotifyHost:Error", "party_id", party.ID, "error", err)
		}
	}
	return result, false, nil
}

func (s *ReminderService) sendToGuest(ctx context.Context, party entity.Party, guest entity.Guest, checkpoint entity.ReminderType) dto.GuestResult {
	result := dto.GuestResult{GuestID: guest.ID, Email: guest.Email}

	content, err := s.content.Generate(party, guest, checkpoint)
	if err == nil {
		err = s.mailer.Send(ctx, mailer.Message{
			To:      guest.Email,
			Subject: content.Subject,
			Text:    content.Text,
			HTML:    content.HTML,
		})
	}
	if err != nil {
		logger.Warn("ReminderService:SendToGuest:Failed", "party_id", party.ID, "guest_id", guest.ID, "checkpoint", checkpoint, "error", err)
		metrics.ReminderEmails.WithLabelValues(string(checkpoint), string(dto.GuestFailed)).Inc()
		result.Status = dto.GuestFailed
		result.Reason = err.Error()
		return result
	}

	metrics.ReminderEmails.WithLabelValues(string(checkpoint), string(dto.GuestSent)).Inc()
	result.Status = dto.GuestSent
	return result
}
