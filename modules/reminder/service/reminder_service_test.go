package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"party-invites/core/errors"
	"party-invites/core/mailer"
	"party-invites/modules/reminder/dto"
	"party-invites/modules/reminder/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reminderKey struct {
	party uuid.UUID
	typ   entity.ReminderType
}

type fakeRepo struct {
	mu        sync.Mutex
	parties   map[uuid.UUID]*entity.Party
	reminders map[reminderKey]*entity.Reminder

	findErr  error
	claimErr map[uuid.UUID]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		parties:   map[uuid.UUID]*entity.Party{},
		reminders: map[reminderKey]*entity.Reminder{},
		claimErr:  map[uuid.UUID]error{},
	}
}

func (f *fakeRepo) addParty(event time.Time, emails ...string) *entity.Party {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &entity.Party{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		EventDatetime:   event,
		Location:        "Jungle Gym, 12 Park Lane",
		PublicRSVPToken: "tok" + uuid.NewString()[:8],
		ChildName:       "Mia",
		ChildBirthDate:  event.AddDate(-6, 0, -3),
	}
	for i, email := range emails {
		p.Guests = append(p.Guests, entity.Guest{
			ID:         uuid.New(),
			PartyID:    p.ID,
			ParentName: fmt.Sprintf("Parent %d", i+1),
			ChildName:  fmt.Sprintf("Kid %d", i+1),
			Email:      email,
		})
	}
	f.parties[p.ID] = p
	return p
}

func (f *fakeRepo) GetPartyEventTime(_ context.Context, partyID uuid.UUID) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.parties[partyID]
	if !ok {
		return nil, nil
	}
	t := p.EventDatetime
	return &t, nil
}

func (f *fakeRepo) UpsertReminder(_ context.Context, r *entity.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := reminderKey{r.PartyID, r.Type}
	if existing, ok := f.reminders[key]; ok {
		if existing.SentAt == nil {
			existing.ScheduledFor = r.ScheduledFor
		}
		return nil
	}
	cp := *r
	f.reminders[key] = &cp
	return nil
}

func (f *fakeRepo) ListReminders(_ context.Context, partyID uuid.UUID) ([]entity.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Reminder
	for k, r := range f.reminders {
		if k.party == partyID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindPartiesByEventRange(_ context.Context, from, to time.Time) ([]entity.Party, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Party
	for _, p := range f.parties {
		if p.EventDatetime.Before(from) || p.EventDatetime.After(to) {
			continue
		}
		cp := *p
		cp.Reminders = nil
		for k, r := range f.reminders {
			if k.party == p.ID {
				cp.Reminders = append(cp.Reminders, *r)
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeRepo) ListGuests(_ context.Context, partyID uuid.UUID) ([]entity.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.parties[partyID].Guests, nil
}

func (f *fakeRepo) ClaimReminder(_ context.Context, partyID uuid.UUID, typ entity.ReminderType, now time.Time) (bool, error) {
	if err := f.claimErr[partyID]; err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := reminderKey{partyID, typ}
	r, ok := f.reminders[key]
	if !ok {
		f.reminders[key] = &entity.Reminder{PartyID: partyID, Type: typ, SentAt: &now}
		return true, nil
	}
	if r.SentAt != nil {
		return false, nil
	}
	r.SentAt = &now
	return true, nil
}

func (f *fakeRepo) reminder(partyID uuid.UUID, typ entity.ReminderType) *entity.Reminder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reminders[reminderKey{partyID, typ}]
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []mailer.Message
	failOn map[string]error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn[msg.To]; err != nil {
		return err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, msg := range m.sent {
		out[i] = msg.To
	}
	return out
}

type notifyCall struct {
	userID     uuid.UUID
	checkpoint string
	sent       int
	failed     int
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (n *fakeNotifier) NotifyRemindersSent(_ context.Context, userID, _ uuid.UUID, checkpoint string, sent, failed int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{userID, checkpoint, sent, failed})
	return nil
}

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo, m *fakeMailer, opts ...Option) *ReminderService {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewReminderService(repo, m, NewContentGenerator(time.UTC, "https://party.test"), time.UTC, opts...)
}

func TestCreateReminderScheduleCreatesAllFutureCheckpoints(t *testing.T) {
	repo := newFakeRepo()
	party := repo.addParty(testNow.Add(10 * day))
	svc := newTestService(repo, &fakeMailer{})

	require.Nil(t, svc.CreateReminderSchedule(context.Background(), party.ID))

	reminders, _ := repo.ListReminders(context.Background(), party.ID)
	assert.Len(t, reminders, 3)
	for _, r := range reminders {
		assert.Nil(t, r.SentAt)
		require.NotNil(t, r.ScheduledFor)
	}
	assert.Equal(t, testNow.Add(3*day), *repo.reminder(party.ID, entity.ReminderSevenDays).ScheduledFor)
	assert.Equal(t, testNow.Add(8*day), *repo.reminder(party.ID, entity.ReminderTwoDays).ScheduledFor)
	assert.Equal(t, time.Date(2026, 6, 11, 9, 0, 0, 0, time.UTC), *repo.reminder(party.ID, entity.ReminderSameDay).ScheduledFor)
}

func TestCreateReminderScheduleSkipsPastCheckpoints(t *testing.T) {
	repo := newFakeRepo()
	tomorrow := repo.addParty(testNow.Add(30 * time.Hour))
	tonight := repo.addParty(testNow.Add(6 * time.Hour))
	svc := newTestService(repo, &fakeMailer{})

	require.Nil(t, svc.CreateReminderSchedule(context.Background(), tomorrow.ID))
	require.Nil(t, svc.CreateReminderSchedule(context.Background(), tonight.ID))

	reminders, _ := repo.ListReminders(context.Background(), tomorrow.ID)
	require.Len(t, reminders, 1)
	assert.Equal(t, entity.ReminderSameDay, reminders[0].Type)

	reminders, _ = repo.ListReminders(context.Background(), tonight.ID)
	assert.Empty(t, reminders, "09:00 today has already passed")
}

func TestCreateReminderScheduleIsRepeatable(t *testing.T) {
	repo := newFakeRepo()
	party := repo.addParty(testNow.Add(10 * day))
	svc := newTestService(repo, &fakeMailer{})

	require.Nil(t, svc.CreateReminderSchedule(context.Background(), party.ID))
	require.Nil(t, svc.CreateReminderSchedule(context.Background(), party.ID))

	reminders, _ := repo.ListReminders(context.Background(), party.ID)
	assert.Len(t, reminders, 3)
}

func TestCreateReminderScheduleUnknownParty(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeMailer{})
	appErr := svc.CreateReminderSchedule(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestProcessRemindersSendsSevenDayCheckpoint(t *testing.T) {
	repo := newFakeRepo()
	party := repo.addParty(testNow.Add(7*day), "a@x.com", "b@x.com")
	require.NoError(t, repo.UpsertReminder(context.Background(), &entity.Reminder{PartyID: party.ID, Type: entity.ReminderSevenDays}))
	m := &fakeMailer{}
	svc := newTestService(repo, m)

	summary, appErr := svc.ProcessReminders(context.Background())
	require.Nil(t, appErr)

	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, m.recipients())
	for _, msg := range m.sent {
		assert.Contains(t, msg.Subject, "Mia")
		assert.Contains(t, msg.Text, "Mia is turning 6")
		assert.Contains(t, msg.HTML, "Mia is turning 6")
	}
	require.NotNil(t, repo.reminder(party.ID, entity.ReminderSevenDays).SentAt)

	require.Len(t, summary.Checkpoints, 1)
	cp := summary.Checkpoints[0]
	assert.Equal(t, entity.ReminderSevenDays, cp.Checkpoint)
	assert.Equal(t, 7, cp.DaysUntilEvent)
	assert.Equal(t, 2, cp.Sent)
	assert.Equal(t, 2, summary.EmailsSent)
}

func TestProcessRemindersSecondRunIsNoop(t *testing.T) {
	repo := newFakeRepo()
	party := repo.addParty(testNow.Add(7*day), "a@x.com", "b@x.com")
	require.NoError(t, repo.UpsertReminder(context.Background(), &entity.Reminder{PartyID: party.ID, Type: entity.ReminderSevenDays}))
	m := &fakeMailer{}
	svc := newTestService(repo, m)

	_, appErr := svc.ProcessReminders(context.Background())
	require.Nil(t, appErr)
	summary, appErr := svc.ProcessReminders(context.Background())
	require.Nil(t, appErr)

	assert.Len(t, m.sent, 2)
	assert.Empty(t, summary.Checkpoints)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, "already sent", summary.Skipped[0].Reason)
}

func TestProcessRemindersLaterRunStillNoop(t *testing.T) {
	repo := newFakeRepo()
	party := repo.addParty(testNow.Add(7*day), "a@x.com")
	m := &fakeMailer{}
	now := testNow
	svc := newTestService(repo, m, WithClock(func() time.Time { return now }))

	_, appErr := svc.ProcessReminders(context.Background())
	require.Nil(t, appErr)

	now = testNow.Add(3 * time.Hour)
	_, appErr = svc.ProcessReminders(context.Background())
	require.Nil(t, appErr)

	assert.Len(t, m.sent, 1)
	assert.NotNil(t, repo.reminder(party.ID, entity.ReminderSevenDays).SentAt)
}

func TestProcessRemindersExactDayBoundaries(t *testing.T) {
	repo := newFakeRepo()
	repo.addParty(testNow.Add(6*day), "six@x.com")
	repo.addParty(testNow.Add(8*day), "eight@x.com")
	repo.addParty(testNow.Add(7*day+time.Minute), "seven-plus@x.com")
	repo.addParty(testNow.Add(2*day), "two@x.com")
	m := &fakeMailer{}

	_, appErr := newTestService(repo, m).ProcessReminders(context.Background())
	require.Nil(t, appErr)

	assert.ElementsMatch(t, []string{"two@x.com"}, m.recipients())
}

func TestProcessRemindersSameDayNeedsZeroDays(t *testing.T) {
	repo := newFakeRepo()
	atNow := repo.addParty(testNow, "now@x.com")
	repo.addParty(testNow.Add(5*time.Hour), "later@x.com")
	m := &fakeMailer{}

	summary, appErr := newTestService(repo, m).ProcessReminders(context.Background())
	require.Nil(t, appErr)

	assert.Equal(t, []string{"now@x.com"}, m.recipients())
	require.Len(t, summary.Checkpoints, 1)
	assert.Equal(t, entity.ReminderSameDay, summary.Checkpoints[0].Checkpoint)
	assert.Equal(t, atNow.ID, summary.Checkpoints[0].PartyID)
	assert.True(t, strings.HasPrefix(m.sent[0].Subject, "Today"))
}

func TestProcessRemindersPartialGuestFailure(t *testing.T) {
	repo := newFakeRepo()
	party := repo.addParty(testNow.Add(7*day), "g1@x.com", "g2@x.com", "g3@x.com")
	m := &fakeMailer{failOn: map[string]error{"g2@x.com": stderrors.New("mailbox unavailable")}}

	summary, appErr := newTestService(repo, m).ProcessReminders(context.Background())
	require.Nil(t, appErr)

	assert.ElementsMatch(t, []string{"g1@x.com", "g3@x.com"}, m.recipients())
	assert.NotNil(t, repo.reminder(party.ID, entity.ReminderSevenDays).SentAt)

	cp := summary.Checkpoints[0]
	assert.Equal(t, 2, cp.Sent)
	assert.Equal(t, 1, cp.Failed)
	require.Len(t, cp.Guests, 3)
	assert.Equal(t, dto.GuestFailed, cp.Guests[1].Status)
	assert.Contains(t, cp.Guests[1].Reason, "mailbox unavailable")
	assert.Equal(t, 1, summary.EmailsFailed)
}

func TestProcessRemindersIsolatesPartyErrors(t *testing.T) {
	repo := newFakeRepo()
	broken := repo.addParty(testNow.Add(7*day), "broken@x.com")
	repo.addParty(testNow.Add(2*day), "ok@x.com")
	repo.claimErr[broken.ID] = stderrors.New("deadlock detected")
	m := &fakeMailer{}

	summary, appErr := newTestService(repo, m).ProcessReminders(context.Background())
	require.Nil(t, appErr)

	assert.Equal(t, []string{"ok@x.com"}, m.recipients())
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, broken.ID, summary.Errors[0].PartyID)
	assert.Contains(t, summary.Errors[0].Error, "deadlock detected")
}

func TestProcessRemindersCandidateQueryFailureAborts(t *testing.T) {
	repo := newFakeRepo()
	repo.findErr = stderrors.New("connection refused")

	summary, appErr := newTestService(repo, &fakeMailer{}).ProcessReminders(context.Background())
	assert.Nil(t, summary)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInternalServer, appErr.Code)
}

func TestProcessRemindersConcurrentRunsSendOnce(t *testing.T) {
	repo := newFakeRepo()
	repo.addParty(testNow.Add(7*day), "a@x.com", "b@x.com")
	repo.addParty(testNow.Add(2*day), "c@x.com")
	m := &fakeMailer{}
	svc := newTestService(repo, m)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, appErr := svc.ProcessReminders(context.Background())
			assert.Nil(t, appErr)
		}()
	}
	wg.Wait()

	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com", "c@x.com"}, m.recipients())
}

func TestProcessRemindersNotifiesHost(t *testing.T) {
	repo := newFakeRepo()
	party := repo.addParty(testNow.Add(2*day), "a@x.com", "b@x.com")
	m := &fakeMailer{failOn: map[string]error{"b@x.com": stderrors.New("timeout")}}
	n := &fakeNotifier{}

	_, appErr := newTestService(repo, m, WithNotifier(n)).ProcessReminders(context.Background())
	require.Nil(t, appErr)

	require.Len(t, n.calls, 1)
	assert.Equal(t, notifyCall{party.UserID, string(entity.ReminderTwoDays), 1, 1}, n.calls[0])
}

func TestProcessRemindersWithoutGuestsStillMarksSent(t *testing.T) {
	repo := newFakeRepo()
	party := repo.addParty(testNow.Add(7 * day))

	summary, appErr := newTestService(repo, &fakeMailer{}).ProcessReminders(context.Background())
	require.Nil(t, appErr)

	assert.NotNil(t, repo.reminder(party.ID, entity.ReminderSevenDays).SentAt)
	require.Len(t, summary.Checkpoints, 1)
	assert.Zero(t, summary.Checkpoints[0].Sent)
}
