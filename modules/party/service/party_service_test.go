package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"party-invites/core/constants"
	"party-invites/core/database"
	"party-invites/core/database/dbtest"
	"party-invites/core/errors"
	"party-invites/core/params"
	"party-invites/modules/party/dto"
	"party-invites/modules/party/repository"
	templaterepo "party-invites/modules/template/repository"
	templateservice "party-invites/modules/template/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeScheduler struct {
	calls []uuid.UUID
	err   *errors.AppError
}

func (f *fakeScheduler) CreateReminderSchedule(_ context.Context, partyID uuid.UUID) *errors.AppError {
	f.calls = append(f.calls, partyID)
	return f.err
}

type fixture struct {
	svc       *PartyService
	sched     *fakeScheduler
	templates *templateservice.TemplateService
	db        database.IDatabase
	userID    uuid.UUID
	childID   uuid.UUID
}

func newFixture(t *testing.T, premiumPhotos bool) *fixture {
	t.Helper()
	db := dbtest.New(t)
	catalog, err := templateservice.LoadCatalog("")
	require.NoError(t, err)
	templates := templateservice.NewTemplateService(catalog, templaterepo.NewPurchaseRepository(db))

	sched := &fakeScheduler{}
	svc := NewPartyService(repository.NewPartyRepository(db), sched, templates, Options{
		PublicURL:           "https://party.test/",
		PhotoSharingPremium: premiumPhotos,
	})
	svc.SetClock(func() time.Time { return now })

	userID := dbtest.SeedUser(t, db, "host@x.com")
	child, appErr := svc.CreateChild(context.Background(), userID, &dto.CreateChildRequest{Name: "Mia", BirthDate: "2020-05-30"})
	require.Nil(t, appErr)

	return &fixture{svc: svc, sched: sched, templates: templates, db: db, userID: userID, childID: child.ID}
}

func (f *fixture) createParty(t *testing.T, event time.Time) *dto.PartyResponse {
	t.Helper()
	party, appErr := f.svc.CreateParty(context.Background(), f.userID, &dto.CreatePartyRequest{
		ChildID:       f.childID,
		EventDatetime: event,
		Location:      " Park ",
	})
	require.Nil(t, appErr)
	return party
}

func TestCreateChildValidates(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, appErr := f.svc.CreateChild(ctx, f.userID, &dto.CreateChildRequest{Name: " ", BirthDate: "2020-01-01"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	_, appErr = f.svc.CreateChild(ctx, f.userID, &dto.CreateChildRequest{Name: "Leo", BirthDate: "01/02/2020"})
	require.NotNil(t, appErr)

	_, appErr = f.svc.CreateChild(ctx, f.userID, &dto.CreateChildRequest{Name: "Leo", BirthDate: "2030-01-01"})
	require.NotNil(t, appErr)

	children, appErr := f.svc.ListChildren(ctx, f.userID)
	require.Nil(t, appErr)
	require.Len(t, children, 1)
	assert.Equal(t, "2020-05-30", children[0].BirthDate)
}

func TestCreatePartySchedulesReminders(t *testing.T) {
	f := newFixture(t, false)
	party := f.createParty(t, now.Add(10*24*time.Hour))

	assert.Len(t, party.PublicRSVPToken, constants.RSVPTokenLength)
	assert.Equal(t, "https://party.test/invite/"+party.PublicRSVPToken, party.RSVPURL)
	assert.Equal(t, "Park", party.Location)
	assert.Equal(t, "Mia", party.ChildName)
	assert.Equal(t, []uuid.UUID{party.ID}, f.sched.calls)
}

func TestCreatePartyRejectsInvalidSchedule(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, appErr := f.svc.CreateParty(ctx, f.userID, &dto.CreatePartyRequest{
		ChildID: f.childID, EventDatetime: now.Add(-time.Minute), Location: "Park",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	end := now.Add(time.Hour)
	_, appErr = f.svc.CreateParty(ctx, f.userID, &dto.CreatePartyRequest{
		ChildID: f.childID, EventDatetime: now.Add(2 * time.Hour), EventEndDatetime: &end, Location: "Park",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	other := dbtest.SeedUser(t, f.db, "other@x.com")
	_, appErr = f.svc.CreateParty(ctx, other, &dto.CreatePartyRequest{
		ChildID: f.childID, EventDatetime: now.Add(2 * time.Hour), Location: "Park",
	})
	require.NotNil(t, appErr, "child of another host")
	assert.Empty(t, f.sched.calls)
}

func TestCreatePartySurvivesSchedulerFailure(t *testing.T) {
	f := newFixture(t, false)
	f.sched.err = errors.NewAppError(errors.ErrInternalServer, "db down", nil)

	party := f.createParty(t, now.Add(3*24*time.Hour))
	got, appErr := f.svc.GetParty(context.Background(), f.userID, party.ID)
	require.Nil(t, appErr)
	assert.Equal(t, party.ID, got.ID)
}

func TestUpdatePartyReschedulesAndKeepsToken(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	party := f.createParty(t, now.Add(10*24*time.Hour))

	notes := "Bring a swimsuit"
	updated, appErr := f.svc.UpdateParty(ctx, f.userID, party.ID, &dto.UpdatePartyRequest{Notes: &notes})
	require.Nil(t, appErr)
	assert.Equal(t, notes, *updated.Notes)
	assert.Len(t, f.sched.calls, 1, "no reschedule without a date change")

	moved := now.Add(5 * 24 * time.Hour)
	updated, appErr = f.svc.UpdateParty(ctx, f.userID, party.ID, &dto.UpdatePartyRequest{EventDatetime: &moved})
	require.Nil(t, appErr)
	assert.True(t, updated.EventDatetime.Equal(moved))
	assert.Equal(t, party.PublicRSVPToken, updated.PublicRSVPToken)
	assert.Len(t, f.sched.calls, 2)

	past := now.Add(-time.Hour)
	_, appErr = f.svc.UpdateParty(ctx, f.userID, party.ID, &dto.UpdatePartyRequest{EventDatetime: &past})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestOwnershipIsEnforced(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	party := f.createParty(t, now.Add(10*24*time.Hour))
	other := dbtest.SeedUser(t, f.db, "other@x.com")

	_, appErr := f.svc.GetParty(ctx, other, party.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	appErr = f.svc.DeleteParty(ctx, other, party.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	_, appErr = f.svc.GetParty(ctx, f.userID, uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	require.Nil(t, f.svc.DeleteParty(ctx, f.userID, party.ID))
	_, appErr = f.svc.GetParty(ctx, f.userID, party.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestSelectTemplateRequiresPurchaseForPremium(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	party := f.createParty(t, now.Add(10*24*time.Hour))

	got, appErr := f.svc.SelectTemplate(ctx, f.userID, party.ID, "classic-balloons")
	require.Nil(t, appErr)
	assert.Equal(t, "classic-balloons", got.TemplateID)

	_, appErr = f.svc.SelectTemplate(ctx, f.userID, party.ID, "unicorn-dreams")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrPaymentRequired, appErr.Code)

	_, appErr = f.svc.SelectTemplate(ctx, f.userID, party.ID, "nope")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	require.Nil(t, f.templates.RecordPurchase(ctx, party.ID, "unicorn-dreams", "pay_1"))
	got, appErr = f.svc.SelectTemplate(ctx, f.userID, party.ID, "unicorn-dreams")
	require.Nil(t, appErr)
	assert.Equal(t, "unicorn-dreams", got.TemplateID)
	assert.Equal(t, []string{"unicorn-dreams"}, got.PaidTemplateIDs)
}

func TestPhotoSharingPremium(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	party := f.createParty(t, now.Add(10*24*time.Hour))

	_, appErr := f.svc.SetPhotoSharing(ctx, f.userID, party.ID, true)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrPaymentRequired, appErr.Code)

	require.Nil(t, f.svc.MarkPhotoSharingPaid(ctx, party.ID))
	got, appErr := f.svc.SetPhotoSharing(ctx, f.userID, party.ID, true)
	require.Nil(t, appErr)
	assert.True(t, got.PhotoSharingEnabled)
	assert.True(t, got.PhotoSharingPaid)

	appErr = f.svc.MarkPhotoSharingPaid(ctx, uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestPhotoSharingFree(t *testing.T) {
	f := newFixture(t, false)
	party := f.createParty(t, now.Add(10*24*time.Hour))

	got, appErr := f.svc.SetPhotoSharing(context.Background(), f.userID, party.ID, true)
	require.Nil(t, appErr)
	assert.True(t, got.PhotoSharingEnabled)
}

func TestListPartiesAndToken(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	first := f.createParty(t, now.Add(3*24*time.Hour))
	second := f.createParty(t, now.Add(9*24*time.Hour))

	page, appErr := f.svc.ListParties(ctx, f.userID, params.QueryParams{PageNumber: 1, PageSize: 1})
	require.Nil(t, appErr)
	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, second.ID, page.Items[0].ID, "latest event first")

	byToken, appErr := f.svc.GetPartyByToken(ctx, first.PublicRSVPToken)
	require.Nil(t, appErr)
	assert.Equal(t, first.ID, byToken.ID)

	_, appErr = f.svc.GetPartyByToken(ctx, "missing")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestQRCodeIsPNG(t *testing.T) {
	f := newFixture(t, false)
	party := f.createParty(t, now.Add(3*24*time.Hour))

	png, appErr := f.svc.QRCode(context.Background(), f.userID, party.ID)
	require.Nil(t, appErr)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
