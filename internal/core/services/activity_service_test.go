package services

import (
	"testing"
	"time"

	"educycle-api/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activityUpdate(raised *decimal.Decimal) *UpdateActivityInput {
	goal := decimal.NewFromInt(800)
	end := time.Now().Add(48 * time.Hour)
	return &UpdateActivityInput{
		Title:        "Library drive 2",
		Description:  "more books",
		GoalAmount:   &goal,
		AmountRaised: raised,
		Image:        "https://img.example.com/b.png",
		ActivityType: string(domain.ActivityTypeDonation),
		EndDate:      &end,
	}
}

func TestActivityService_CreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	org := env.register(t, "org1", "o@x.com")

	a := env.activity(t, org.ID)
	assert.NotEmpty(t, a.ID)
	assert.True(t, a.AmountRaised.IsZero())
	assert.False(t, a.StartDate.IsZero())
	assert.Equal(t, 1, a.Version)
	require.NotNil(t, a.Organizer)
	assert.Equal(t, org.ID, a.Organizer.ID)
}

func TestActivityService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	goal := decimal.NewFromInt(10)
	end := time.Now().Add(time.Hour)
	in := &CreateActivityInput{
		OrganizerID: "ghost", Title: "t", Description: "d", GoalAmount: &goal,
		Image: "i", ActivityType: string(domain.ActivityTypeDonation), EndDate: &end,
	}

	_, err := env.activities().Create(env.ctx, in)
	assert.ErrorIs(t, err, domain.ErrOrganizerNotFound)

	in.ActivityType = "Raffle"
	_, err = env.activities().Create(env.ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidActivityType)

	org := env.register(t, "org1", "o@x.com")
	in.OrganizerID = org.ID
	in.ActivityType = string(domain.ActivityTypeDonation)
	in.PostIDs = []string{"ghost-post"}
	_, err = env.activities().Create(env.ctx, in)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	all, err := env.activities().List(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestActivityService_LinksPosts(t *testing.T) {
	env := newTestEnv(t)
	org := env.register(t, "org1", "o@x.com")
	l := env.listing(t, org.ID, env.category(t, "Books").ID)

	goal := decimal.NewFromInt(10)
	end := time.Now().Add(time.Hour)
	a, err := env.activities().Create(env.ctx, &CreateActivityInput{
		ID: "act-1", OrganizerID: org.ID, Title: "t", Description: "d", GoalAmount: &goal,
		Image: "i", ActivityType: string(domain.ActivityTypeFundraiser), EndDate: &end,
		PostIDs: []string{l.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "act-1", a.ID)

	posts, err := env.activities().ListListings(env.ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, l.ID, posts[0].ID)

	removed, err := env.activities().UnlinkListing(env.ctx, adminActor, a.ID, l.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, env.activities().LinkListing(env.ctx, adminActor, a.ID, l.ID))
	assert.ErrorIs(t, env.activities().LinkListing(env.ctx, adminActor, "ghost", l.ID), domain.ErrActivityNotFound)
	assert.ErrorIs(t, env.activities().LinkListing(env.ctx, adminActor, a.ID, "ghost"), domain.ErrListingNotFound)

	_, err = env.activities().ListListings(env.ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestActivityService_UpdateLegacyOverwritesRaised(t *testing.T) {
	env := newTestEnv(t)
	a := env.activity(t, env.register(t, "org1", "o@x.com").ID)

	raised := decimal.NewFromInt(120)
	got, err := env.activities().Update(env.ctx, adminActor, a.ID, activityUpdate(&raised))
	require.NoError(t, err)
	assert.Equal(t, "Library drive 2", got.Title)
	assert.Equal(t, domain.ActivityTypeDonation, got.ActivityType)
	assert.True(t, raised.Equal(got.AmountRaised))
	assert.Equal(t, 2, got.Version)

	stale := 1
	in := activityUpdate(nil)
	in.Version = &stale
	_, err = env.activities().Update(env.ctx, adminActor, a.ID, in)
	assert.ErrorIs(t, err, domain.ErrStaleActivity)

	_, err = env.activities().Update(env.ctx, adminActor, "ghost", activityUpdate(nil))
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestActivityService_UpdateLedgerModeKeepsRaised(t *testing.T) {
	env := newTestEnv(t, ledgerMode)
	a := env.activity(t, env.register(t, "org1", "o@x.com").ID)

	raised := decimal.NewFromInt(999)
	got, err := env.activities().Update(env.ctx, adminActor, a.ID, activityUpdate(&raised))
	require.NoError(t, err)
	assert.True(t, got.AmountRaised.IsZero())

	got, err = env.activities().Patch(env.ctx, a.ID, Patch{"amountRaised": 5.0, "title": "patched"})
	require.NoError(t, err)
	assert.True(t, got.AmountRaised.IsZero())
	assert.Equal(t, "patched", got.Title)
}

func TestActivityService_Patch(t *testing.T) {
	env := newTestEnv(t)
	org := env.register(t, "org1", "o@x.com")
	other := env.register(t, "org2", "o2@x.com")
	a := env.activity(t, org.ID)

	got, err := env.activities().Patch(env.ctx, a.ID, Patch{
		"goalAmount":   1000,
		"endDate":      "2030-06-01T00:00:00Z",
		"activityType": "Donation",
		"organizerId":  other.ID,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(got.GoalAmount))
	assert.Equal(t, 2030, got.EndDate.Year())
	assert.Equal(t, other.ID, got.OrganizerID)

	_, err = env.activities().Patch(env.ctx, a.ID, Patch{"organizerId": "ghost"})
	assert.ErrorIs(t, err, domain.ErrOrganizerNotFound)

	_, err = env.activities().Patch(env.ctx, a.ID, Patch{"endDate": "soon"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestActivityService_Delete(t *testing.T) {
	env := newTestEnv(t)
	a := env.activity(t, env.register(t, "org1", "o@x.com").ID)

	deleted, err := env.activities().Delete(env.ctx, adminActor, a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = env.activities().Delete(env.ctx, adminActor, a.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestActivityService_OrganizerOnlyWrites(t *testing.T) {
	env := newTestEnv(t)
	org := env.register(t, "org1", "o@x.com")
	stranger := env.register(t, "stranger1", "st@x.com")
	a := env.activity(t, org.ID)
	l := env.listing(t, stranger.ID, env.category(t, "Books").ID)
	outsider := Actor{UserID: stranger.ID}

	_, err := env.activities().Update(env.ctx, outsider, a.ID, activityUpdate(nil))
	assert.ErrorIs(t, err, domain.ErrNotOrganizer)

	assert.ErrorIs(t, env.activities().LinkListing(env.ctx, outsider, a.ID, l.ID), domain.ErrNotOrganizer)

	_, err = env.activities().UnlinkListing(env.ctx, outsider, a.ID, l.ID)
	assert.ErrorIs(t, err, domain.ErrNotOrganizer)

	deleted, err := env.activities().Delete(env.ctx, outsider, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.False(t, deleted)

	organizer := Actor{UserID: org.ID}
	require.NoError(t, env.activities().LinkListing(env.ctx, organizer, a.ID, l.ID))
	got, err := env.activities().Update(env.ctx, organizer, a.ID, activityUpdate(nil))
	require.NoError(t, err)
	assert.Equal(t, "Library drive 2", got.Title)
}

func TestActivityService_EndDateRequired(t *testing.T) {
	env := newTestEnv(t)
	org := env.register(t, "org1", "o@x.com")
	a := env.activity(t, org.ID)

	goal := decimal.NewFromInt(100)
	_, err := env.activities().Create(env.ctx, &CreateActivityInput{
		OrganizerID:  org.ID,
		Title:        "No end",
		Description:  "open ended",
		GoalAmount:   &goal,
		Image:        "https://img.example.com/c.png",
		ActivityType: string(domain.ActivityTypeDonation),
	})
	assert.ErrorIs(t, err, domain.ErrEndDateRequired)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in := activityUpdate(nil)
	in.EndDate = nil
	_, err = env.activities().Update(env.ctx, adminActor, a.ID, in)
	assert.ErrorIs(t, err, domain.ErrEndDateRequired)
}
