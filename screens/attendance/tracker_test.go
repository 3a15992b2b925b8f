package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "sitelink.com/sitelink/api/v1"
	"sitelink.com/sitelink/location"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/model/role"
	"sitelink.com/sitelink/screens"
	"sitelink.com/sitelink/session"
	"sitelink.com/sitelink/utils"
)

// fakeAPI keeps records in memory and rejects a second check-in for the same
// user and date the way the server does.
type fakeAPI struct {
	records   []model.AttendanceRecord
	nextID    int
	checkIns  []model.CheckInRequest
	checkOuts []model.CheckOutRequest
	getAllErr error
}

func (f *fakeAPI) GetAll(ctx context.Context) ([]model.AttendanceRecord, error) {
	if f.getAllErr != nil {
		return nil, f.getAllErr
	}
	return append([]model.AttendanceRecord(nil), f.records...), nil
}

func (f *fakeAPI) CheckIn(ctx context.Context, payload model.CheckInRequest) (*model.AttendanceRecord, error) {
	f.checkIns = append(f.checkIns, payload)
	for _, r := range f.records {
		if r.User == payload.User && r.Date == payload.Date {
			return nil, &v1.APIError{StatusCode: 409, Body: []byte(`{"detail":"User already checked in today"}`)}
		}
	}
	f.nextID++
	rec := model.AttendanceRecord{
		ID:          f.nextID,
		User:        payload.User,
		Project:     payload.Project,
		Date:        payload.Date,
		CheckInTime: payload.CheckInTime,
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
	}
	f.records = append(f.records, rec)
	return &rec, nil
}

func (f *fakeAPI) CheckOut(ctx context.Context, id int, payload model.CheckOutRequest) (*model.AttendanceRecord, error) {
	f.checkOuts = append(f.checkOuts, payload)
	r := utils.Find(f.records, func(r model.AttendanceRecord) bool { return r.ID == id })
	if r == nil {
		return nil, &v1.APIError{StatusCode: 404, Body: []byte(`{"detail":"Not found."}`)}
	}
	r.CheckOutTime = utils.Ptr(payload.CheckOutTime)
	r.HoursWorked = utils.Ptr(payload.HoursWorked)
	r.OvertimeHours = utils.Ptr(payload.OvertimeHours)
	out := *r
	return &out, nil
}

type fakeProjects []model.Project

func (f fakeProjects) GetAll(context.Context) ([]model.Project, error) { return f, nil }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func at(t *testing.T, date, hhmm string) time.Time {
	t.Helper()
	ts, err := utils.CombineDateTime(date, hhmm, utils.SiteZone)
	require.NoError(t, err)
	return ts
}

func newSession(t *testing.T, user model.User) *session.Session {
	t.Helper()
	s, err := session.Open(&session.MemoryStore{})
	require.NoError(t, err)
	require.NoError(t, s.Login(user, "tok"))
	return s
}

func newTracker(t *testing.T, api *fakeAPI, c *clock, user model.User, locator location.Locator, projects fakeProjects) *Tracker {
	t.Helper()
	return NewTracker(api, projects, locator, newSession(t, user),
		WithClock(c.now),
		WithLocation(utils.SiteZone),
		WithLogger(utils.NewLogger(io.Discard, false)))
}

var (
	worker   = model.User{ID: 7, Username: "wally", Role: role.Worker}
	admin    = model.User{ID: 1, Username: "root", Role: role.Admin}
	site     = location.Static{Fix: location.Fix{Latitude: -27.47, Longitude: 153.02}}
	projects = fakeProjects{{ID: 3, Name: "Tower A"}, {ID: 5, Name: "Depot"}}
)

func TestCheckInThenCheckOutComputesHours(t *testing.T) {
	api := &fakeAPI{}
	c := &clock{t: at(t, "2024-05-06", "09:00")}
	tr := newTracker(t, api, c, worker, site, projects)

	require.NoError(t, tr.Load(context.Background()))
	assert.Equal(t, NotCheckedIn, tr.State())

	rec, err := tr.CheckIn(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, CheckedIn, tr.State())
	assert.Equal(t, 3, rec.Project)

	require.Len(t, api.checkIns, 1)
	assert.Equal(t, model.CheckInRequest{
		User:        7,
		Project:     3,
		Date:        "2024-05-06",
		CheckInTime: "09:00:00",
		Latitude:    -27.47,
		Longitude:   153.02,
	}, api.checkIns[0])

	c.t = at(t, "2024-05-06", "17:30")
	_, err = tr.CheckOut(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CheckedOut, tr.State())
	assert.Nil(t, tr.OpenRecord())

	require.Len(t, api.checkOuts, 1)
	assert.Equal(t, "17:30:00", api.checkOuts[0].CheckOutTime)
	assert.Equal(t, 8.5, api.checkOuts[0].HoursWorked)
	assert.Equal(t, 0.5, api.checkOuts[0].OvertimeHours)
}

func TestCheckInExplicitProject(t *testing.T) {
	api := &fakeAPI{}
	tr := newTracker(t, api, &clock{t: at(t, "2024-05-06", "07:15")}, worker, site, projects)
	require.NoError(t, tr.Load(context.Background()))

	rec, err := tr.CheckIn(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, rec.Project)

	tr2 := newTracker(t, &fakeAPI{}, &clock{t: at(t, "2024-05-06", "07:15")}, worker, site, projects)
	_, err = tr2.CheckIn(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUnknownProject)
}

func TestSecondCheckInIsRejectedLocally(t *testing.T) {
	api := &fakeAPI{}
	tr := newTracker(t, api, &clock{t: at(t, "2024-05-06", "09:00")}, worker, site, projects)
	require.NoError(t, tr.Load(context.Background()))
	first, err := tr.CheckIn(context.Background(), 0)
	require.NoError(t, err)

	_, err = tr.CheckIn(context.Background(), 0)
	var dup *DuplicateCheckInError
	require.ErrorAs(t, err, &dup)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.Len(t, api.checkIns, 1)

	require.Len(t, api.records, 1)
	assert.Equal(t, *first, api.records[0])
}

func TestServerDuplicateSurfacesConflictPrompt(t *testing.T) {
	// A record from another device that this tracker has not loaded yet.
	api := &fakeAPI{records: []model.AttendanceRecord{
		{ID: 40, User: 7, Project: 3, Date: "2024-05-06", CheckInTime: "06:45:00"},
	}, nextID: 40}
	tr := newTracker(t, api, &clock{t: at(t, "2024-05-06", "09:00")}, worker, site, projects)

	_, err := tr.CheckIn(context.Background(), 0)
	var dup *DuplicateCheckInError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "User already checked in today", dup.Error())

	require.Len(t, api.records, 1)
	assert.Equal(t, "06:45:00", api.records[0].CheckInTime)
	assert.Nil(t, api.records[0].CheckOutTime)

	alert := screens.AlertFor(err)
	assert.Equal(t, screens.AlertConflict, alert.Kind)
	require.Len(t, alert.Actions, 2)
	assert.Equal(t, "Remind me", alert.Actions[1].Label)
	assert.False(t, alert.Actions[1].Binding)
}

func TestCheckInAfterCheckOutIsDayComplete(t *testing.T) {
	api := &fakeAPI{records: []model.AttendanceRecord{
		{ID: 1, User: 7, Date: "2024-05-06", CheckInTime: "06:00:00", CheckOutTime: utils.Ptr("14:00:00")},
	}}
	tr := newTracker(t, api, &clock{t: at(t, "2024-05-06", "15:00")}, worker, site, projects)
	require.NoError(t, tr.Load(context.Background()))
	assert.Equal(t, CheckedOut, tr.State())

	_, err := tr.CheckIn(context.Background(), 0)
	assert.ErrorIs(t, err, ErrDayComplete)
	assert.Empty(t, api.checkIns)
}

func TestLoadIsIdempotent(t *testing.T) {
	api := &fakeAPI{records: []model.AttendanceRecord{
		{ID: 1, User: 7, Date: "2024-05-05", CheckInTime: "08:00:00", CheckOutTime: utils.Ptr("16:00:00")},
		{ID: 2, User: 7, Date: "2024-05-06", CheckInTime: "08:00:00"},
		{ID: 3, User: 8, Date: "2024-05-06", CheckInTime: "07:00:00"},
	}}
	tr := newTracker(t, api, &clock{t: at(t, "2024-05-06", "10:00")}, worker, site, projects)

	require.NoError(t, tr.Load(context.Background()))
	first := tr.OpenRecord()
	require.NoError(t, tr.Load(context.Background()))
	second := tr.OpenRecord()

	require.NotNil(t, first)
	assert.Equal(t, 2, first.ID)
	assert.Equal(t, first, second)
	assert.Equal(t, CheckedIn, tr.State())
	assert.Len(t, tr.Records(), 2)
}

func TestAdminSeesEveryRecord(t *testing.T) {
	api := &fakeAPI{records: []model.AttendanceRecord{
		{ID: 2, User: 7, Date: "2024-05-06", CheckInTime: "08:00:00"},
		{ID: 3, User: 8, Date: "2024-05-06", CheckInTime: "07:00:00"},
	}}
	tr := newTracker(t, api, &clock{t: at(t, "2024-05-06", "10:00")}, admin, site, projects)

	require.NoError(t, tr.Load(context.Background()))
	assert.Len(t, tr.Records(), 2)
	require.NotNil(t, tr.OnSiteRecord())
	assert.Equal(t, 2, tr.OnSiteRecord().ID)
	assert.Nil(t, tr.OpenRecord())
	assert.Equal(t, NotCheckedIn, tr.State())
}

func TestAdminStateIgnoresOtherUsers(t *testing.T) {
	api := &fakeAPI{nextID: 1, records: []model.AttendanceRecord{
		{ID: 1, User: 7, Date: "2024-05-06", CheckInTime: "08:00:00"},
	}}
	c := &clock{t: at(t, "2024-05-06", "09:00")}
	tr := newTracker(t, api, c, admin, site, projects)
	ctx := context.Background()

	require.NoError(t, tr.Load(ctx))
	assert.Equal(t, NotCheckedIn, tr.State())

	rec, err := tr.CheckIn(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, rec.User)
	assert.Equal(t, CheckedIn, tr.State())
	assert.Equal(t, rec.ID, tr.OpenRecord().ID)

	c.t = at(t, "2024-05-06", "10:00")
	out, err := tr.CheckOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, out.ID)

	shift := utils.Find(api.records, func(r model.AttendanceRecord) bool { return r.ID == 1 })
	require.NotNil(t, shift)
	assert.True(t, shift.IsOpen())
	require.NotNil(t, tr.OnSiteRecord())
	assert.Equal(t, 1, tr.OnSiteRecord().ID)
}

func TestCheckInPreconditions(t *testing.T) {
	tests := []struct {
		name     string
		locator  location.Locator
		projects fakeProjects
		want     error
	}{
		{name: "location denied", locator: location.Denied{}, projects: projects, want: ErrLocationUnavailable},
		{name: "no projects", locator: site, projects: nil, want: ErrNoProject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			tr := newTracker(t, api, &clock{t: at(t, "2024-05-06", "09:00")}, worker, tt.locator, tt.projects)
			require.NoError(t, tr.Load(context.Background()))

			_, err := tr.CheckIn(context.Background(), 0)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, api.checkIns)
			assert.Equal(t, NotCheckedIn, tr.State())
			assert.Equal(t, screens.AlertError, screens.AlertFor(err).Kind)
		})
	}
}

func TestCheckOutRules(t *testing.T) {
	tests := []struct {
		name    string
		records []model.AttendanceRecord
		now     time.Time
		want    error
	}{
		{
			name: "nothing open",
			now:  at(t, "2024-05-06", "17:00"),
			want: ErrNotCheckedIn,
		},
		{
			name:    "open record from yesterday is not today's",
			records: []model.AttendanceRecord{{ID: 1, User: 7, Date: "2024-05-05", CheckInTime: "22:00:00"}},
			now:     at(t, "2024-05-06", "01:00"),
			want:    ErrNotCheckedIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{records: tt.records}
			tr := newTracker(t, api, &clock{t: tt.now}, worker, site, projects)
			require.NoError(t, tr.Load(context.Background()))

			_, err := tr.CheckOut(context.Background())
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, api.checkOuts)
		})
	}
}

func TestCheckOutAcrossMidnightIsRejected(t *testing.T) {
	api := &fakeAPI{}
	c := &clock{t: at(t, "2024-05-06", "22:00")}
	tr := newTracker(t, api, c, worker, site, projects)
	require.NoError(t, tr.Load(context.Background()))
	_, err := tr.CheckIn(context.Background(), 0)
	require.NoError(t, err)

	c.t = at(t, "2024-05-07", "02:00")
	_, err = tr.CheckOut(context.Background())
	assert.ErrorIs(t, err, model.ErrShiftCrossesMidnight)
	assert.Empty(t, api.checkOuts)
	assert.Equal(t, CheckedIn, tr.State())
}

func TestLoadFailureIsNetworkAlert(t *testing.T) {
	api := &fakeAPI{getAllErr: fmt.Errorf("dial tcp: %w", errors.New("connection refused"))}
	tr := newTracker(t, api, &clock{t: at(t, "2024-05-06", "09:00")}, worker, site, projects)

	err := tr.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, screens.AlertNetwork, screens.AlertFor(err).Kind)
}

func TestCancelledCheckInDropsResult(t *testing.T) {
	api := &fakeAPI{}
	tr := newTracker(t, api, &clock{t: at(t, "2024-05-06", "09:00")}, worker, site, projects)
	require.NoError(t, tr.Load(context.Background()))

	scope := screens.NewScope(context.Background())
	scope.Close()

	_, err := tr.CheckIn(scope.Context(), 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, NotCheckedIn, tr.State())
}
