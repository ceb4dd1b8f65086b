package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/internal/models"
	apperrors "github.com/grahmind/careers-waitlist/pkg/errors"
	"github.com/grahmind/careers-waitlist/pkg/liststore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func newTestView(t *testing.T, opts ...ViewOption) (*View, *liststore.MockListStore) {
	t.Helper()

	store := liststore.NewMockListStore(gomock.NewController(t))
	opts = append([]ViewOption{WithClock(func() time.Time { return now })}, opts...)
	return NewView(liststore.NewUpdater(store), log.NewLoggerWithJSONOutput(), opts...), store
}

func loadView(t *testing.T, view *View, store *liststore.MockListStore, records []models.WaitlistRecord) {
	t.Helper()

	store.EXPECT().Read(gomock.Any()).Return(liststore.Snapshot{Shape: liststore.ShapeArray, Records: records}, nil)
	_, err := view.Refresh(context.Background())
	require.NoError(t, err)
}

func ts(t time.Time) string {
	return t.UTC().Format(models.TimestampLayout)
}

func TestParseWindow(t *testing.T) {
	assert.Equal(t, WindowToday, ParseWindow("today"))
	assert.Equal(t, WindowWeek, ParseWindow(" WEEK "))
	assert.Equal(t, WindowAll, ParseWindow("all"))
	assert.Equal(t, WindowAll, ParseWindow("month"))
	assert.Equal(t, WindowAll, ParseWindow(""))
}

func TestView_FilterBySearchTerm(t *testing.T) {
	view, store := newTestView(t)
	loadView(t, view, store, []models.WaitlistRecord{
		{Email: "Alice@Example.com", Timestamp: ts(now), Source: "careers-waitlist"},
		{Email: "bob@test.io", Timestamp: ts(now), Source: "careers-waitlist"},
		{Email: "", Timestamp: ts(now), Source: "careers-waitlist"},
	})

	got := view.Filter("EXAMPLE", WindowAll)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice@Example.com", got[0].Email)

	assert.Len(t, view.Filter("", WindowAll), 2, "records without email never match")
	assert.Empty(t, view.Filter("nobody", WindowAll))
}

func TestView_TodayExcludesRecordFromYesterday(t *testing.T) {
	view, store := newTestView(t)
	loadView(t, view, store, []models.WaitlistRecord{
		{Email: "fresh@example.com", Timestamp: ts(now.Add(-time.Hour))},
		{Email: "old@example.com", Timestamp: ts(now.Add(-25 * time.Hour))},
	})

	got := view.Filter("", WindowToday)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh@example.com", got[0].Email)
}

func TestView_TodayUsesConfiguredLocation(t *testing.T) {
	lagos := time.FixedZone("WAT", 60*60)
	view, store := newTestView(t, WithLocation(lagos))
	// 23:30 UTC on the 9th is already the 10th in UTC+1.
	loadView(t, view, store, []models.WaitlistRecord{
		{Email: "late@example.com", Timestamp: ts(time.Date(2025, 1, 9, 23, 30, 0, 0, time.UTC))},
	})

	assert.Len(t, view.Filter("", WindowToday), 1)
}

func TestView_WeekBoundaryIsInclusive(t *testing.T) {
	view, store := newTestView(t)
	loadView(t, view, store, []models.WaitlistRecord{
		{Email: "edge@example.com", Timestamp: ts(now.Add(-7 * 24 * time.Hour))},
		{Email: "past@example.com", Timestamp: ts(now.Add(-7*24*time.Hour - time.Millisecond))},
	})

	got := view.Filter("", WindowWeek)
	require.Len(t, got, 1)
	assert.Equal(t, "edge@example.com", got[0].Email)
}

func TestView_UnparseableTimestampsOnlyMatchAll(t *testing.T) {
	view, store := newTestView(t)
	loadView(t, view, store, []models.WaitlistRecord{
		{Email: "weird@example.com", Timestamp: "yesterday-ish"},
	})

	assert.Len(t, view.Filter("", WindowAll), 1)
	assert.Empty(t, view.Filter("", WindowToday))
	assert.Empty(t, view.Filter("", WindowWeek))
	assert.Equal(t, Stats{Total: 1}, view.Stats())
}

func TestView_LooseTimestampFormatsCountInWindows(t *testing.T) {
	view, store := newTestView(t)
	loadView(t, view, store, []models.WaitlistRecord{
		{Email: "date@example.com", Timestamp: "2025-01-10"},
		{Email: "zoneless@example.com", Timestamp: "2025-01-08T09:00:00"},
		{Email: "millis@example.com", Timestamp: "1736467200000"},
	})

	today := view.Filter("", WindowToday)
	require.Len(t, today, 2)
	assert.Equal(t, "date@example.com", today[0].Email)
	assert.Equal(t, "millis@example.com", today[1].Email)
	assert.Equal(t, Stats{Total: 3, Today: 2, Week: 3}, view.Stats())
}

func TestView_StatsIgnoreFilters(t *testing.T) {
	view, store := newTestView(t)
	loadView(t, view, store, []models.WaitlistRecord{
		{Email: "a@example.com", Timestamp: ts(now)},
		{Email: "b@example.com", Timestamp: ts(now.Add(-48 * time.Hour))},
		{Email: "c@example.com", Timestamp: ts(now.Add(-30 * 24 * time.Hour))},
	})

	assert.Len(t, view.Filter("a@", WindowToday), 1)
	assert.Equal(t, Stats{Total: 3, Today: 1, Week: 2}, view.Stats())
}

func TestView_ExportCSV(t *testing.T) {
	view, store := newTestView(t)
	loadView(t, view, store, []models.WaitlistRecord{
		{Email: "a@b.com", Timestamp: "2025-01-01T00:00:00Z", Source: "x"},
		{Email: "c@d.com", Timestamp: "2025-01-02T00:00:00Z", Source: "y"},
	})

	name, content := view.ExportCSV("", WindowAll)

	assert.Equal(t, "waitlist-emails-2025-01-10.csv", name)
	assert.Equal(t, "Email,Timestamp,Source\na@b.com,2025-01-01T00:00:00Z,x\nc@d.com,2025-01-02T00:00:00Z,y", string(content))

	_, filtered := view.ExportCSV("c@", WindowAll)
	assert.Equal(t, "Email,Timestamp,Source\nc@d.com,2025-01-02T00:00:00Z,y", string(filtered))
}

func TestView_ExportCSVEmptyHasHeaderOnly(t *testing.T) {
	view, _ := newTestView(t)

	_, content := view.ExportCSV("", WindowAll)
	assert.Equal(t, "Email,Timestamp,Source", string(content))
}

func TestView_RefreshFailureKeepsPreviousList(t *testing.T) {
	view, store := newTestView(t)
	loadView(t, view, store, []models.WaitlistRecord{{Email: "keep@example.com", Timestamp: ts(now)}})

	store.EXPECT().Read(gomock.Any()).Return(liststore.Snapshot{}, &liststore.Error{Op: "read", Kind: liststore.KindNetwork, Err: errors.New("dial tcp")})

	_, err := view.Refresh(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.StatusBadGateway, apperrors.HTTPStatusCode(err))
	assert.Len(t, view.Records(), 1)
	assert.False(t, view.Loading())
}

func TestView_LoadingStaysSetWhileAnyRefreshIsInFlight(t *testing.T) {
	view, store := newTestView(t)

	started := make(chan struct{})
	release := make(chan struct{})
	store.EXPECT().Read(gomock.Any()).DoAndReturn(func(context.Context) (liststore.Snapshot, error) {
		started <- struct{}{}
		<-release
		return liststore.Snapshot{Shape: liststore.ShapeNone}, nil
	}).Times(2)

	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, _ = view.Refresh(context.Background())
			done <- struct{}{}
		}()
	}
	<-started
	<-started
	assert.True(t, view.Loading())

	release <- struct{}{}
	<-done
	assert.True(t, view.Loading(), "second refresh is still running")

	release <- struct{}{}
	<-done
	assert.False(t, view.Loading())
}

func TestView_EnsureLoadedReadsOnce(t *testing.T) {
	view, store := newTestView(t)
	store.EXPECT().Read(gomock.Any()).Return(liststore.Snapshot{Shape: liststore.ShapeNone}, nil).Times(1)

	require.NoError(t, view.EnsureLoaded(context.Background()))
	require.NoError(t, view.EnsureLoaded(context.Background()))
	assert.NotNil(t, view.Records())
	assert.Equal(t, now, view.LastRefreshed())
}

func TestView_ClearAllRequiresConfirmation(t *testing.T) {
	view, store := newTestView(t)
	loadView(t, view, store, []models.WaitlistRecord{{Email: "a@example.com", Timestamp: ts(now)}})

	err := view.ClearAll(context.Background(), false)

	require.Error(t, err)
	assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))
	assert.Len(t, view.Records(), 1)
}

func TestView_ClearAllThenRefreshIsEmpty(t *testing.T) {
	view, store := newTestView(t)
	loadView(t, view, store, []models.WaitlistRecord{{Email: "a@example.com", Timestamp: ts(now)}})

	store.EXPECT().Write(gomock.Any(), []models.WaitlistRecord{}).Return(nil)
	require.NoError(t, view.ClearAll(context.Background(), true))
	assert.Empty(t, view.Records())

	loadView(t, view, store, []models.WaitlistRecord{})
	assert.Empty(t, view.Records())
	assert.Equal(t, Stats{}, view.Stats())
}

func TestView_ClearAllFailureKeepsList(t *testing.T) {
	view, store := newTestView(t)
	loadView(t, view, store, []models.WaitlistRecord{{Email: "a@example.com", Timestamp: ts(now)}})

	store.EXPECT().Write(gomock.Any(), gomock.Any()).Return(&liststore.Error{Op: "write", Kind: liststore.KindServer, Status: 500, Err: errors.New("boom")})

	err := view.ClearAll(context.Background(), true)

	require.Error(t, err)
	assert.Equal(t, apperrors.StatusBadGateway, apperrors.HTTPStatusCode(err))
	assert.Len(t, view.Records(), 1)
}
