package liststore

import (
	"context"
	"errors"
	"testing"

	"github.com/grahmind/careers-waitlist/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestUpdater_UpdateAppliesMutationToCurrentSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockListStore(ctrl)
	updater := NewUpdater(store)

	existing := models.WaitlistRecord{Email: "old@example.com", Timestamp: "t0", Source: "x"}
	added := models.WaitlistRecord{Email: "new@example.com", Timestamp: "t1", Source: "y"}

	gomock.InOrder(
		store.EXPECT().Read(gomock.Any()).Return(Snapshot{Shape: ShapeWrapped, Records: []models.WaitlistRecord{existing}}, nil),
		store.EXPECT().Write(gomock.Any(), []models.WaitlistRecord{existing, added}).Return(nil),
	)

	result, err := updater.Update(context.Background(), func(current Snapshot) ([]models.WaitlistRecord, error) {
		assert.Equal(t, ShapeWrapped, current.Shape)
		return append(current.Records, added), nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []models.WaitlistRecord{existing, added}, result)
}

func TestUpdater_UpdateSkipsWriteWhenReadFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockListStore(ctrl)
	updater := NewUpdater(store)

	readErr := &Error{Op: "read", Kind: KindNetwork, Err: errors.New("dial tcp: connection refused")}
	store.EXPECT().Read(gomock.Any()).Return(Snapshot{}, readErr)

	_, err := updater.Update(context.Background(), func(Snapshot) ([]models.WaitlistRecord, error) {
		t.Fatal("mutate must not run when the read fails")
		return nil, nil
	})

	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestUpdater_UpdateSkipsWriteWhenMutationFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockListStore(ctrl)
	updater := NewUpdater(store)

	store.EXPECT().Read(gomock.Any()).Return(Snapshot{Shape: ShapeArray, Records: []models.WaitlistRecord{}}, nil)

	mutateErr := errors.New("rejected")
	_, err := updater.Update(context.Background(), func(Snapshot) ([]models.WaitlistRecord, error) {
		return nil, mutateErr
	})

	assert.ErrorIs(t, err, mutateErr)
}

func TestUpdater_ReplaceWritesWithoutReading(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockListStore(ctrl)
	updater := NewUpdater(store)

	store.EXPECT().Write(gomock.Any(), []models.WaitlistRecord{}).Return(nil)

	assert.NoError(t, updater.Replace(context.Background(), []models.WaitlistRecord{}))
}
