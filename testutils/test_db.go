package testutils

import (
	"context"
	"log"
	"time"

	"github.com/TmRxJD/tower-tracker/containers"
	"github.com/TmRxJD/tower-tracker/db"
	"github.com/itbasis/go-clock"
)

// BaseTime is Wednesday 2024-08-07 06:00 UTC: two hours past the end of the
// Tuesday tournament round, so a default-config guild is inside its
// eligibility window.
var BaseTime = time.Date(2024, time.August, 7, 6, 0, 0, 0, time.UTC)

type TestDB struct {
	container *containers.DBContainer
	DB        db.DB
	Clock     *clock.Mock
}

func NewTestDB() *TestDB {
	container := containers.NewDBContainer()
	mock := clock.NewMock()
	mock.Set(BaseTime)

	db, err := db.New(context.Background(), container.ConnectionString(), mock)
	if err != nil {
		log.Fatalf("error connecting to db in test container: %v", err)
	}

	return &TestDB{
		container: container,
		DB:        db,
		Clock:     mock,
	}
}

func (db *TestDB) Shutdown() {
	db.container.Shutdown()
}
