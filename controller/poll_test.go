package controller

import (
	"context"
	"testing"

	"github.com/TmRxJD/tower-tracker/db"
	"github.com/TmRxJD/tower-tracker/db/mockdb"
	"github.com/TmRxJD/tower-tracker/model"
	"github.com/TmRxJD/tower-tracker/testutils"
	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/mock"
)

func pollController(db db.DB) *controller {
	cfg := DefaultSyncConfig()
	cfg.GuildDelay = 0
	cfg.GuildWorkers = 1
	clk := clock.NewMock()
	clk.Set(testutils.BaseTime)
	return &controller{
		clock:    clk,
		db:       db,
		cfg:      cfg,
		inflight: make(map[string]bool),
	}
}

func TestCheckAllGuilds_oneGuildFailureDoesNotStopOthers(t *testing.T) {
	mdb := &mockdb.DB{}
	mdb.On("ListGuilds", mock.Anything).Return([]model.GuildSyncState{
		{GuildID: "1"},
		{GuildID: "2"},
	}, nil)
	// Both guilds fail immediately; the tick still visits each one.
	mdb.On("GetGuild", mock.Anything, "1").Return(nil, db.ErrGuildNotFound)
	mdb.On("GetGuild", mock.Anything, "2").Return(nil, db.ErrGuildNotFound)

	c := pollController(mdb)
	c.checkAllGuilds(context.Background())

	mdb.AssertNumberOfCalls(t, "GetGuild", 2)
}

func TestCheckGuild_containsPanics(t *testing.T) {
	mdb := &mockdb.DB{}
	// A nil guild with a nil error makes the pipeline panic; the tick
	// boundary has to absorb it.
	mdb.On("GetGuild", mock.Anything, "1").Return(nil, nil)

	c := pollController(mdb)
	c.checkGuild(context.Background(), "1")
}

func TestCheckAllGuilds_listError(t *testing.T) {
	mdb := &mockdb.DB{}
	mdb.On("ListGuilds", mock.Anything).Return(nil, db.ErrGuildNotFound)

	c := pollController(mdb)
	c.checkAllGuilds(context.Background())

	mdb.AssertNotCalled(t, "GetGuild", mock.Anything, mock.Anything)
}
