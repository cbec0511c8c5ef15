package handlers

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/secopshq/shiftboard/pkg/audit"
	"github.com/secopshq/shiftboard/pkg/auth"
	"github.com/secopshq/shiftboard/pkg/bulk"
	"github.com/secopshq/shiftboard/pkg/config"
	"github.com/secopshq/shiftboard/pkg/database"
	"github.com/secopshq/shiftboard/pkg/store"
)

// Bootstrap builds a fully wired handler: roster, database, schedule
// store, audit log and bulk planner. Shared by the standalone server
// and the serverless adapter. ROSTER_PATH overrides the embedded
// roster.
func Bootstrap(zlog *zap.Logger) (*Handler, error) {
	roster, err := config.Load(os.Getenv("ROSTER_PATH"))
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	db := database.InitDB()
	if err := auth.EnsureUsersExist(db, roster); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}

	blobs := &database.BlobStore{DB: db}
	demo := &store.DemoFiller{Roster: roster}
	blank := &store.BlankFiller{Roster: roster}

	st, err := store.New(demo, blank, blobs, zlog, nil)
	if err != nil {
		return nil, err
	}
	aud, err := audit.New(blobs, zlog, nil)
	if err != nil {
		return nil, err
	}

	planner := &bulk.Planner{Roster: roster, Blank: blank}
	return NewHandler(db, roster, st, aud, planner, zlog, nil), nil
}
