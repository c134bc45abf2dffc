package services

import (
	"context"

	"sanguo/internal/pkg/locker"

	"github.com/uptrace/bun"
)

// inPlayerTx runs fn inside the player's critical section and a single
// transaction. Any error rolls the whole transaction back.
func inPlayerTx(ctx context.Context, l locker.Locker, db *bun.DB, playerID int64, fn func(ctx context.Context, tx bun.Tx) error) error {
	release, err := l.Obtain(ctx, LockKeyPlayer(playerID))
	if err != nil {
		return err
	}
	defer release()

	return db.RunInTx(ctx, nil, fn)
}
