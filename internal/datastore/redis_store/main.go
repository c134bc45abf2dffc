package redis_store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"sanguo/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func dbKeyLeaderboard(name string) string {
	return fmt.Sprintf("leaderboard:%s", name)
}

func dbKeyLeaderboardNames(name string) string {
	return fmt.Sprintf("leaderboard:%s:names", name)
}

func dbKeyLeaderboardUpdatedAt(name string) string {
	return fmt.Sprintf("leaderboard:%s:updated_at", name)
}

// ReplaceLeaderboard swaps the whole board atomically.
func ReplaceLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, items []*models.LeaderboardItem) error {
	_, err := cmd.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, dbKeyLeaderboard(name), dbKeyLeaderboardNames(name))
		if len(items) == 0 {
			return nil
		}

		zs := make([]redis.Z, len(items))
		names := make([]any, 0, 2*len(items))
		for i, item := range items {
			member := strconv.FormatInt(item.PlayerID, 10)
			zs[i] = redis.Z{Score: item.Score, Member: member}
			names = append(names, member, item.Name)
		}
		pipe.ZAdd(ctx, dbKeyLeaderboard(name), zs...)
		pipe.HSet(ctx, dbKeyLeaderboardNames(name), names...)
		pipe.Set(ctx, dbKeyLeaderboardUpdatedAt(name), time.Now().UTC().Format(time.RFC3339), 0)
		return nil
	})
	return err
}

func GetLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, num int) ([]*models.LeaderboardItem, error) {
	// num always greater than 0
	items, err := cmd.ZRevRangeWithScores(ctx, dbKeyLeaderboard(name), 0, int64(num-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*models.LeaderboardItem{}, nil
	}

	members := make([]string, len(items))
	for i, item := range items {
		members[i] = item.Member.(string)
	}
	names, err := cmd.HMGet(ctx, dbKeyLeaderboardNames(name), members...).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*models.LeaderboardItem, len(items))
	for i, item := range items {
		id, _ := strconv.ParseInt(members[i], 10, 64)
		results[i] = &models.LeaderboardItem{
			PlayerID: id,
			Score:    item.Score,
			Rank:     i + 1,
		}
		if n, ok := names[i].(string); ok {
			results[i].Name = n
		}
	}
	return results, nil
}

func GetRankWithScore(ctx context.Context, cmd redis.Cmdable, name string, playerID int64) (*models.LeaderboardItem, error) {
	rank, err := cmd.ZRevRankWithScore(ctx, dbKeyLeaderboard(name), strconv.FormatInt(playerID, 10)).Result()
	if err != nil {
		return nil, err
	}

	item := &models.LeaderboardItem{PlayerID: playerID, Score: rank.Score, Rank: int(rank.Rank) + 1}
	n, err := cmd.HGet(ctx, dbKeyLeaderboardNames(name), strconv.FormatInt(playerID, 10)).Result()
	if err == nil {
		item.Name = n
	}
	return item, nil
}

func GetLeaderboardUpdatedAt(ctx context.Context, cmd redis.Cmdable, name string) (time.Time, error) {
	result, err := cmd.Get(ctx, dbKeyLeaderboardUpdatedAt(name)).Result()
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, result)
}

func dbKeyLeaderboardSnapshot(name string) string {
	return fmt.Sprintf("leaderboard:%s:snapshot", name)
}

// SetLeaderboardSnapshot keeps the top of the board as one msgpack blob so
// reads need a single round trip.
func SetLeaderboardSnapshot(ctx context.Context, cmd redis.Cmdable, name string, items []*models.LeaderboardItem, ttl time.Duration) error {
	b, err := msgpack.Marshal(items)
	if err != nil {
		return err
	}
	return cmd.Set(ctx, dbKeyLeaderboardSnapshot(name), b, ttl).Err()
}

func GetLeaderboardSnapshot(ctx context.Context, cmd redis.Cmdable, name string) ([]*models.LeaderboardItem, error) {
	b, err := cmd.Get(ctx, dbKeyLeaderboardSnapshot(name)).Bytes()
	if err != nil {
		return nil, err
	}

	var items []*models.LeaderboardItem
	err = msgpack.Unmarshal(b, &items)
	return items, err
}
