package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// BufferLastActive records a user's activity timestamp in the write-buffer
// sorted set rather than writing through immediately. DrainLastActive
// empties the buffer; no worker in this repository calls it, so buffered
// timestamps are not written to the players table.
func (c *Cache) BufferLastActive(ctx context.Context, userID string, at time.Time) {
	z := redis.Z{Score: float64(at.Unix()), Member: userID}
	if err := c.rdb.ZAdd(ctx, keyLastActiveSet, z).Err(); err != nil {
		slog.Warn("cache buffer last-active failed", "userId", userID, "error", err)
	}
}

// LastActiveFlush is a drained (userID, epoch) pair ready for a batched
// persistence write.
type LastActiveFlush struct {
	UserID string
	Epoch  int64
}

// DrainLastActive atomically pops every buffered entry, returning them for
// a single batched UPDATE ... CASE/WHEN by the caller. The read and the
// delete run in one MULTI/EXEC transaction; on failure nothing is removed,
// so a later drain picks the same entries up again.
func (c *Cache) DrainLastActive(ctx context.Context) ([]LastActiveFlush, error) {
	var rangeCmd *redis.ZSliceCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		rangeCmd = pipe.ZRangeWithScores(ctx, keyLastActiveSet, 0, -1)
		pipe.Del(ctx, keyLastActiveSet)
		return nil
	})
	if err != nil {
		slog.Warn("cache drain last-active failed", "error", err)
		return nil, err
	}
	members := rangeCmd.Val()
	if len(members) == 0 {
		return nil, nil
	}

	out := make([]LastActiveFlush, 0, len(members))
	for _, m := range members {
		userID, ok := m.Member.(string)
		if !ok {
			continue
		}
		out = append(out, LastActiveFlush{UserID: userID, Epoch: int64(m.Score)})
	}
	return out, nil
}

func toAny(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// BuildLastActiveCaseWhen is exposed for the persistence gateway to construct a
// single batched UPDATE from a flush slice, keeping the SQL string
// formatting in one place.
func BuildLastActiveCaseWhen(flush []LastActiveFlush) (query string, args []any) {
	if len(flush) == 0 {
		return "", nil
	}
	query = "UPDATE players SET last_active = CASE user_id "
	for i, f := range flush {
		query += fmt.Sprintf("WHEN $%d THEN %d ", i+1, f.Epoch)
		args = append(args, f.UserID)
	}
	query += "ELSE last_active END WHERE user_id IN ("
	for i := range flush {
		if i > 0 {
			query += ", "
		}
		query += "$" + strconv.Itoa(i+1)
	}
	query += ")"
	return query, args
}
