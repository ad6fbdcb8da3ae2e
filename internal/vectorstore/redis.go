package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xxxsen/brandbot/internal/model"
)

const (
	recordKeyPrefix = "vec_"
	indexKey        = "vec_index"
	// Records are fetched in fixed-size groups to bound fan-out on a scan.
	scanBatchSize = 100
)

// RedisStore is the brute-force reference backend: every record lives at
// "vec_<id>", the id index in one set, and Search scans everything.
type RedisStore struct {
	rdb *goredis.Client
}

func NewRedisStore(rdb *goredis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Upsert(ctx context.Context, rec *model.StoredVector) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("vector id is required")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, indexKey, rec.ID)
	pipe.Set(ctx, recordKeyPrefix+rec.ID, data, 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Search(ctx context.Context, query []float32, topK int) ([]model.SearchResult, error) {
	if topK <= 0 {
		return nil, nil
	}
	ids, err := s.rdb.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)

	var results []model.SearchResult
	for start := 0; start < len(ids); start += scanBatchSize {
		end := start + scanBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		keys := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, recordKeyPrefix+id)
		}
		values, err := s.rdb.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, err
		}
		for _, value := range values {
			raw, ok := value.(string)
			if !ok {
				continue
			}
			var rec model.StoredVector
			if err := json.Unmarshal([]byte(raw), &rec); err != nil {
				return nil, fmt.Errorf("decode vector record: %w", err)
			}
			score, err := Cosine(query, rec.Embedding)
			if err != nil {
				return nil, err
			}
			results = append(results, model.SearchResult{
				Content:  rec.Content,
				Score:    score,
				Metadata: rec.Metadata,
			})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := s.rdb.TxPipeline()
	pipe.SRem(ctx, indexKey, id)
	pipe.Del(ctx, recordKeyPrefix+id)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Stats(ctx context.Context) (Stats, error) {
	count, err := s.rdb.SCard(ctx, indexKey).Result()
	if err != nil {
		return Stats{}, err
	}
	return Stats{Count: count}, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	ids, err := s.rdb.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}
	for start := 0; start < len(ids); start += scanBatchSize {
		end := start + scanBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		keys := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, recordKeyPrefix+id)
		}
		if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return s.rdb.Del(ctx, indexKey).Err()
}
