package model

import (
	"context"
	"sort"

	"github.com/goccy/go-json"

	"github.com/rushteam/ratekit/core"
)

// StoreAdapter 是基于 core.Store 的模型数据适配器，实现 core.ModelStore。
//
// Key 布局（value 均为 JSON）：
//
//	{KeyPrefix}:vec:{itemID}   -> {"term": weight, ...}
//	{KeyPrefix}:nbr:{itemID}   -> {"neighborItemID": similarity, ...}
//	{KeyPrefix}:mean:{itemID}  -> 3.5
//	{KeyPrefix}:user:{userID}  -> {"itemID": rating, ...}
type StoreAdapter struct {
	store core.Store

	KeyPrefix string
}

// NewStoreAdapter 创建一个基于 core.Store 的模型适配器，keyPrefix 为空时使用 "model"。
func NewStoreAdapter(s core.Store, keyPrefix string) *StoreAdapter {
	if keyPrefix == "" {
		keyPrefix = "model"
	}
	return &StoreAdapter{
		store:     s,
		KeyPrefix: keyPrefix,
	}
}

func (a *StoreAdapter) Name() string {
	return "store_model_adapter:" + a.store.Name()
}

func (a *StoreAdapter) vectorKey(itemID string) string { return a.KeyPrefix + ":vec:" + itemID }
func (a *StoreAdapter) nbrKey(itemID string) string    { return a.KeyPrefix + ":nbr:" + itemID }
func (a *StoreAdapter) meanKey(itemID string) string   { return a.KeyPrefix + ":mean:" + itemID }
func (a *StoreAdapter) userKey(userID string) string   { return a.KeyPrefix + ":user:" + userID }

func (a *StoreAdapter) ItemVectors(ctx context.Context, itemIDs []string) (map[string]core.FeatureVector, error) {
	return batchDecode[core.FeatureVector](ctx, a.store, a.vectorKey, itemIDs)
}

func (a *StoreAdapter) Neighborhoods(ctx context.Context, itemIDs []string) (map[string]core.SimilarityNeighborhood, error) {
	return batchDecode[core.SimilarityNeighborhood](ctx, a.store, a.nbrKey, itemIDs)
}

func (a *StoreAdapter) ItemMeans(ctx context.Context, itemIDs []string) (core.ItemMeanTable, error) {
	means, err := batchDecode[float64](ctx, a.store, a.meanKey, itemIDs)
	if err != nil {
		return nil, err
	}
	return core.ItemMeanTable(means), nil
}

// UserRatings 读取用户评分，按 itemID 升序返回；用户不存在时返回空序列。
func (a *StoreAdapter) UserRatings(ctx context.Context, userID string) ([]core.Rating, error) {
	data, err := a.store.Get(ctx, a.userKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var history map[string]float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, core.NewInvalidModelData(a.userKey(userID), err)
	}

	ratings := make([]core.Rating, 0, len(history))
	for _, itemID := range core.SortedKeys(history) {
		ratings = append(ratings, core.Rating{UserID: userID, ItemID: itemID, Value: history[itemID]})
	}
	return ratings, nil
}

// batchDecode 批量读取并解码，不存在的 key 在结果中缺省。
func batchDecode[T any](
	ctx context.Context,
	s core.Store,
	keyOf func(string) string,
	ids []string,
) (map[string]T, error) {
	out := make(map[string]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyOf(id)
	}
	raw, err := s.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	for i, id := range ids {
		data, ok := raw[keys[i]]
		if !ok {
			continue
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, core.NewInvalidModelData(keys[i], err)
		}
		out[id] = v
	}
	return out, nil
}

var _ core.ModelStore = (*StoreAdapter)(nil)

// Fixture 是写入 StoreAdapter 的一份模型数据，用于测试与离线灌数。
type Fixture struct {
	Vectors       map[string]core.FeatureVector
	Neighborhoods map[string]core.SimilarityNeighborhood
	Means         core.ItemMeanTable
	Ratings       []core.Rating
}

// SetupModelData 把 Fixture 按 StoreAdapter 的 key 布局写入存储。
func SetupModelData(ctx context.Context, adapter *StoreAdapter, f Fixture) error {
	kvs := make(map[string][]byte)

	put := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		kvs[key] = data
		return nil
	}

	for id, vec := range f.Vectors {
		if err := put(adapter.vectorKey(id), vec); err != nil {
			return err
		}
	}
	for id, nbr := range f.Neighborhoods {
		if err := put(adapter.nbrKey(id), nbr); err != nil {
			return err
		}
	}
	for id, mean := range f.Means {
		if err := put(adapter.meanKey(id), mean); err != nil {
			return err
		}
	}

	users := make(map[string]map[string]float64)
	for _, r := range f.Ratings {
		if users[r.UserID] == nil {
			users[r.UserID] = make(map[string]float64)
		}
		users[r.UserID][r.ItemID] = r.Value
	}
	userIDs := make([]string, 0, len(users))
	for id := range users {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)
	for _, id := range userIDs {
		if err := put(adapter.userKey(id), users[id]); err != nil {
			return err
		}
	}

	return adapter.store.BatchSet(ctx, kvs)
}
