package model

import (
	"context"
	"fmt"
	"strings"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	"github.com/feast-dev/feast/sdk/go/protos/feast/types"
	"github.com/go-playground/validator/v10"

	"github.com/rushteam/ratekit/core"
)

// FeastConfig 是 Feast 在线特征服务的连接配置。
type FeastConfig struct {
	Host    string `yaml:"host" json:"host" validate:"required"`
	Port    int    `yaml:"port" json:"port"`
	Project string `yaml:"project" json:"project" validate:"required"`

	// Features 是特征引用列表，格式 "feature_table:term"，term 即内容向量的维度名
	Features []string `yaml:"features" json:"features" validate:"required,min=1"`

	// EntityKey 物品实体列名，默认 "item_id"
	EntityKey string `yaml:"entity_key" json:"entity_key"`
}

// fetchRows 执行一次在线特征请求，返回与实体行一一对应的结果行。
type fetchRows func(ctx context.Context, req *feastsdk.OnlineFeaturesRequest) ([]feastsdk.Row, error)

// FeastVectors 从 Feast 在线特征服务读取物品内容向量，实现 core.VectorStore。
//
// 每个特征引用 "table:term" 对应向量中的一个 term；
// 非数值或为 0 的特征不写入向量。
type FeastVectors struct {
	cfg   FeastConfig
	fetch fetchRows
}

// NewFeastVectors 通过 gRPC 连接 Feast Serving。
func NewFeastVectors(cfg FeastConfig) (*FeastVectors, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("feast config: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 6565
	}
	client, err := feastsdk.NewGrpcClient(cfg.Host, cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("connect feast %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return newFeastVectors(cfg, func(ctx context.Context, req *feastsdk.OnlineFeaturesRequest) ([]feastsdk.Row, error) {
		resp, err := client.GetOnlineFeatures(ctx, req)
		if err != nil {
			return nil, err
		}
		return resp.Rows(), nil
	}), nil
}

func newFeastVectors(cfg FeastConfig, fetch fetchRows) *FeastVectors {
	if cfg.EntityKey == "" {
		cfg.EntityKey = "item_id"
	}
	return &FeastVectors{cfg: cfg, fetch: fetch}
}

func (f *FeastVectors) ItemVectors(ctx context.Context, itemIDs []string) (map[string]core.FeatureVector, error) {
	out := make(map[string]core.FeatureVector, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	entities := make([]feastsdk.Row, len(itemIDs))
	for i, id := range itemIDs {
		entities[i] = feastsdk.Row{f.cfg.EntityKey: feastsdk.StrVal(id)}
	}

	rows, err := f.fetch(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: f.cfg.Features,
		Entities: entities,
		Project:  f.cfg.Project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}
	if len(rows) != len(itemIDs) {
		return nil, core.NewInvalidModelData("feast:"+f.cfg.Project,
			fmt.Errorf("expected %d rows, got %d", len(itemIDs), len(rows)))
	}

	for i, row := range rows {
		vec := make(core.FeatureVector)
		for _, ref := range f.cfg.Features {
			w, ok := numericValue(row[ref])
			if !ok || w == 0 {
				continue
			}
			vec[termOf(ref)] = w
		}
		if len(vec) > 0 {
			out[itemIDs[i]] = vec
		}
	}
	return out, nil
}

// termOf 取特征引用中 ':' 之后的部分作为 term。
func termOf(ref string) string {
	if i := strings.LastIndexByte(ref, ':'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func numericValue(v *types.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.GetVal().(type) {
	case *types.Value_DoubleVal:
		return val.DoubleVal, true
	case *types.Value_FloatVal:
		return float64(val.FloatVal), true
	case *types.Value_Int64Val:
		return float64(val.Int64Val), true
	case *types.Value_Int32Val:
		return float64(val.Int32Val), true
	case *types.Value_BoolVal:
		if val.BoolVal {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

var _ core.VectorStore = (*FeastVectors)(nil)
