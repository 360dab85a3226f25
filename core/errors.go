package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），可穿透 fmt.Errorf("%w") 包装
//
// 使用场景：
//   - 评分历史为空：EMPTY_HISTORY
//   - 候选物品缺少均值：MISSING_ITEM_MEAN
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "EMPTY_HISTORY", "NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "rating", "score", "store"）
	ItemID  string // 关联的物品 ID（可选）
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is 按 Module + Code 判等，使 errors.Is(err, ErrEmptyHistory) 对新建的同类错误也成立。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Module == t.Module && e.Code == t.Code
}

// GetDomainError 获取错误链中的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound        = "NOT_FOUND"         // 资源不存在
	ErrorCodeNotSupported    = "NOT_SUPPORTED"     // 操作不支持
	ErrorCodeInvalidInput    = "INVALID_INPUT"     // 模型数据无法解码 / 与请求不匹配
	ErrorCodeEmptyHistory    = "EMPTY_HISTORY"     // 评分历史为空
	ErrorCodeMissingItemMean = "MISSING_ITEM_MEAN" // 物品均值表中不存在该物品
)

// 模块名称常量
const (
	ModuleRating = "rating" // 评分统计 / 用户画像
	ModuleScore  = "score"  // 邻域打分
	ModuleStore  = "store"  // 存储模块
	ModuleModel  = "model"  // 外部模型访问
)

// ErrEmptyHistory 表示评分序列为空，均值无定义。
// 调用方自行决定是否回退到冷启动策略。
var ErrEmptyHistory = NewDomainError(ModuleRating, ErrorCodeEmptyHistory, "rating: empty rating history")

// NewMissingItemMean 创建候选物品缺少均值的错误。
func NewMissingItemMean(itemID string) *DomainError {
	return &DomainError{
		Module:  ModuleScore,
		Code:    ErrorCodeMissingItemMean,
		Message: "score: no mean rating for item " + itemID,
		ItemID:  itemID,
	}
}

// NewInvalidModelData 创建模型数据无效的错误，key 为出错的存储 key 或数据源。
func NewInvalidModelData(key string, cause error) *DomainError {
	return &DomainError{
		Module:  ModuleModel,
		Code:    ErrorCodeInvalidInput,
		Message: fmt.Sprintf("model: invalid data at %s: %v", key, cause),
	}
}

// IsEmptyHistory 检查错误是否为 EMPTY_HISTORY
func IsEmptyHistory(err error) bool {
	return hasCode(err, ModuleRating, ErrorCodeEmptyHistory)
}

// IsMissingItemMean 检查错误是否为 MISSING_ITEM_MEAN
func IsMissingItemMean(err error) bool {
	return hasCode(err, ModuleScore, ErrorCodeMissingItemMean)
}

// IsInvalidModelData 检查错误是否为模型数据无效
func IsInvalidModelData(err error) bool {
	return hasCode(err, ModuleModel, ErrorCodeInvalidInput)
}

// IsNotFound 检查错误是否为 NOT_FOUND（任意模块）
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

func hasCode(err error, module, code string) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == module && domainErr.Code == code
}
