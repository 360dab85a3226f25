// Package store 提供 core.Store 的实现：MemoryStore（测试/开发）与 RedisStore（生产）。
//
// 接口定义在 core 包：
//
//	var s core.Store = store.NewMemoryStore()
package store
