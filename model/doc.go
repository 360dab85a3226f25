// Package model 提供打分核心所需外部模型（内容向量、相似邻域、物品均值、用户评分）的只读访问。
//
// 模型由离线任务训练并写入存储，本包只负责读取与解码：
//   - StoreAdapter：基于 core.Store（Redis / Memory）的 JSON 快照
//   - FeastVectors：从 Feast 在线特征服务读取物品内容向量
//   - Loader：按一次请求需要的 ID 并发加载，产出 Snapshot 供打分核心查询
package model
