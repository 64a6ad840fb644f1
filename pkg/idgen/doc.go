// Package idgen 提供递增 ID 生成器
//
// 使用 Sonyflake 算法生成全局唯一且按时间递增的 ID，格式为 {前缀}-{数字}：
//   - 标签 ID: tag-{递增数字}
//   - 变量值 ID: val-{递增数字}
//   - 提交记录 ID: sub-{递增数字}
//
//	tagID, err := idgen.GenerateTagID()
//	// tagID: "tag-1234567890"
package idgen
