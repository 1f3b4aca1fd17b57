package util

// ContextUserKey gin 上下文中保存令牌声明的键
const ContextUserKey = "user"
