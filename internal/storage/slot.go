package storage

import "context"

// Slot 单个键值持久化槽，保存序列化后的习惯集合
// Slot is a single keyed persistent value holding the serialized habit
// collection. Read returns (nil, nil) when the key has never been written.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// DefaultKey 默认槽键名 / Default slot key
const DefaultKey = "habits"
