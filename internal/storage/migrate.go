package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// MigrateFromJSON 将旧版 JSON 文件迁移到目标槽（仅当目标为空）
// MigrateFromJSON copies a legacy JSON slot file into dst when dst holds
// nothing yet. It reports whether a copy happened; a missing legacy file is
// not an error.
func MigrateFromJSON(ctx context.Context, jsonPath string, dst Slot) (bool, error) {
	jsonPath = strings.TrimSpace(jsonPath)
	if jsonPath == "" {
		return false, nil
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read legacy %s: %w", jsonPath, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return false, nil
	}

	// 检查是否已迁移 / Check if already migrated
	existing, err := dst.Read(ctx)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if err := dst.Write(ctx, data); err != nil {
		return false, fmt.Errorf("migrate %s: %w", jsonPath, err)
	}
	return true, nil
}
