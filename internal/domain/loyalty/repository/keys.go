package repository

import (
	"encoding/json"
	"fmt"
	"loyalty_rewards/internal/domain/loyalty/model"
)

func shopKey(slug string) string {
	return "shop:" + slug
}

func customerKey(slug, customerID string) string {
	return "customer:" + slug + ":" + customerID
}

func activityKey(slug, customerID string) string {
	return "activity:" + slug + ":" + customerID
}

// decode 反序列化并检查结构版本
func decode(data []byte, dest interface{ schema() int }) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if v := dest.schema(); v > model.SchemaVersion {
		return fmt.Errorf("unsupported record schema version %d", v)
	}
	return nil
}
