package repository

import (
	"encoding/json"

	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// toItem 领域模型 -> Record Store document（JSON 往返，保持 wire 字段名）
func toItem(v any) (store.Item, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var item store.Item
	if err := json.Unmarshal(b, &item); err != nil {
		return nil, err
	}
	return item, nil
}

// fromItem Record Store document -> 领域模型
func fromItem(item store.Item, out any) error {
	b, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func fromItems[T any](items []store.Item) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := fromItem(item, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func itemString(item store.Item, key string) string {
	s, _ := item[key].(string)
	return s
}
