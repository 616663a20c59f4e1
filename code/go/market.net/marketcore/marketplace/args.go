package marketplace

import (
	"fmt"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
)

// Args carries a call's arguments as decoded JSON. Numbers arrive as
// float64 from the wire; the accessors normalize them.
type Args map[string]interface{}

func (a Args) String(field string) (string, error) {
	val, ok := a[field]
	if !ok {
		return "", common.InvalidRequest(fmt.Sprintf("input %v is required", field))
	}
	sval, ok := val.(string)
	if !ok {
		return "", common.InvalidRequest(fmt.Sprintf("input %v must be a string", field))
	}
	return sval, nil
}

func (a Args) Int64(field string) (int64, error) {
	val, ok := a[field]
	if !ok {
		return 0, common.InvalidRequest(fmt.Sprintf("input %v is required", field))
	}
	switch n := val.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	}
	return 0, common.InvalidRequest(fmt.Sprintf("input %v must be a number", field))
}

func (a Args) Int64Slice(field string) ([]int64, error) {
	val, ok := a[field]
	if !ok {
		return nil, common.InvalidRequest(fmt.Sprintf("input %v is required", field))
	}
	switch list := val.(type) {
	case []int64:
		return list, nil
	case []interface{}:
		out := make([]int64, 0, len(list))
		for _, item := range list {
			n, ok := item.(float64)
			if !ok {
				return nil, common.InvalidRequest(fmt.Sprintf("input %v must be a number list", field))
			}
			out = append(out, int64(n))
		}
		return out, nil
	}
	return nil, common.InvalidRequest(fmt.Sprintf("input %v must be a number list", field))
}
