package marketplace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
)

func TestArgs_FromWireJSON(t *testing.T) {
	var args Args
	err := json.Unmarshal([]byte(`{"address":"abc","machine_id":10001,"ports":[22,8080]}`), &args)
	require.NoError(t, err)

	s, err := args.String("address")
	require.NoError(t, err)
	require.Equal(t, "abc", s)

	// JSON numbers arrive as float64 and are normalized
	n, err := args.Int64("machine_id")
	require.NoError(t, err)
	require.Equal(t, int64(10001), n)

	list, err := args.Int64Slice("ports")
	require.NoError(t, err)
	require.Equal(t, []int64{22, 8080}, list)
}

func TestArgs_Missing(t *testing.T) {
	args := Args{}

	_, err := args.String("address")
	require.Equal(t, "invalid_request", common.ErrorCode(err))

	_, err = args.Int64("machine_id")
	require.Equal(t, "invalid_request", common.ErrorCode(err))

	_, err = args.Int64Slice("ports")
	require.Equal(t, "invalid_request", common.ErrorCode(err))
}

func TestArgs_WrongType(t *testing.T) {
	args := Args{
		"address":    7,
		"machine_id": "ten",
		"ports":      []interface{}{"not a number"},
	}

	_, err := args.String("address")
	require.Error(t, err)

	_, err = args.Int64("machine_id")
	require.Error(t, err)

	_, err = args.Int64Slice("ports")
	require.Error(t, err)
}

func TestArgs_NativeInts(t *testing.T) {
	// args built in-process carry native integer types
	args := Args{"machine_id": int64(5), "order_id": 6, "ports": []int64{22}}

	n, err := args.Int64("machine_id")
	require.NoError(t, err)
	require.Equal(t, int64(5), n)

	n, err = args.Int64("order_id")
	require.NoError(t, err)
	require.Equal(t, int64(6), n)

	list, err := args.Int64Slice("ports")
	require.NoError(t, err)
	require.Equal(t, []int64{22}, list)
}
