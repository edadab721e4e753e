package asset

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var garmentIDPattern = regexp.MustCompile(`^GRM-[0-9A-Z]+-[0-9A-Z]{5}$`)

// TestAllocateID_Format 测试标识符格式
func TestAllocateID_Format(t *testing.T) {
	id, err := AllocateID(context.Background(), "GRM-", func(ctx context.Context, id string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Regexp(t, garmentIDPattern, id)
}

// TestAllocateID_RetryOnCollision 冲突时重试直到找到可用标识符
func TestAllocateID_RetryOnCollision(t *testing.T) {
	calls := 0
	id, err := AllocateID(context.Background(), "GRM-", func(ctx context.Context, id string) (bool, error) {
		calls++
		// 前两个候选冲突，第三个可用
		return calls <= 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Regexp(t, garmentIDPattern, id)
}

// TestAllocateID_Exhausted 连续冲突耗尽重试次数
func TestAllocateID_Exhausted(t *testing.T) {
	calls := 0
	_, err := AllocateID(context.Background(), "GRM-", func(ctx context.Context, id string) (bool, error) {
		calls++
		return true, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllocationExhausted)
	assert.Equal(t, maxAllocationAttempts, calls)
}

// TestAllocateID_ExistsError 查重失败时直接返回错误
func TestAllocateID_ExistsError(t *testing.T) {
	_, err := AllocateID(context.Background(), "GRM-", func(ctx context.Context, id string) (bool, error) {
		return false, assert.AnError
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAllocationExhausted)
}

// TestAllocateID_Unique 连续分配的标识符互不相同
func TestAllocateID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	noCollision := func(ctx context.Context, id string) (bool, error) { return false, nil }

	for i := 0; i < 100; i++ {
		id, err := AllocateID(context.Background(), "GRM-", noCollision)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id generated: %s", id)
		seen[id] = true
	}
}
