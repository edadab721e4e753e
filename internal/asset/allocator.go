package asset

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/anoixa/tryon-server/utils"
)

// maxAllocationAttempts 分配标识符的最大尝试次数
// 时间戳加 5 位随机后缀的空间足够大，正常情况下一次即可命中
const maxAllocationAttempts = 5

// randomSuffixLength 随机后缀长度
const randomSuffixLength = 5

// ExistsFunc 检查候选标识符是否已被占用
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// AllocateID 分配新的业务标识符
// 格式: <prefix><base36 毫秒时间戳>-<5 位 base36 随机串>，全部大写
// 每个候选先经 exists 查重，连续 maxAllocationAttempts 次冲突
// 返回 ErrAllocationExhausted
func AllocateID(ctx context.Context, prefix string, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		candidate, err := generateCandidate(prefix)
		if err != nil {
			return "", fmt.Errorf("failed to generate identifier candidate: %w", err)
		}

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check identifier availability: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrAllocationExhausted
}

// generateCandidate 生成一个候选标识符
func generateCandidate(prefix string) (string, error) {
	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix, err := utils.GenerateBase36String(randomSuffixLength)
	if err != nil {
		return "", err
	}
	return prefix + timestamp + "-" + suffix, nil
}
