package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitframe/tryon-api/common/config"
)

func TestResultObjectKey(t *testing.T) {
	key := ResultObjectKey("20250101123000ABCDEF12")
	require.True(t, strings.HasPrefix(key, "tryon-results/"), "key = %s", key)
	require.True(t, strings.HasSuffix(key, "-20250101123000ABCDEF12.jpg"), "key = %s", key)
	// 时间戳部分固定为 yyyymmdd-hhmmss
	middle := strings.TrimSuffix(strings.TrimPrefix(key, "tryon-results/"), "-20250101123000ABCDEF12.jpg")
	assert.Len(t, middle, 15)
}

func TestPublicURL(t *testing.T) {
	savedPublic := config.CfFilePublicUrl
	savedEndpoint := config.CfFileEndpoint
	savedBucket := config.CfBucketFileName
	t.Cleanup(func() {
		config.CfFilePublicUrl = savedPublic
		config.CfFileEndpoint = savedEndpoint
		config.CfBucketFileName = savedBucket
	})

	config.CfFileEndpoint = "https://account.r2.cloudflarestorage.com"
	config.CfBucketFileName = "tryon"

	config.CfFilePublicUrl = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/tryon-results/a.jpg", PublicURL("tryon-results/a.jpg"))

	config.CfFilePublicUrl = ""
	assert.Equal(t, "https://account.r2.cloudflarestorage.com/tryon/tryon-results/a.jpg", PublicURL("tryon-results/a.jpg"))
}

func TestUploadResultRequiresConfig(t *testing.T) {
	savedAccess := config.CfFileAccessKey
	savedSecret := config.CfFileSecretKey
	savedBucket := config.CfBucketFileName
	savedEndpoint := config.CfFileEndpoint
	t.Cleanup(func() {
		config.CfFileAccessKey = savedAccess
		config.CfFileSecretKey = savedSecret
		config.CfBucketFileName = savedBucket
		config.CfFileEndpoint = savedEndpoint
	})

	config.CfFileAccessKey = ""
	config.CfFileSecretKey = ""
	config.CfBucketFileName = ""
	config.CfFileEndpoint = ""

	_, err := UploadResult(context.Background(), "tryon-results/a.jpg", []byte("x"), "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}
