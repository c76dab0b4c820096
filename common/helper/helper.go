package helper

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenRequestID 生成请求ID：时间戳(YYYYMMDDHHmmss) + 8位UUID
func GenRequestID() string {
	shortUUID := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return time.Now().Format("20060102150405") + shortUUID
}

func GetTimestamp() int64 {
	return time.Now().Unix()
}

func GetTimeString() string {
	now := time.Now()
	return fmt.Sprintf("%s%d", now.Format("20060102150405"), now.UnixNano()%1e9)
}

func MessageWithRequestId(message string, id string) string {
	return fmt.Sprintf("%s (request id: %s)", message, id)
}

func Max(a int, b int) int {
	if a >= b {
		return a
	}
	return b
}

func AssignOrDefault(value string, defaultValue string) string {
	if len(value) != 0 {
		return value
	}
	return defaultValue
}
