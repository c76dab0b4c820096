package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fitframe/tryon-api/common/config"
	"github.com/fitframe/tryon-api/common/logger"
)

// ResultObjectKey 归档对象的存储路径：tryon-results/时间戳-请求ID.jpg
func ResultObjectKey(requestId string) string {
	return path.Join("tryon-results", fmt.Sprintf("%s-%s.jpg", time.Now().Format("20060102-150405"), requestId))
}

// PublicURL 归档对象的公开访问地址，不依赖上传是否已完成。
// 配了自定义域走自定义域，否则用 Path-Style 的 Endpoint 地址。
func PublicURL(objectKey string) string {
	if config.CfFilePublicUrl != "" {
		return fmt.Sprintf("%s/%s", config.CfFilePublicUrl, objectKey)
	}
	return fmt.Sprintf("%s/%s/%s", config.CfFileEndpoint, config.CfBucketFileName, objectKey)
}

// UploadResult 把生成结果上传到 R2。
// 四项 R2_* 配置不齐时直接报错，调用方应当先检查 config.ArchiveEnabled。
func UploadResult(ctx context.Context, objectKey string, data []byte, mimeType string) (string, error) {
	if !config.ArchiveEnabled() {
		return "", fmt.Errorf("R2 configuration is incomplete")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.CfFileAccessKey, config.CfFileSecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{URL: config.CfFileEndpoint}, nil
			}),
		),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create AWS config: %v", err)
	}

	// Path-Style 避免虚拟主机风格的子域名 TLS 问题
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(config.CfBucketFileName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %v", err)
	}

	resultUrl := PublicURL(objectKey)
	logger.SysLog(fmt.Sprintf("result archived to R2: %s (size: %d bytes)", resultUrl, len(data)))
	return resultUrl, nil
}
