package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// ErrNoOutput is returned when no output objects exist under a prefix.
var ErrNoOutput = errors.New("no command output found")

// CommandOutput is the reassembled output of one command invocation.
type CommandOutput struct {
	Stdout string
	Stderr string
}

// OutputStore wraps the S3 client used to read command output.
type OutputStore struct {
	s3 *s3.Client
}

// NewOutputStore creates an OutputStore from a shared AWS config.
func NewOutputStore(cfg aws.Config, optFns ...func(*s3.Options)) *OutputStore {
	return &OutputStore{s3: s3.NewFromConfig(cfg, optFns...)}
}

// InvocationPrefix returns the key prefix SSM writes an invocation's output under.
func InvocationPrefix(keyPrefix, commandID, instanceID string) string {
	return path.Join(keyPrefix, commandID, instanceID) + "/"
}

// FetchCommandOutput reads every stdout and stderr object below prefix and
// concatenates them in key order.
func (o *OutputStore) FetchCommandOutput(ctx context.Context, bucketName, prefix string) (*CommandOutput, error) {
	keys, err := o.ListObjects(ctx, bucketName, prefix)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	var stdout, stderr strings.Builder
	found := 0
	for _, key := range keys {
		var dst *strings.Builder
		switch path.Base(key) {
		case "stdout":
			dst = &stdout
		case "stderr":
			dst = &stderr
		default:
			continue
		}

		data, err := o.GetObject(ctx, bucketName, key)
		if err != nil {
			if isNotFoundError(err) {
				continue
			}
			return nil, err
		}
		dst.Write(data)
		found++
	}

	if found == 0 {
		return nil, fmt.Errorf("%w under s3://%s/%s", ErrNoOutput, bucketName, prefix)
	}

	return &CommandOutput{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// ListObjects lists all object keys in a bucket below prefix.
func (o *OutputStore) ListObjects(ctx context.Context, bucketName, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucketName),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(o.s3, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", bucketName, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}

// GetObject downloads an object from a bucket.
func (o *OutputStore) GetObject(ctx context.Context, bucketName, key string) ([]byte, error) {
	result, err := o.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucketName, err)
	}
	defer result.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(result.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	return buf.Bytes(), nil
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey" || code == "404"
	}

	return false
}
