package amazon

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/imamik/museumctl/internal/util/async"
)

// maxDeleteBatch is the S3 limit on keys per DeleteObjects call.
const maxDeleteBatch = 1000

// EnsureBucket creates the bucket and returns its actual name. Returns the
// requested name unchanged if the bucket already exists and is owned by us;
// a name taken by another account is an error.
func (c *Client) EnsureBucket(ctx context.Context, name, region string) (string, error) {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(name),
	}
	// us-east-1 rejects an explicit location constraint.
	if region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	if _, err := c.s3.CreateBucket(ctx, input); err != nil {
		if isBucketAlreadyOwnedByYou(err) {
			return name, nil
		}
		if isBucketAlreadyExists(err) {
			return "", fmt.Errorf("bucket name %s is already taken by another account", name)
		}
		return "", fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	return name, nil
}

// EmptyBucket deletes every object in the bucket. A missing bucket is not an
// error.
func (c *Client) EmptyBucket(ctx context.Context, name string) error {
	var keys []string
	var token *string
	for {
		out, err := c.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(name),
			ContinuationToken: token,
		})
		if err != nil {
			if isNotFoundError(err) {
				return nil
			}
			return fmt.Errorf("failed to list objects in bucket %s: %w", name, err)
		}
		for _, obj := range out.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		token = out.NextContinuationToken
	}

	if len(keys) == 0 {
		return nil
	}

	batches := chunkKeys(keys, maxDeleteBatch)
	tasks := make([]async.Task, 0, len(batches))
	for i, batch := range batches {
		tasks = append(tasks, async.Task{
			Name: fmt.Sprintf("delete batch %d/%d from %s", i+1, len(batches), name),
			Func: func(ctx context.Context) error {
				return c.deleteBatch(ctx, name, batch)
			},
		})
	}
	return async.RunParallel(ctx, tasks)
}

func (c *Client) deleteBatch(ctx context.Context, bucket string, keys []string) error {
	objects := make([]types.ObjectIdentifier, len(keys))
	for i, key := range keys {
		objects[i] = types.ObjectIdentifier{Key: aws.String(key)}
	}

	out, err := c.s3.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete objects: %w", err)
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("failed to delete %d objects, first: %s %s",
			len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Message))
	}
	return nil
}

// chunkKeys splits keys into batches of at most size.
func chunkKeys(keys []string, size int) [][]string {
	var batches [][]string
	for len(keys) > size {
		batches = append(batches, keys[:size])
		keys = keys[size:]
	}
	if len(keys) > 0 {
		batches = append(batches, keys)
	}
	return batches
}

// DeleteBucket deletes the bucket. The bucket must be empty; a missing bucket
// is not an error.
func (c *Client) DeleteBucket(ctx context.Context, name string) error {
	_, err := c.s3.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete bucket %s: %w", name, err)
	}
	return nil
}
