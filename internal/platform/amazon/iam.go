package amazon

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
)

// EnsurePrincipal creates the IAM user and attaches the inline policy. An
// existing user is reused; the policy is always rewritten so drift from an
// earlier apply converges.
func (c *Client) EnsurePrincipal(ctx context.Context, userName, policyName, policyDocument string) error {
	_, err := c.iam.CreateUser(ctx, &iam.CreateUserInput{
		UserName: aws.String(userName),
	})
	if err != nil && !isEntityExistsError(err) {
		return fmt.Errorf("failed to create user %s: %w", userName, err)
	}

	_, err = c.iam.PutUserPolicy(ctx, &iam.PutUserPolicyInput{
		UserName:       aws.String(userName),
		PolicyName:     aws.String(policyName),
		PolicyDocument: aws.String(policyDocument),
	})
	if err != nil {
		return fmt.Errorf("failed to attach policy %s to user %s: %w", policyName, userName, err)
	}
	return nil
}

// RotateAccessKey deletes the user's existing access keys and mints a fresh
// pair. AWS reveals the secret half only at creation time, so converging on
// "one working pair" means rotation rather than reuse.
func (c *Client) RotateAccessKey(ctx context.Context, userName string) (id, secret string, err error) {
	if err := c.DeleteAccessKeys(ctx, userName); err != nil {
		return "", "", err
	}

	out, err := c.iam.CreateAccessKey(ctx, &iam.CreateAccessKeyInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to create access key for %s: %w", userName, err)
	}
	return aws.ToString(out.AccessKey.AccessKeyId), aws.ToString(out.AccessKey.SecretAccessKey), nil
}

// DeleteAccessKeys deletes every access key of the user. A missing user is
// not an error.
func (c *Client) DeleteAccessKeys(ctx context.Context, userName string) error {
	list, err := c.iam.ListAccessKeys(ctx, &iam.ListAccessKeysInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		if isNoSuchEntityError(err) {
			return nil
		}
		return fmt.Errorf("failed to list access keys for %s: %w", userName, err)
	}

	for _, md := range list.AccessKeyMetadata {
		if md.AccessKeyId == nil {
			continue
		}
		_, err := c.iam.DeleteAccessKey(ctx, &iam.DeleteAccessKeyInput{
			UserName:    aws.String(userName),
			AccessKeyId: md.AccessKeyId,
		})
		if err != nil && !isNoSuchEntityError(err) {
			return fmt.Errorf("failed to delete access key %s: %w", aws.ToString(md.AccessKeyId), err)
		}
	}
	return nil
}

// DeletePrincipal detaches the inline policy and deletes the user. Missing
// entities are not errors, so destroy stays idempotent.
func (c *Client) DeletePrincipal(ctx context.Context, userName, policyName string) error {
	_, err := c.iam.DeleteUserPolicy(ctx, &iam.DeleteUserPolicyInput{
		UserName:   aws.String(userName),
		PolicyName: aws.String(policyName),
	})
	if err != nil && !isNoSuchEntityError(err) {
		return fmt.Errorf("failed to delete policy %s of user %s: %w", policyName, userName, err)
	}

	_, err = c.iam.DeleteUser(ctx, &iam.DeleteUserInput{
		UserName: aws.String(userName),
	})
	if err != nil && !isNoSuchEntityError(err) {
		return fmt.Errorf("failed to delete user %s: %w", userName, err)
	}
	return nil
}
