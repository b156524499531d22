package discover

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// CallerIdentity labels a run with the account and principal it ran as.
type CallerIdentity struct {
	AccountID string
	Principal string
}

// ResolveIdentity resolves the caller's account and principal. Failure here
// means no usable credentials, which is fatal for the whole run.
func ResolveIdentity(ctx context.Context, client STSAPI) (CallerIdentity, error) {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return CallerIdentity{}, fmt.Errorf("no or invalid AWS credentials configured: %w", err)
	}
	return CallerIdentity{
		AccountID: aws.ToString(out.Account),
		Principal: aws.ToString(out.Arn),
	}, nil
}
