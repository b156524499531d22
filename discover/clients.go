package discover

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudcontrol"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// DefaultRegion anchors the account-level calls (identity, region
// enumeration) that are not bound to a target region.
const DefaultRegion = "us-east-1"

// retryMaxAttempts bounds the SDK's own standard-mode retries. Throttling
// and transient transport failures are absorbed here; the discovery core
// only ever sees the final outcome.
const retryMaxAttempts = 5

// Clients builds per-region AWS service clients from one shared base
// configuration.
type Clients struct {
	base aws.Config
}

// NewClients loads the AWS configuration, optionally under a named profile.
func NewClients(ctx context.Context, profile string) (*Clients, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(DefaultRegion),
		awsconfig.WithRetryMode(aws.RetryModeStandard),
		awsconfig.WithRetryMaxAttempts(retryMaxAttempts),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Clients{base: cfg}, nil
}

func (c *Clients) regional(region string) aws.Config {
	cfg := c.base.Copy()
	cfg.Region = region
	return cfg
}

// CloudFormation returns a CloudFormation client for the region.
func (c *Clients) CloudFormation(region string) CloudFormationAPI {
	return cloudformation.NewFromConfig(c.regional(region))
}

// CloudControl returns a Cloud Control client for the region.
func (c *Clients) CloudControl(region string) CloudControlAPI {
	return cloudcontrol.NewFromConfig(c.regional(region))
}

// EC2 returns an EC2 client in the default region.
func (c *Clients) EC2() EC2API {
	return ec2.NewFromConfig(c.base)
}

// STS returns an STS client in the default region.
func (c *Clients) STS() STSAPI {
	return sts.NewFromConfig(c.base)
}
