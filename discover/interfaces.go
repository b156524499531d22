package discover

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudcontrol"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/welldone-cloud/aws-list-resources/types"
)

// CloudFormationAPI defines the CloudFormation registry operations used by
// the catalog. The generated SDK client satisfies it, as do test fakes.
type CloudFormationAPI interface {
	ListTypes(ctx context.Context, params *cloudformation.ListTypesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListTypesOutput, error)
}

// CloudControlAPI defines the Cloud Control operations used by the lister.
type CloudControlAPI interface {
	ListResources(ctx context.Context, params *cloudcontrol.ListResourcesInput, optFns ...func(*cloudcontrol.Options)) (*cloudcontrol.ListResourcesOutput, error)
}

// EC2API defines the EC2 operations used for region resolution.
type EC2API interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

// STSAPI defines the STS operations used for identity resolution.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ClientFactory hands out regional API clients.
type ClientFactory interface {
	CloudFormation(region string) CloudFormationAPI
	CloudControl(region string) CloudControlAPI
}

// TypeCatalog yields the resource types listable in a region.
type TypeCatalog interface {
	SupportedTypes(ctx context.Context, region string) ([]string, error)
}

// InstanceLister enumerates the instances of one resource type in one
// region.
type InstanceLister interface {
	ListInstances(ctx context.Context, region, resourceType string) types.ListResult
}
