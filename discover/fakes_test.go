package discover

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudcontrol"
	cctypes "github.com/aws/aws-sdk-go-v2/service/cloudcontrol/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/welldone-cloud/aws-list-resources/types"
)

// fakeCloudFormation serves ListTypes pages keyed by provisioning type.
type fakeCloudFormation struct {
	pages map[cftypes.ProvisioningType][][]string
	err   error
	calls int
}

func (f *fakeCloudFormation) ListTypes(_ context.Context, params *cloudformation.ListTypesInput, _ ...func(*cloudformation.Options)) (*cloudformation.ListTypesOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	pages := f.pages[params.ProvisioningType]
	idx := 0
	if params.NextToken != nil {
		var err error
		idx, err = strconv.Atoi(*params.NextToken)
		if err != nil {
			return nil, err
		}
	}
	if idx >= len(pages) {
		return &cloudformation.ListTypesOutput{}, nil
	}

	out := &cloudformation.ListTypesOutput{}
	for _, name := range pages[idx] {
		out.TypeSummaries = append(out.TypeSummaries, cftypes.TypeSummary{TypeName: aws.String(name)})
	}
	if idx+1 < len(pages) {
		out.NextToken = aws.String(strconv.Itoa(idx + 1))
	}
	return out, nil
}

// loopingCloudFormation always hands back the same continuation token.
type loopingCloudFormation struct{}

func (f *loopingCloudFormation) ListTypes(context.Context, *cloudformation.ListTypesInput, ...func(*cloudformation.Options)) (*cloudformation.ListTypesOutput, error) {
	return &cloudformation.ListTypesOutput{NextToken: aws.String("again")}, nil
}

// fakeCloudControl serves ListResources pages keyed by resource type.
type fakeCloudControl struct {
	pages map[string][][]cctypes.ResourceDescription
	errs  map[string]error
}

func (f *fakeCloudControl) ListResources(_ context.Context, params *cloudcontrol.ListResourcesInput, _ ...func(*cloudcontrol.Options)) (*cloudcontrol.ListResourcesOutput, error) {
	typeName := aws.ToString(params.TypeName)
	if err, ok := f.errs[typeName]; ok {
		return nil, err
	}

	pages := f.pages[typeName]
	idx := 0
	if params.NextToken != nil {
		var err error
		idx, err = strconv.Atoi(*params.NextToken)
		if err != nil {
			return nil, err
		}
	}
	if idx >= len(pages) {
		return &cloudcontrol.ListResourcesOutput{}, nil
	}

	out := &cloudcontrol.ListResourcesOutput{ResourceDescriptions: pages[idx]}
	if idx+1 < len(pages) {
		out.NextToken = aws.String(strconv.Itoa(idx + 1))
	}
	return out, nil
}

type fakeClientFactory struct {
	cfn map[string]CloudFormationAPI
	cc  map[string]CloudControlAPI
}

func (f *fakeClientFactory) CloudFormation(region string) CloudFormationAPI {
	return f.cfn[region]
}

func (f *fakeClientFactory) CloudControl(region string) CloudControlAPI {
	return f.cc[region]
}

// fakeEC2 reports a fixed set of enabled regions.
type fakeEC2 struct {
	regions []string
	err     error
}

func (f *fakeEC2) DescribeRegions(context.Context, *ec2.DescribeRegionsInput, ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &ec2.DescribeRegionsOutput{}
	for _, name := range f.regions {
		out.Regions = append(out.Regions, ec2types.Region{RegionName: aws.String(name)})
	}
	return out, nil
}

// fakeCatalog implements TypeCatalog directly for orchestrator tests.
type fakeCatalog struct {
	types map[string][]string
	errs  map[string]error
	calls int
}

func (f *fakeCatalog) SupportedTypes(_ context.Context, region string) ([]string, error) {
	f.calls++
	if err, ok := f.errs[region]; ok {
		return nil, err
	}
	supported, ok := f.types[region]
	if !ok {
		return nil, errors.New("unknown region")
	}
	return supported, nil
}

// fakeLister implements InstanceLister directly for orchestrator tests.
type fakeLister struct {
	results map[string]types.ListResult // keyed region/type
}

func (f *fakeLister) ListInstances(_ context.Context, region, resourceType string) types.ListResult {
	result, ok := f.results[region+"/"+resourceType]
	if !ok {
		return types.ListResult{Status: types.ListFailed, Message: fmt.Sprintf("no fake result for %s in %s", resourceType, region)}
	}
	return result
}

func instances(ids ...string) []types.Resource {
	resources := make([]types.Resource, 0, len(ids))
	for _, id := range ids {
		resources = append(resources, types.Resource{Identifier: id})
	}
	return resources
}
