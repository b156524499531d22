package discover

import (
	"context"
	"errors"
	"testing"

	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedTypes_UnionsProvisioningTypes(t *testing.T) {
	cfn := &fakeCloudFormation{
		pages: map[cftypes.ProvisioningType][][]string{
			cftypes.ProvisioningTypeFullyMutable: {
				{"AWS::EC2::VPC", "AWS::S3::Bucket"},
				{"AWS::IAM::Role"},
			},
			cftypes.ProvisioningTypeImmutable: {
				{"AWS::KMS::Alias", "AWS::S3::Bucket"}, // S3::Bucket appears in both feeds
			},
		},
	}
	catalog := NewCatalog(&fakeClientFactory{cfn: map[string]CloudFormationAPI{"eu-west-1": cfn}})

	supported, err := catalog.SupportedTypes(context.Background(), "eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"AWS::EC2::VPC",
		"AWS::IAM::Role",
		"AWS::KMS::Alias",
		"AWS::S3::Bucket",
	}, supported)
}

func TestSupportedTypes_RegistryFailure(t *testing.T) {
	cfn := &fakeCloudFormation{err: errors.New("regional outage")}
	catalog := NewCatalog(&fakeClientFactory{cfn: map[string]CloudFormationAPI{"eu-west-1": cfn}})

	_, err := catalog.SupportedTypes(context.Background(), "eu-west-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eu-west-1")
	assert.Contains(t, err.Error(), "regional outage")
}

func TestSupportedTypes_TokenLoopGuard(t *testing.T) {
	catalog := NewCatalog(&fakeClientFactory{
		cfn: map[string]CloudFormationAPI{"eu-west-1": &loopingCloudFormation{}},
	})

	_, err := catalog.SupportedTypes(context.Background(), "eu-west-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not terminate")
}
