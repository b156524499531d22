package discover

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// maxCatalogPages breaks a continuation-token loop should the registry ever
// hand back a token cycle. The real feeds stay far below this.
const maxCatalogPages = 2000

// Catalog queries the CloudFormation registry for the resource types
// listable in a region.
type Catalog struct {
	clients ClientFactory
}

// NewCatalog creates a Catalog on the given client factory.
func NewCatalog(clients ClientFactory) *Catalog {
	return &Catalog{clients: clients}
}

// SupportedTypes returns the sorted set of resource types the region's
// registry reports as listable, e.g. AWS::EC2::RouteTable, AWS::IAM::Role,
// AWS::KMS::Key. The registry splits types across a fully-mutable and an
// immutable feed; a type may appear in both, so the union is deduplicated.
func (c *Catalog) SupportedTypes(ctx context.Context, region string) ([]string, error) {
	client := c.clients.CloudFormation(region)
	seen := make(map[string]struct{})

	provisioningTypes := []cftypes.ProvisioningType{
		cftypes.ProvisioningTypeFullyMutable,
		cftypes.ProvisioningTypeImmutable,
	}
	for _, pt := range provisioningTypes {
		input := &cloudformation.ListTypesInput{
			Type:             cftypes.RegistryTypeResource,
			Visibility:       cftypes.VisibilityPublic,
			ProvisioningType: pt,
			DeprecatedStatus: cftypes.DeprecatedStatusLive,
			Filters:          &cftypes.TypeFilters{Category: cftypes.CategoryAwsTypes},
		}

		paginator := cloudformation.NewListTypesPaginator(client, input)
		pages := 0
		for paginator.HasMorePages() {
			pages++
			if pages > maxCatalogPages {
				return nil, fmt.Errorf("resource type listing for region %s did not terminate after %d pages", region, maxCatalogPages)
			}
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("list resource types for region %s: %w", region, err)
			}
			for _, summary := range page.TypeSummaries {
				if name := aws.ToString(summary.TypeName); name != "" {
					seen[name] = struct{}{}
				}
			}
		}
	}

	supported := make([]string, 0, len(seen))
	for name := range seen {
		supported = append(supported, name)
	}
	sort.Strings(supported)
	return supported, nil
}
