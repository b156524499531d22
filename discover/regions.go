package discover

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/welldone-cloud/aws-list-resources/config"
)

// ErrInvalidRegion marks a requested region that is not valid or not
// enabled for the account.
var ErrInvalidRegion = errors.New("invalid or disabled region for account")

// ResolveRegions expands the requested region list against the regions
// enabled for the account. The ALL sentinel selects every enabled region,
// sorted; an explicit region that is not enabled fails the run before
// discovery starts.
func ResolveRegions(ctx context.Context, client EC2API, requested []string) ([]string, error) {
	out, err := client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list regions enabled for the account: %w", err)
	}

	enabled := make(map[string]struct{}, len(out.Regions))
	for _, r := range out.Regions {
		if name := aws.ToString(r.RegionName); name != "" {
			enabled[name] = struct{}{}
		}
	}

	if len(requested) == 1 && requested[0] == config.AllRegions {
		all := make([]string, 0, len(enabled))
		for name := range enabled {
			all = append(all, name)
		}
		sort.Strings(all)
		return all, nil
	}

	for _, region := range requested {
		if _, ok := enabled[region]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRegion, region)
		}
	}
	return requested, nil
}
