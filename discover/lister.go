package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudcontrol"

	"github.com/welldone-cloud/aws-list-resources/types"
)

// maxListPages bounds pagination per (region, type); see maxCatalogPages.
const maxListPages = 2000

// deniedKeywords flags listing failures caused by missing permissions. The
// Cloud Control API passes each backend service's own exceptions through
// unchanged (UnsupportedActionException, InvalidRequestException,
// GeneralServiceException, AccessDeniedException, AuthorizationError,
// ...), so there is no typed error to switch on; matching the message is
// the only workable discriminant. Known to be lossy: a permission failure
// phrased without these words is filed as a generic failure.
var deniedKeywords = []string{"denied", "authorization", "authorized"}

// Lister enumerates resource instances through the Cloud Control API.
type Lister struct {
	clients ClientFactory
}

// NewLister creates a Lister on the given client factory.
func NewLister(clients ClientFactory) *Lister {
	return &Lister{clients: clients}
}

// ListInstances lists every instance of the resource type in the region and
// classifies any failure. Identifiers repeated across pages are collapsed;
// each instance carries its parsed property document when the API supplied
// one.
func (l *Lister) ListInstances(ctx context.Context, region, resourceType string) types.ListResult {
	client := l.clients.CloudControl(region)
	input := &cloudcontrol.ListResourcesInput{TypeName: aws.String(resourceType)}

	seen := make(map[string]types.Resource)
	paginator := cloudcontrol.NewListResourcesPaginator(client, input)
	pages := 0
	for paginator.HasMorePages() {
		pages++
		if pages > maxListPages {
			return types.ListResult{
				Status:  types.ListFailed,
				Message: fmt.Sprintf("pagination did not terminate after %d pages", maxListPages),
			}
		}
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return classifyListError(err)
		}
		for _, desc := range page.ResourceDescriptions {
			id := aws.ToString(desc.Identifier)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = types.Resource{
				Identifier: id,
				Properties: parseProperties(desc.Properties),
			}
		}
	}

	resources := make([]types.Resource, 0, len(seen))
	for _, r := range seen {
		resources = append(resources, r)
	}
	sort.Slice(resources, func(i, j int) bool {
		return resources[i].Identifier < resources[j].Identifier
	})
	return types.ListResult{Status: types.ListOK, Resources: resources}
}

// classifyListError sorts a listing failure into denied vs. everything
// else. Kept as a single small function so the heuristic can be swapped
// without touching callers.
func classifyListError(err error) types.ListResult {
	msg := strings.ToLower(err.Error())
	for _, keyword := range deniedKeywords {
		if strings.Contains(msg, keyword) {
			return types.ListResult{Status: types.ListDenied}
		}
	}
	return types.ListResult{Status: types.ListFailed, Message: err.Error()}
}

func parseProperties(doc *string) map[string]any {
	if doc == nil || *doc == "" {
		return nil
	}
	var props map[string]any
	if err := json.Unmarshal([]byte(*doc), &props); err != nil {
		return nil
	}
	return props
}
