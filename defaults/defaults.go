// Package defaults strips account-default and service-managed resources
// from discovery results. These exist in every account of a given service
// regardless of use and would otherwise drown out the genuinely
// user-created inventory.
package defaults

import (
	"strings"

	"github.com/welldone-cloud/aws-list-resources/types"
)

// Rule reports whether an instance is an account default rather than a
// user-created resource.
type Rule func(types.Resource) bool

// Filter removes default instances per resource type. Types without a rule
// pass through unchanged.
type Filter struct {
	rules map[string]Rule
}

// New returns a Filter with the built-in rule table.
func New() *Filter {
	return &Filter{rules: builtinRules}
}

// NewWithRules returns a Filter using the given table instead of the
// built-in one.
func NewWithRules(rules map[string]Rule) *Filter {
	return &Filter{rules: rules}
}

// Apply returns the instances of the given type that are not account
// defaults. It is pure: predicates keep no state and the input slice is not
// modified.
func (f *Filter) Apply(resourceType string, resources []types.Resource) []types.Resource {
	rule, ok := f.rules[resourceType]
	if !ok {
		return resources
	}
	kept := make([]types.Resource, 0, len(resources))
	for _, r := range resources {
		if !rule(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Matcher primitives. Each rule in the table is built from these, one entry
// per resource type, so a new noisy default only ever adds a line.

func anyOf(ids ...string) Rule {
	return func(r types.Resource) bool {
		for _, id := range ids {
			if r.Identifier == id {
				return true
			}
		}
		return false
	}
}

func withPrefix(prefix string) Rule {
	return func(r types.Resource) bool {
		return strings.HasPrefix(r.Identifier, prefix)
	}
}

func withSuffix(suffix string) Rule {
	return func(r types.Resource) bool {
		return strings.HasSuffix(r.Identifier, suffix)
	}
}

func propertyEquals(key, value string) Rule {
	return func(r types.Resource) bool {
		v, ok := r.Properties[key]
		if !ok {
			return false
		}
		s, ok := v.(string)
		return ok && s == value
	}
}

func propertyTrue(key string) Rule {
	return func(r types.Resource) bool {
		v, ok := r.Properties[key]
		if !ok {
			return false
		}
		b, ok := v.(bool)
		return ok && b
	}
}

func either(rules ...Rule) Rule {
	return func(r types.Resource) bool {
		for _, rule := range rules {
			if rule(r) {
				return true
			}
		}
		return false
	}
}

// builtinRules maps resource types to the predicate that recognizes their
// account defaults. The table grows as new noisy defaults turn up.
var builtinRules = map[string]Rule{
	"AWS::Athena::DataCatalog":                      anyOf("AwsDataCatalog"),
	"AWS::Athena::WorkGroup":                        anyOf("primary"),
	"AWS::Backup::BackupVault":                      either(anyOf("Default"), withPrefix("aws/")),
	"AWS::Cassandra::Keyspace":                      withPrefix("system"),
	"AWS::CodeDeploy::DeploymentConfig":             withPrefix("CodeDeployDefault."),
	"AWS::DocDB::DBClusterParameterGroup":           withPrefix("default."),
	"AWS::DocDB::DBSubnetGroup":                     anyOf("default"),
	"AWS::EC2::SecurityGroup":                       propertyEquals("GroupName", "default"),
	"AWS::EC2::VPC":                                 propertyTrue("IsDefault"),
	"AWS::ECS::CapacityProvider":                    anyOf("FARGATE", "FARGATE_SPOT"),
	"AWS::ElastiCache::ParameterGroup":              withPrefix("default."),
	"AWS::ElastiCache::SubnetGroup":                 anyOf("default"),
	"AWS::ElastiCache::User":                        anyOf("default"),
	"AWS::Events::EventBus":                         anyOf("default"),
	"AWS::EventSchemas::Registry":                   withPrefix("aws."),
	"AWS::IAM::Role":                                withPrefix("AWSServiceRoleFor"),
	"AWS::KMS::Alias":                               withPrefix("alias/aws/"),
	"AWS::MediaConvert::Queue":                      anyOf("Default"),
	"AWS::MemoryDB::ACL":                            anyOf("open-access"),
	"AWS::MemoryDB::ParameterGroup":                 withPrefix("default."),
	"AWS::MemoryDB::SubnetGroup":                    anyOf("default"),
	"AWS::Neptune::DBClusterParameterGroup":         withPrefix("default."),
	"AWS::Neptune::DBParameterGroup":                withPrefix("default."),
	"AWS::RAM::Permission":                          withPrefix("arn:aws:ram::aws:permission/"),
	"AWS::RDS::DBClusterParameterGroup":             withPrefix("default."),
	"AWS::RDS::DBParameterGroup":                    withPrefix("default."),
	"AWS::RDS::DBSubnetGroup":                       anyOf("default"),
	"AWS::RDS::OptionGroup":                         withPrefix("default:"),
	"AWS::Redshift::ClusterParameterGroup":          withPrefix("default."),
	"AWS::Redshift::ClusterSubnetGroup":             anyOf("default"),
	"AWS::Route53Resolver::ResolverRule":            anyOf("rslvr-autodefined-rr-internet-resolver"),
	"AWS::Route53Resolver::ResolverRuleAssociation": propertyEquals("Name", "System Rule Association"),
	"AWS::S3::StorageLens":                          anyOf("default-account-dashboard"),
	"AWS::XRay::Group":                              either(propertyEquals("GroupName", "Default"), withSuffix(":group/Default")),
}
