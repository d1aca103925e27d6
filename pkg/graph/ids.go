package graph

import (
	"strings"

	"github.com/google/uuid"
)

// Id prefixes. They make ids readable in documents and logs.
const (
	prefixGraph      = "graph"
	prefixNode       = "node"
	prefixConnection = "conn"
	prefixLane       = "lane"
	prefixRegion     = "region"
)

// GenerateGraphID returns a random graph id not present in existing.
func GenerateGraphID(existing map[string]struct{}) string {
	return generateID(prefixGraph, existing)
}

// GenerateNodeID returns a random node id not present in existing.
func GenerateNodeID(existing map[string]struct{}) string {
	return generateID(prefixNode, existing)
}

// GenerateConnectionID returns a random connection id not present in existing.
func GenerateConnectionID(existing map[string]struct{}) string {
	return generateID(prefixConnection, existing)
}

// GenerateLaneID returns a random automation lane id not present in existing.
func GenerateLaneID(existing map[string]struct{}) string {
	return generateID(prefixLane, existing)
}

// GenerateRegionID returns a random automation region id not present in existing.
func GenerateRegionID(existing map[string]struct{}) string {
	return generateID(prefixRegion, existing)
}

// IDSet builds an id set for the generators.
func IDSet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func generateID(prefix string, existing map[string]struct{}) string {
	for {
		id := prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		if _, taken := existing[id]; !taken {
			return id
		}
	}
}
