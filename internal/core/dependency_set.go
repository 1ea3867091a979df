package core

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"ccgo/internal/policies"
	"ccgo/internal/types"
)

// CollectDependencies merges [dependencies] with every target table whose
// condition matches the platform. A target entry replaces a base entry of
// the same name in place; new names are appended.
func CollectDependencies(ctx context.Context, project types.ProjectConfig, platform string, arch string) []types.SpecEntry {
	entries := tableEntries(project.Dependencies)
	index := make(map[string]int, len(entries))
	for idx, entry := range entries {
		index[entry.Name] = idx
	}

	policy := policies.NewPlatformPolicy(platform, arch)
	conditions := make([]string, 0, len(project.Target))
	for condition := range project.Target {
		conditions = append(conditions, condition)
	}
	sort.Strings(conditions)

	for _, condition := range conditions {
		if !policy.Matches(condition) {
			log.Ctx(ctx).Debug().Str("condition", condition).Str("platform", platform).Msg("target table skipped")
			continue
		}
		for _, entry := range tableEntries(project.Target[condition].Dependencies) {
			if idx, ok := index[entry.Name]; ok {
				entries[idx] = entry
				continue
			}
			index[entry.Name] = len(entries)
			entries = append(entries, entry)
		}
	}
	log.Ctx(ctx).Debug().Int("deps", len(entries)).Msg("dependencies collected")
	return entries
}

// tableEntries orders a decoded table by name; map decoding loses the
// file order.
func tableEntries(table map[string]any) []types.SpecEntry {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	entries := make([]types.SpecEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, types.SpecEntry{Name: name, Raw: table[name]})
	}
	return entries
}
