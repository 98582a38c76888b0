package domain

import "strings"

// Option is a label/value pair used to populate pickers.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type labeled interface {
	~string
	Label() string
}

// Options builds the catalog for a fixed value set, preserving order.
func Options[T labeled](values []T) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Label: v.Label(), Value: string(v)})
	}
	return out
}

// Catalog returns every option set keyed by name.
func Catalog() map[string][]Option {
	return map[string][]Option{
		"matterStatus":         Options(MatterStatuses),
		"personType":           Options(PersonTypes),
		"organizationType":     Options(OrganizationTypes),
		"collectionType":       Options(CollectionTypes),
		"collectionPlatform":   Options(CollectionPlatforms),
		"collectionStatus":     Options(CollectionStatuses),
		"invoiceStatus":        Options(InvoiceStatuses),
		"signedBy":             Options(SignedByValues),
		"contractReviewStatus": Options(ContractReviewStatuses),
		"workspaceType":        Options(WorkspaceTypes),
		"taskStatus":           Options(TaskStatuses),
		"taskPriority":         Options(TaskPriorities),
	}
}

// titleCase turns IN_PROGRESS into "In Progress".
func titleCase(s string) string {
	words := strings.Split(strings.ToLower(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
