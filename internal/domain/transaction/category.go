package transaction

import "strings"

// ResolveCategory picks the stored category for a provider transaction:
// the personal finance primary category, else the first legacy category, else nil.
func ResolveCategory(primary *string, legacy []string) *string {
	if primary != nil && strings.TrimSpace(*primary) != "" {
		c := *primary
		return &c
	}
	if len(legacy) > 0 && strings.TrimSpace(legacy[0]) != "" {
		c := legacy[0]
		return &c
	}
	return nil
}
