package release

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// VersionSkew describes how a catalog build relates to a live instance.
// The comparison is advisory: nothing blocks or fails on a mismatch; the
// caller decides what to do with the answer.
type VersionSkew string

const (
	SkewNone          VersionSkew = "match"
	SkewCatalogBehind VersionSkew = "catalog-behind"
	SkewCatalogAhead  VersionSkew = "catalog-ahead"
)

// CompareVersions compares a catalog build version against an instance
// version. Both must be valid semver.
func CompareVersions(catalogVersion, instanceVersion string) (VersionSkew, error) {
	cat, err := semver.NewVersion(catalogVersion)
	if err != nil {
		return "", fmt.Errorf("invalid catalog version %q: %w", catalogVersion, err)
	}
	inst, err := semver.NewVersion(instanceVersion)
	if err != nil {
		return "", fmt.Errorf("invalid instance version %q: %w", instanceVersion, err)
	}

	switch cat.Compare(inst) {
	case -1:
		return SkewCatalogBehind, nil
	case 1:
		return SkewCatalogAhead, nil
	default:
		return SkewNone, nil
	}
}
