package sortutil

import (
	"sort"

	"github.com/skaphos/pendector/internal/model"
)

// LessNamePath provides deterministic ordering by display name first,
// then by path for same-named checkouts.
func LessNamePath(nameI, pathI, nameJ, pathJ string) bool {
	if nameI == nameJ {
		return pathI < pathJ
	}
	return nameI < nameJ
}

// SortReports orders repository reports by Name, then Path.
func SortReports(reports []model.RepositoryReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return LessNamePath(reports[i].Name, reports[i].Path, reports[j].Name, reports[j].Path)
	})
}

// SortHandles orders repository handles by Name, then Path.
func SortHandles(handles []model.RepositoryHandle) {
	sort.SliceStable(handles, func(i, j int) bool {
		return LessNamePath(handles[i].Name, handles[i].Path, handles[j].Name, handles[j].Path)
	})
}
