package charts

import (
	"encoding/base64"
	"fmt"
	"forklift-route-agent/internal/domain"
	"os"
	"strings"
)

// Markdown inlines the charts of set as base64 data URIs: the Gantt chart
// first, then route diagrams by ascending vehicle id. Unreadable files are
// skipped and reported.
func Markdown(set *domain.ChartSet) (string, []error) {
	if set == nil {
		return "", nil
	}

	var (
		b    strings.Builder
		errs []error
	)

	if set.GanttPath != "" {
		uri, err := dataURI(set.GanttPath)
		if err != nil {
			errs = append(errs, err)
		} else {
			b.WriteString("#### Forklift Schedule (Gantt Chart)\n\n")
			fmt.Fprintf(&b, "![Gantt Chart](%s)\n\n", uri)
		}
	}

	ids := make([]string, 0, len(set.NetworkPaths))
	for id := range set.NetworkPaths {
		ids = append(ids, id)
	}
	domain.SortVehicleIDs(ids)

	header := false
	for _, id := range ids {
		uri, err := dataURI(set.NetworkPaths[id])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !header {
			b.WriteString("#### Forklift Routes\n\n")
			header = true
		}
		label := forkliftLabel(id)
		fmt.Fprintf(&b, "**%s**\n\n![%s Route](%s)\n\n", label, label, uri)
	}

	return b.String(), errs
}

func dataURI(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("embed chart: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(content), nil
}
