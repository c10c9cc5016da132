package services

import (
	"fmt"
	"forklift-route-agent/internal/domain"
	"strconv"
	"strings"
)

// FormatResponse renders a run result as markdown. chartMarkdown is the
// pre-assembled visualization section and may be empty.
func FormatResponse(result *domain.RunResult, chartMarkdown string) string {
	var b strings.Builder

	if result == nil {
		return "No result was produced for this query.\n"
	}

	if s := result.Solution; s != nil {
		b.WriteString("**Solution Details:**\n")
		fmt.Fprintf(&b, "- Total Cost: %s\n\n", strconv.FormatFloat(s.SolutionCost, 'f', -1, 64))

		if len(s.ReadableRoutes) > 0 {
			ids := make([]string, 0, len(s.ReadableRoutes))
			for id := range s.ReadableRoutes {
				ids = append(ids, id)
			}
			domain.SortVehicleIDs(ids)

			b.WriteString("\n**Vehicle Routes:**\n")
			for _, id := range ids {
				fmt.Fprintf(&b, "- %s: %s\n", forkliftLabel(id), strings.Join(s.ReadableRoutes[id], " → "))
			}
		}
	}

	if len(result.Errors) > 0 {
		b.WriteString("\n**Errors:**\n")
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	if strings.TrimSpace(chartMarkdown) != "" {
		b.WriteString("\n**Visualizations:**\n")
		b.WriteString(chartMarkdown)
	}

	if b.Len() == 0 {
		b.WriteString("No solution was produced for this query.\n")
	}

	return b.String()
}

func forkliftLabel(vehicleID string) string {
	if n, ok := domain.ForkliftNumber(vehicleID); ok {
		return fmt.Sprintf("Forklift %d", n)
	}
	return "Forklift " + vehicleID
}
