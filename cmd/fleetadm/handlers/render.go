package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	platform "github.com/fleetadm/fleetadm/internal/platform/hcloud"
	"github.com/fleetadm/fleetadm/internal/provisioning/fleet"
	"github.com/fleetadm/fleetadm/internal/provisioning/upload"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	greenStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	redStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// renderGroupSummary produces the summary printed after a group ensure.
func renderGroupSummary(group *platform.AffinityGroup) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  affinity group: %s", group.Name)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    region: %s\n\n", group.Region))
	return b.String()
}

// renderFleetSummary lists the created instances with their addresses and
// ports.
func renderFleetSummary(plan *fleet.Plan, ips map[string]string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  fleet: %s", plan.Service)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("  Instances"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 35)))
	b.WriteString("\n")
	for _, inst := range plan.Instances {
		ip := ips[inst.ComputerName]
		if ip == "" {
			ip = "-"
		}
		b.WriteString(fmt.Sprintf("    %-12s %-16s direct:%d\n", inst.ComputerName, ip, inst.DirectPort))
	}

	if plan.Endpoint.LoadBalancerSet != "" {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("  Endpoint"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 35)))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("    %s :%d -> :%d (%s, set %s)\n",
			plan.Endpoint.Name, plan.Endpoint.PublicPort, plan.Endpoint.LocalPort,
			plan.Endpoint.Protocol, plan.Endpoint.LoadBalancerSet))
	}

	b.WriteString("\n")
	return b.String()
}

// renderUploadSummary reports an upload batch, highlighting failures.
func renderUploadSummary(bucket string, summary *upload.Summary) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  upload: %s", bucket)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    attempted: %d\n", summary.Attempted))
	b.WriteString("    uploaded:  ")
	b.WriteString(greenStyle.Render(fmt.Sprintf("%d", summary.Uploaded)))
	b.WriteString("\n")
	b.WriteString("    failed:    ")
	if summary.Failed > 0 {
		b.WriteString(redStyle.Render(fmt.Sprintf("%d", summary.Failed)))
	} else {
		b.WriteString("0")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("    elapsed:   %s", summary.Elapsed.Round(time.Millisecond))))
	b.WriteString("\n\n")

	return b.String()
}
