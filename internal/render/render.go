// Package render prints a checkout snapshot as a plain-text summary.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"corporate-checkout/internal/domain"
)

// Printer writes summaries. The zero value is not usable; use New.
type Printer struct {
	critical *color.Color
	warning  *color.Color
	info     *color.Color
	allowed  *color.Color
	heading  *color.Color
}

// New returns a Printer. Without noColor, fatih/color decides based on the terminal.
func New(noColor bool) *Printer {
	p := &Printer{
		critical: color.New(color.FgRed, color.Bold),
		warning:  color.New(color.FgYellow),
		info:     color.New(color.FgCyan),
		allowed:  color.New(color.FgGreen, color.Bold),
		heading:  color.New(color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.critical, p.warning, p.info, p.allowed, p.heading} {
			c.DisableColor()
		}
	}
	return p
}

// Summary writes the printable checkout summary of s.
func (p *Printer) Summary(w io.Writer, s domain.Snapshot) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", p.heading.Sprint("Outcome:"), p.banner(s.Decision.Outcome))
	if s.Decision.Audit.Summary != "" {
		fmt.Fprintf(&b, "  %s\n", s.Decision.Audit.Summary)
	}
	b.WriteString("\n")

	r := s.Request
	fmt.Fprintln(&b, p.heading.Sprint("Delivery"))
	fmt.Fprintf(&b, "  %s -> %s, %.1f km, %.1f kg, %s\n", orDash(r.Pickup), orDash(r.Dropoff), r.DistanceKm, r.WeightKg, r.Category)
	vendor := r.VendorID
	if s.Vendor != nil {
		vendor = fmt.Sprintf("%s (%s)", s.Vendor.Name, s.Vendor.Tier)
	}
	fmt.Fprintf(&b, "  vendor %s, %s by %s, payment %s\n", orDash(vendor), r.Speed, r.Vehicle, r.Payment)
	if r.Payment.IsCorporate() {
		fmt.Fprintf(&b, "  program %s, availability %s\n", r.ProgramStatus, s.Availability)
	}
	b.WriteString("\n")

	e := s.Estimate
	fmt.Fprintln(&b, p.heading.Sprint("Estimate"))
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "  base\t%s\t\n", domain.FormatMinor(e.Base))
	fmt.Fprintf(tw, "  distance\t%s\t\n", domain.FormatMinor(e.DistanceFee))
	fmt.Fprintf(tw, "  weight\t%s\t\n", domain.FormatMinor(e.WeightFee))
	fmt.Fprintf(tw, "  multiplier\tx%.4g\t\n", e.Multiplier)
	fmt.Fprintf(tw, "  subtotal\t%s\t\n", domain.FormatMinor(e.Subtotal))
	if e.InsuranceFee > 0 {
		fmt.Fprintf(tw, "  insurance\t%s\t\n", domain.FormatMinor(e.InsuranceFee))
	}
	fmt.Fprintf(tw, "  total\t%s\t\n", domain.FormatMinor(e.Total))
	if err := tw.Flush(); err != nil {
		return err
	}
	b.WriteString("\n")

	fmt.Fprintln(&b, p.heading.Sprint("Required proof"))
	if len(s.RequiredProof) == 0 {
		b.WriteString("  none\n")
	}
	for _, pt := range s.RequiredProof {
		mark := "missing"
		if r.Proof[pt] {
			mark = "enabled"
		}
		fmt.Fprintf(&b, "  - %s: %s\n", pt.Label(), mark)
	}
	b.WriteString("\n")

	fmt.Fprintln(&b, p.heading.Sprint("Findings"))
	grouped := s.Decision.ReasonsBySeverity()
	for _, sev := range []domain.Severity{domain.SeverityCritical, domain.SeverityWarning, domain.SeverityInfo} {
		for _, reason := range grouped[sev] {
			fmt.Fprintf(&b, "  %s [%s] %s: %s\n", p.severity(sev), reason.Code, reason.Title, reason.Detail)
		}
	}
	b.WriteString("\n")

	fmt.Fprintln(&b, p.heading.Sprint("Policy path"))
	for i, step := range s.Decision.Audit.Path {
		fmt.Fprintf(&b, "  %d. %s: %s\n", i+1, step.Name, step.Verdict)
	}
	meta := s.Decision.Audit.Meta
	if meta.PolicyVersion != "" {
		fmt.Fprintf(&b, "\n%s %s, evaluated %s, ref %s\n", p.heading.Sprint("Policy"),
			meta.PolicyVersion, meta.EvaluatedAt.Format("2006-01-02 15:04 MST"), meta.CorrelationID)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Vendors writes the catalog as a table.
func (p *Printer) Vendors(w io.Writer, vendors []domain.Vendor) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTIER\tSPEEDS\tVEHICLES\tDEFAULT PROOF")
	for _, v := range vendors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Name, p.tier(v.Tier), join(v.Speeds), join(v.Vehicles), orDash(join(v.DefaultProof)))
	}
	return tw.Flush()
}

func (p *Printer) banner(o domain.Outcome) string {
	switch o {
	case domain.OutcomeBlocked:
		return p.critical.Sprint(o.Banner())
	case domain.OutcomeApprovalRequired:
		return p.warning.Sprint(o.Banner())
	default:
		return p.allowed.Sprint(o.Banner())
	}
}

func (p *Printer) severity(s domain.Severity) string {
	label := strings.ToUpper(string(s))
	switch s {
	case domain.SeverityCritical:
		return p.critical.Sprint(label)
	case domain.SeverityWarning:
		return p.warning.Sprint(label)
	default:
		return p.info.Sprint(label)
	}
}

func (p *Printer) tier(t domain.TrustTier) string {
	switch t {
	case domain.TrustBlocked:
		return p.critical.Sprint(string(t))
	case domain.TrustRestricted:
		return p.warning.Sprint(string(t))
	default:
		return string(t)
	}
}

func join[T ~string](items []T) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return strings.Join(parts, ",")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
