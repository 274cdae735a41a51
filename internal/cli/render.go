package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vbonduro/folio/internal/domain"
)

func writePortfolios(w io.Writer, ps []domain.Portfolio) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tSECTIONS\tITEMS")
	for _, p := range ps {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", p.ID, p.Title, len(p.Sections), len(p.Items))
	}
	return tw.Flush()
}

// writePortfolio prints p with its items grouped by section in display order.
func writePortfolio(w io.Writer, p *domain.Portfolio) error {
	_, _ = fmt.Fprintf(w, "%s (%s)\n", p.Title, p.ID)
	if p.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n", p.Description)
	}

	groups := domain.GroupItems(p)
	if len(groups) == 0 {
		_, _ = fmt.Fprintln(w, "\n(empty)")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, g := range groups {
		header := g.Title()
		if g.Section != nil {
			header = fmt.Sprintf("%s [%s]", g.Section.Title, g.Section.ID)
		}
		_, _ = fmt.Fprintf(tw, "\n%s\n", header)
		for _, it := range g.Items {
			_, _ = fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n", it.Order, it.ID, it.Type, it.Title, describeMeta(it.Metadata))
		}
	}
	return tw.Flush()
}

func describeMeta(m domain.ItemMetadata) string {
	s := fmt.Sprintf("%s %s", m.Format, humanSize(m.Size))
	if m.Dimensions != nil {
		s += fmt.Sprintf(" %dx%d", m.Dimensions.Width, m.Dimensions.Height)
	}
	if m.Duration != nil {
		s += fmt.Sprintf(" %ds", *m.Duration)
	}
	return s
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(n)/float64(div), "KMG"[exp])
}
