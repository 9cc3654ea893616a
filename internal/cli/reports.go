package cli

import (
	"context"
	"fmt"

	"github.com/udx-labs/userdesk/internal/api"
)

func (a *App) Report(ctx context.Context) error {
	typ, err := GetSimpleText(a.reader, "Report type", a.out)
	if err != nil {
		return err
	}
	format, err := GetSimpleText(a.reader, "Format (empty for json)", a.out)
	if err != nil {
		return err
	}

	resp, err := a.api.Request(ctx, "POST", "/reports/generate",
		api.GenerateReportRequest{Type: typ, Format: format})
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	defer a.touch(ctx)

	desc, ok := resp.Data.(api.ReportDescriptor)
	if !ok {
		return fmt.Errorf("unexpected response shape %T", resp.Data)
	}
	fmt.Fprintf(a.out, "Report %s: type=%s format=%s rows=%d status=%s\n",
		desc.ID, desc.Type, desc.Format, desc.RowCount, desc.Status)
	return nil
}

func (a *App) Metrics(ctx context.Context) error {
	resp, err := a.api.Request(ctx, "GET", "/metrics/system", nil)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	defer a.touch(ctx)

	sys, ok := resp.Data.(api.SystemMetrics)
	if !ok {
		return fmt.Errorf("unexpected response shape %T", resp.Data)
	}
	fmt.Fprintf(a.out, "uptime=%ds storage=%s keys=%d\n",
		sys.UptimeSeconds, sys.Storage.Formatted, len(sys.Keys))

	resp, err = a.api.Request(ctx, "GET", "/metrics/performance", nil)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	perf, ok := resp.Data.(api.PerformanceMetrics)
	if !ok {
		return fmt.Errorf("unexpected response shape %T", resp.Data)
	}
	fmt.Fprintf(a.out, "latency=%dms avgResponse=%dms requests=%d\n",
		perf.SimulatedLatencyMs, perf.AvgResponseTimeMs, perf.RequestsHandled)
	return nil
}

// Audit prints the newest trail entries, most recent first.
func (a *App) Audit(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	entries := a.trail.Entries(ctx)
	defer a.touch(ctx)

	const show = 20
	for i, e := range entries {
		if i == show {
			fmt.Fprintf(a.out, "... %d more\n", len(entries)-show)
			break
		}
		fmt.Fprintf(a.out, "%s %s user=%d (%s) by %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.UserID, e.Snapshot.Email, e.Agent)
	}
	fmt.Fprintf(a.out, "%d entr(ies)\n", len(entries))
	return nil
}
