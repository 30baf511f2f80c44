package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/warp/daybook/api"
	"github.com/warp/daybook/ledger"
	"github.com/warp/daybook/session"
	"github.com/warp/daybook/settle"
)

// =============================================================================
// TOTALS
// =============================================================================

func totalsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print the totals of the configured ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				totals, view, err := s.Summary(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), api.TotalsDTO{Totals: totals, Display: view})
				}
				renderTotals(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func renderTotals(w io.Writer, v session.TotalsView) {
	fmt.Fprintln(w, Header("Totales"))
	fmt.Fprintf(w, "  %s %s\n", Rest(pad("Descanso", 10)), orDash(v.RestCalc))
	fmt.Fprintf(w, "  %s %s\n", Work(pad("Trabajo", 10)), orDash(v.WorkCalc))
	fmt.Fprintf(w, "  %s %s\n", Advance(pad("Adelanto", 10)), orDash(v.AdvanceCalc))
	fmt.Fprintf(w, "  %s %s\n", Payment(pad("Pago", 10)), orDash(v.PaymentCalc))
	fmt.Fprintln(w, Silent("  "+strings.Repeat("─", 32)))
	fmt.Fprintf(w, "  %s %s\n", pad("Total", 10), v.GrandTotal)
	fmt.Fprintf(w, "  %s %s\n", pad("Pagos", 10), v.TotalPayments)
	fmt.Fprintf(w, "  %s %s\n", pad("Balance", 10), Balance(v.FinalBalance, v.BalanceNegative))
}

// =============================================================================
// PAYMENTS
// =============================================================================

func paymentsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "payments",
		Short: "List the payment days of the configured ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *session.Session) error {
				payments, err := s.Payments(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), payments)
				}
				renderPayments(cmd.OutOrStdout(), payments)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func renderPayments(w io.Writer, payments []ledger.PaymentEntry) {
	if len(payments) == 0 {
		fmt.Fprintln(w, Silent("No payments"))
		return
	}
	for _, p := range payments {
		fmt.Fprintf(w, "%s  %s\n", p.Date, Payment(ledger.FormatMoney(p.Amount)))
	}
}

// =============================================================================
// SETTLE
// =============================================================================

func settleCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Compute the one-off settlement from the settle config section",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := cfg.SettleInput()
			if err != nil {
				return err
			}
			res, err := settle.Compute(in)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			renderSettle(cmd.OutOrStdout(), in, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func renderSettle(w io.Writer, in settle.Input, r settle.Result) {
	fmt.Fprintln(w, Header(fmt.Sprintf("Liquidación %s → %s", in.Start, in.End)))
	fmt.Fprintf(w, "  %s %d × %s = %s\n", pad("Descansos", 12), r.DaysOff, ledger.FormatMoney(in.RestRate), ledger.FormatMoney(r.DaysOffValue))
	fmt.Fprintf(w, "  %s %d\n", pad("Días", 12), r.SpanDays)
	fmt.Fprintf(w, "  %s %s\n", pad("Trabajados", 12), ledger.FormatAmount(r.DaysWorked))
	fmt.Fprintf(w, "  %s %s\n", pad("Pagos", 12), ledger.FormatMoney(r.PaymentsTotal))
	fmt.Fprintf(w, "  %s %s\n", pad("Final", 12), Balance(ledger.FormatMoney(r.Final), r.Final.IsNegative()))
}

// =============================================================================
// HELPERS
// =============================================================================

// withSession bootstraps the configured calendar and hands its session to
// fn. The store is closed afterwards.
func withSession(ctx context.Context, fn func(context.Context, *session.Session) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	h, closeStore, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	return h.Session(func(s *session.Session) error {
		return fn(ctx, s)
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// pad right-fills s to n terminal cells.
func pad(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
