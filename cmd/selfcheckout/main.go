// The selfcheckout command is a kiosk-style CLI for the circulation portal.
// It drives the portal's HTTP API: patrons check books out and back in by
// scanning barcodes, and staff can glance at the dashboard.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const (
	flagPortal  = "portal"
	flagActor   = "actor"
	flagRole    = "role"
	flagBook    = "book"
	flagCopy    = "copy"
	flagMember  = "member"
	flagName    = "name"
	flagDue     = "due"
	flagLoan    = "loan"
	flagBarcode = "barcode"

	defaultPortalURL = "http://localhost:8080"
	defaultLoanDays  = 14
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "selfcheckout",
		Short:        "Self-checkout kiosk for the circulation portal",
		SilenceUsage: true,
	}

	root.PersistentFlags().String(flagPortal, defaultPortalURL, "base URL of the circulation portal")
	root.PersistentFlags().String(flagActor, "kiosk", "acting identity sent to the portal")
	root.PersistentFlags().String(flagRole, "kiosk", "acting role sent to the portal")

	root.AddCommand(newCheckoutCommand())
	root.AddCommand(newCheckinCommand())
	root.AddCommand(newStatusCommand())

	return root
}

func newCheckoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Check a book out to a member",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := clientFromFlags(cmd)

			bookID, _ := cmd.Flags().GetString(flagBook)
			copyID, _ := cmd.Flags().GetString(flagCopy)
			memberID, _ := cmd.Flags().GetString(flagMember)
			memberName, _ := cmd.Flags().GetString(flagName)
			dueDate, _ := cmd.Flags().GetString(flagDue)

			if dueDate == "" {
				dueDate = time.Now().AddDate(0, 0, defaultLoanDays).Format("2006-01-02")
			}

			result, err := client.checkout(cmd.Context(), checkoutPayload{
				BookID:       bookID,
				CopyID:       copyID,
				BorrowerID:   memberID,
				BorrowerName: memberName,
				DueDate:      dueDate,
			})
			if err != nil {
				return err
			}

			return printResult(cmd, result)
		},
	}

	cmd.Flags().String(flagBook, "", "book id to check out")
	cmd.Flags().String(flagCopy, "", "specific copy id (optional, first available otherwise)")
	cmd.Flags().String(flagMember, "", "member id of the borrower")
	cmd.Flags().String(flagName, "", "name of the borrower")
	cmd.Flags().String(flagDue, "", "due date, YYYY-MM-DD (default: in 14 days)")
	_ = cmd.MarkFlagRequired(flagBook)
	_ = cmd.MarkFlagRequired(flagMember)
	_ = cmd.MarkFlagRequired(flagName)

	return cmd
}

func newCheckinCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Check a book back in by barcode, member id, or loan id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := clientFromFlags(cmd)

			loanID, _ := cmd.Flags().GetString(flagLoan)
			barcode, _ := cmd.Flags().GetString(flagBarcode)

			result, err := client.checkin(cmd.Context(), checkinPayload{
				LoanID:     loanID,
				Identifier: barcode,
			})
			if err != nil {
				return err
			}

			return printResult(cmd, result)
		},
	}

	cmd.Flags().String(flagLoan, "", "loan id to close")
	cmd.Flags().String(flagBarcode, "", "scanned copy barcode or member id")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the circulation dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := clientFromFlags(cmd)

			summary, err := client.dashboard(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("Titles:      %d\n", summary.TotalBooks)
			cmd.Printf("Available:   %d\n", summary.AvailableBooks)
			cmd.Printf("Active:      %d\n", summary.ActiveLoans)
			cmd.Printf("Overdue:     %d\n", summary.OverdueLoans)

			return nil
		},
	}
}

func clientFromFlags(cmd *cobra.Command) *portalClient {
	portalURL, _ := cmd.Flags().GetString(flagPortal)
	actorID, _ := cmd.Flags().GetString(flagActor)
	actorRole, _ := cmd.Flags().GetString(flagRole)

	return newPortalClient(portalURL, actorID, actorRole)
}
