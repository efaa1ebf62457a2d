package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var leadsFlags struct {
	status   string
	search   string
	page     int
	pageSize int
}

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List leads and move them through the pipeline",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		params := service.LeadListParams{
			Search:   leadsFlags.search,
			Page:     leadsFlags.page,
			PageSize: leadsFlags.pageSize,
		}
		if leadsFlags.status != "" && leadsFlags.status != "all" {
			status := domain.LeadStatus(strings.ToLower(leadsFlags.status))
			params.Status = &status
		}

		result, err := a.leads.List(cmd.Context(), params)
		if err != nil {
			return err
		}
		leads, _ := result.Data.([]domain.LeadDTO)
		fmt.Fprint(cmd.OutOrStdout(), renderLeadTable(leads))
		fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d of %d, %d leads\n", result.Page, max(result.TotalPages, 1), result.Total)
		return nil
	},
}

var leadsBoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show leads as a board with one column per status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		board, err := service.NewBoardView(cmd.Context(), a.leads, leadsFlags.search)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderBoard(board.Columns()))
		return nil
	},
}

var leadsSetStatusCmd = &cobra.Command{
	Use:   "set-status <lead-id> <status>",
	Short: "Move a lead to another status (new, contacted, quoted, won, lost)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid lead id %q", args[0])
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		return setStatus(cmd.Context(), cmd.OutOrStdout(), a.leads, a.log, id, domain.LeadStatus(strings.ToLower(args[1])))
	},
}

func init() {
	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsBoardCmd)
	leadsCmd.AddCommand(leadsSetStatusCmd)

	leadsListCmd.Flags().StringVarP(&leadsFlags.status, "status", "s", "", "Only leads with this status")
	leadsListCmd.Flags().IntVar(&leadsFlags.page, "page", 1, "Page number")
	leadsListCmd.Flags().IntVar(&leadsFlags.pageSize, "page-size", 20, "Leads per page")
	leadsCmd.PersistentFlags().StringVarP(&leadsFlags.search, "search", "q", "", "Match name, email, phone or service")
}

// setStatus moves the lead on a board view the way a drag between columns
// would. A rejected write reloads the view from the store before the error is
// returned.
func setStatus(ctx context.Context, out io.Writer, svc *service.LeadService, log *zap.Logger, id uuid.UUID, status domain.LeadStatus) error {
	if !status.IsValid() {
		return service.ErrInvalidLeadStatus
	}

	board, err := service.NewBoardView(ctx, svc, "")
	if err != nil {
		return err
	}

	current, ok := findOnBoard(board.Columns(), id)
	if !ok {
		return service.ErrLeadNotFound
	}
	if current == status {
		fmt.Fprintf(out, "Lead %s is already %s\n", id, status.Label())
		return nil
	}

	if err := board.Move(ctx, id, status); err != nil {
		if rerr := board.Reconcile(ctx); rerr != nil {
			log.Warn("failed to reload board after rejected move", zap.Error(rerr))
		}
		return fmt.Errorf("failed to move lead: %w", err)
	}

	fmt.Fprintf(out, "Lead %s moved from %s to %s\n", id, current.Label(), status.Label())
	return nil
}

func findOnBoard(columns []domain.BoardColumn, id uuid.UUID) (domain.LeadStatus, bool) {
	for _, c := range columns {
		for _, l := range c.Leads {
			if l.ID == id {
				return c.Status, true
			}
		}
	}
	return "", false
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	columnStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1).
			Width(30)

	statusColors = map[domain.LeadStatus]lipgloss.Color{
		domain.LeadStatusNew:       lipgloss.Color("33"),
		domain.LeadStatusContacted: lipgloss.Color("214"),
		domain.LeadStatusQuoted:    lipgloss.Color("141"),
		domain.LeadStatusWon:       lipgloss.Color("42"),
		domain.LeadStatusLost:      lipgloss.Color("196"),
	}
)

func statusStyle(s domain.LeadStatus) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(statusColors[s])
}

func renderLeadTable(leads []domain.LeadDTO) string {
	if len(leads) == 0 {
		return mutedStyle.Render("No leads found") + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-36s  %-10s  %-24s  %-14s  %s", "ID", "STATUS", "NAME", "PHONE", "SERVICES")))
	b.WriteString("\n")
	for _, l := range leads {
		status := statusStyle(l.Status).Render(fmt.Sprintf("%-10s", l.StatusLabel))
		fmt.Fprintf(&b, "%-36s  %s  %-24s  %-14s  %s\n",
			l.ID, status, truncate(l.FirstName+" "+l.LastName, 24), l.Phone, strings.Join(l.Services, ", "))
	}
	return b.String()
}

func renderBoard(columns []domain.BoardColumn) string {
	boxes := make([]string, len(columns))
	for i, c := range columns {
		var b strings.Builder
		b.WriteString(statusStyle(c.Status).Render(fmt.Sprintf("%s (%d)", c.Label, len(c.Leads))))
		for _, l := range c.Leads {
			fmt.Fprintf(&b, "\n\n%s %s\n%s", l.FirstName, l.LastName, mutedStyle.Render(strings.Join(l.Services, ", ")))
			if l.PreferredTimeframeLabel != "" {
				fmt.Fprintf(&b, "\n%s", mutedStyle.Render(l.PreferredTimeframeLabel))
			}
			fmt.Fprintf(&b, "\n%s", mutedStyle.Render(l.ID.String()[:8]))
		}
		boxes[i] = columnStyle.Render(b.String())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
