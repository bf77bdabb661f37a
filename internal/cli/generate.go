package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"shortorder/internal/models"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	var (
		orders int
		seed   int64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a generated day queue",
		Long:  `Generate the day queue from the configured catalog and print each order's tickets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := current.cfg, current.log
			if orders > 0 {
				cfg.Simulation.MaxOrdersPerDay = orders
			}
			if cmd.Flags().Changed("seed") {
				cfg.Simulation.Seed = seed
			}

			cat, err := loadCatalog(cfg, log)
			if err != nil {
				return err
			}
			queue, err := newGenerator(cat, cfg, log).GenerateDayQueue()
			if err != nil {
				return err
			}

			if asJSON {
				return writeQueueJSON(cmd.OutOrStdout(), queue)
			}
			writeQueue(cmd.OutOrStdout(), queue)
			return nil
		},
	}

	cmd.Flags().IntVarP(&orders, "orders", "n", 0, "Number of orders (defaults to simulation.max_orders_per_day)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for a reproducible queue")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tickets as JSON")
	return cmd
}

type queuedOrder struct {
	Position int             `json:"position"`
	ID       string          `json:"id"`
	Tickets  []models.Ticket `json:"tickets"`
}

func writeQueueJSON(w io.Writer, queue []*models.Order) error {
	out := make([]queuedOrder, 0, len(queue))
	for i, order := range queue {
		out = append(out, queuedOrder{Position: i + 1, ID: order.ID, Tickets: order.Tickets()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeQueue(w io.Writer, queue []*models.Order) {
	for i, order := range queue {
		fmt.Fprintf(w, "#%d  %s\n", i+1, order.ID)
		for _, t := range order.Tickets() {
			fmt.Fprintf(w, "  %-7s %s", t.Course, t.Recipe)
			if t.Requests != "" {
				fmt.Fprintf(w, " (%s)", t.Requests)
			}
			fmt.Fprintln(w)
		}
	}
}
