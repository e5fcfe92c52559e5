package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jask/pairboard/internal/board"
	"github.com/jask/pairboard/internal/config"
	"github.com/jask/pairboard/internal/database"
)

// ---------------------------------------------------------------------------
// show
// ---------------------------------------------------------------------------

type slotOut struct {
	Name     string `json:"name" yaml:"name"`
	Occupant string `json:"occupant,omitempty" yaml:"occupant,omitempty"`
}

type boardOut struct {
	Slots   []slotOut  `json:"slots" yaml:"slots"`
	Pool    []string   `json:"pool" yaml:"pool"`
	SavedAt *time.Time `json:"savedAt,omitempty" yaml:"saved_at,omitempty"`
}

func (c *cli) showCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the board",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			out := boardOut{Slots: []slotOut{}, Pool: []string{}}
			for _, s := range c.board.Slots() {
				so := slotOut{Name: s.Name.String()}
				if s.Occupied {
					so.Occupant = s.Occupant.String()
				}
				out.Slots = append(out.Slots, so)
			}
			for _, e := range c.board.Pool() {
				out.Pool = append(out.Pool, e.String())
			}
			entry, err := c.kv.Entry(cmd.Context(), c.board.Key())
			if err != nil {
				return fmt.Errorf("read saved board: %w", err)
			}
			if entry != nil && !entry.UpdatedAt.IsZero() {
				t := entry.UpdatedAt
				out.SavedAt = &t
			}
			return writeBoard(cmd.OutOrStdout(), out, format)
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	return cmd
}

func writeBoard(w io.Writer, out boardOut, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return writeText(w, out)
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func writeText(w io.Writer, out boardOut) error {
	var b strings.Builder
	b.WriteString("Slots\n")
	if len(out.Slots) == 0 {
		b.WriteString("  (none)\n")
	}
	width := 0
	for _, s := range out.Slots {
		width = max(width, len([]rune(s.Name)))
	}
	for _, s := range out.Slots {
		occ := s.Occupant
		if occ == "" {
			occ = "·"
		}
		fmt.Fprintf(&b, "  %-*s → %s\n", width, s.Name, occ)
	}
	b.WriteString("Pool\n")
	if len(out.Pool) == 0 {
		b.WriteString("  (empty)\n")
	}
	for _, e := range out.Pool {
		fmt.Fprintf(&b, "  %s\n", e)
	}
	if out.SavedAt != nil {
		fmt.Fprintf(&b, "saved %s\n", out.SavedAt.Local().Format("2006-01-02 15:04"))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// add / assign / unassign
// ---------------------------------------------------------------------------

func (c *cli) addCmd() *cobra.Command {
	var poolOnly, slotOnly bool
	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Add people: a slot and a pool entry each",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			if poolOnly && slotOnly {
				return errors.New("--pool-only and --slot-only are exclusive")
			}
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			for _, raw := range args {
				var (
					name  board.Name
					added bool
					err   error
				)
				if parsed, perr := board.ParseName(raw); perr == nil {
					if similar := c.board.Similar(parsed); len(similar) > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s looks like %s\n", parsed, joinNames(similar))
					}
				}
				switch {
				case poolOnly:
					name, added, err = c.board.AddEntryToPool(ctx, raw)
				case slotOnly:
					name, added, err = c.board.AddSlot(ctx, raw)
				default:
					name, added, err = c.board.AddPerson(ctx, raw)
				}
				if err != nil {
					return fmt.Errorf("add %q: %w", raw, err)
				}
				if added {
					fmt.Fprintf(w, "added %s\n", name)
				} else {
					fmt.Fprintf(w, "%s is already on the board\n", name)
				}
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&poolOnly, "pool-only", false, "Only add pool entries")
	cmd.Flags().BoolVar(&slotOnly, "slot-only", false, "Only add slots")
	return cmd
}

func (c *cli) assignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign ENTRY SLOT",
		Short: "Drop ENTRY on SLOT, as if dragged there",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			entry, err := board.ParseName(args[0])
			if err != nil {
				return err
			}
			slot, err := board.ParseName(args[1])
			if err != nil {
				return err
			}
			prev, _ := c.board.Store().Occupant(slot)
			out, err := c.board.Drop(cmd.Context(), entry, board.SlotRegion(slot))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describe(out, entry, slot, prev))
			return nil
		}),
	}
}

func (c *cli) unassignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign ENTRY",
		Short: "Return ENTRY from its slot to the pool",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			entry, err := board.ParseName(args[0])
			if err != nil {
				return err
			}
			out, err := c.board.Drop(cmd.Context(), entry, board.PoolRegion())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describe(out, entry, "", ""))
			return nil
		}),
	}
}

func describe(out board.Outcome, entry, slot, prev board.Name) string {
	switch out {
	case board.OutcomeAssign:
		return fmt.Sprintf("%s → %s", entry, slot)
	case board.OutcomeDisplace:
		return fmt.Sprintf("%s → %s (%s back to the pool)", entry, slot, prev)
	case board.OutcomeReturn:
		return fmt.Sprintf("%s back to the pool", entry)
	case board.OutcomeMove:
		return fmt.Sprintf("%s moved to %s", entry, slot)
	case board.OutcomeSwap:
		return fmt.Sprintf("%s and %s swapped", entry, prev)
	}
	return "nothing to do"
}

// ---------------------------------------------------------------------------
// delete / reset
// ---------------------------------------------------------------------------

func (c *cli) deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a pool entry or a slot",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "entry NAME",
			Short: "Delete a pool entry and the slot of the same name",
			Args:  cobra.ExactArgs(1),
			RunE: c.run(func(cmd *cobra.Command, args []string) error {
				name, err := board.ParseName(args[0])
				if err != nil {
					return err
				}
				d, err := c.board.DeletePoolEntry(cmd.Context(), name)
				if err != nil {
					return err
				}
				return writeDeletion(cmd.OutOrStdout(), d)
			}),
		},
		&cobra.Command{
			Use:   "slot NAME",
			Short: "Delete a slot; board.slot_delete decides what happens to the entry",
			Args:  cobra.ExactArgs(1),
			RunE: c.run(func(cmd *cobra.Command, args []string) error {
				name, err := board.ParseName(args[0])
				if err != nil {
					return err
				}
				d, err := c.board.DeleteSlot(cmd.Context(), name)
				if err != nil {
					return err
				}
				return writeDeletion(cmd.OutOrStdout(), d)
			}),
		},
	)
	return cmd
}

func writeDeletion(w io.Writer, d board.Deletion) error {
	var parts []string
	if len(d.RemovedSlots) > 0 {
		parts = append(parts, "removed slot "+joinNames(d.RemovedSlots))
	}
	if len(d.RemovedEntries) > 0 {
		parts = append(parts, "removed entry "+joinNames(d.RemovedEntries))
	}
	if len(d.Returned) > 0 {
		parts = append(parts, joinNames(d.Returned)+" back to the pool")
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, "; "))
	return err
}

func (c *cli) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Empty the board",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			if c.cfg.UI.ConfirmReset && !yes {
				return errors.New("reset removes every slot and entry; pass --yes to confirm")
			}
			c.board.Reset(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "board reset")
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask")
	return cmd
}

// ---------------------------------------------------------------------------
// info / config
// ---------------------------------------------------------------------------

func (c *cli) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show where pairboard keeps its data",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			version, dirty, err := database.SchemaVersion(c.cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("schema version: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "config:   %s\n", c.configPath())
			fmt.Fprintf(w, "database: %s (schema v%d", c.cfg.Database.Path, version)
			if dirty {
				fmt.Fprint(w, ", dirty")
			}
			fmt.Fprintln(w, ")")
			fmt.Fprintf(w, "key:      %s\n", c.board.Key())
			fmt.Fprintf(w, "policy:   %s\n", c.board.Policy())
			fmt.Fprintf(w, "log:      %s\n", c.cfg.Log.Path)
			fmt.Fprintf(w, "entries:  %d in %d slots\n", c.board.Store().Len(), len(c.board.Slots()))
			return nil
		}),
	}
}

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage the config file",
		Annotations: map[string]string{"setup": "none"},
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists; pass --force to overwrite", path)
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := config.SaveFile(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd, &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), c.configPath())
		},
	})
	return cmd
}

func joinNames(names []board.Name) string {
	s := make([]string, len(names))
	for i, n := range names {
		s[i] = n.String()
	}
	return strings.Join(s, ", ")
}
