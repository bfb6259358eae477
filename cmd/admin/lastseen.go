package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"molopl.dev/addons/internal/persistence/kvstore"
	"molopl.dev/addons/internal/plugins/lastseen"
)

func (a *app) lastSeenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lastseen",
		Short: "Manage stored last seen timestamps",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every stored player",
			Args:  cobra.NoArgs,
			RunE: a.withStore(func(cmd *cobra.Command, store *kvstore.SQLiteStore, args []string) error {
				records, err := lastseen.List(store)
				if err != nil {
					return err
				}
				now := time.Now()
				for _, r := range records {
					if !r.Valid {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\tinvalid value %q\n", r.Name, r.Raw)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", r.Name,
						time.UnixMilli(r.LastSeen).UTC().Format(time.RFC3339), lastseen.Format(r.LastSeen, true, now))
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "show NAME",
			Short: "Show when a player was last seen",
			Args:  cobra.ExactArgs(1),
			RunE: a.withStore(func(cmd *cobra.Command, store *kvstore.SQLiteStore, args []string) error {
				ms, ok := lastseen.NewDAO(store, a.logger).LastSeen(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], lastseen.Format(ms, ok, time.Now()))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Forget a player",
			Args:  cobra.ExactArgs(1),
			RunE: a.withStore(func(cmd *cobra.Command, store *kvstore.SQLiteStore, args []string) error {
				return lastseen.NewDAO(store, a.logger).Delete(args[0])
			}),
		},
		&cobra.Command{
			Use:   "migrate OLD NEW",
			Short: "Move a timestamp to a renamed player",
			Args:  cobra.ExactArgs(2),
			RunE: a.withStore(func(cmd *cobra.Command, store *kvstore.SQLiteStore, args []string) error {
				return lastseen.NewDAO(store, a.logger).Migrate(args[0], args[1])
			}),
		},
	)
	return cmd
}

func (a *app) withStore(fn func(*cobra.Command, *kvstore.SQLiteStore, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, err := kvstore.OpenSQLite(a.dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		return fn(cmd, store, args)
	}
}
