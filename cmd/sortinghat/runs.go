// Copyright 2024 The University of Queensland
// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"

	"github.com/contriboss/sortinghat-go/archive"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (a *app) runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect archived runs",
	}
	cmd.PersistentFlags().String("archive", "", "SQLite database written by solve --archive")

	list := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openArchive()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), a.cfg.Limit)
			if err != nil {
				return err
			}
			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	list.Flags().Int("limit", 20, "maximum number of runs (0 lists all)")

	show := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Print the placements of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("run id: %w", err)
			}
			store, err := a.openArchive()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			placements, err := store.Placements(cmd.Context(), id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printRuns(w, []archive.Run{run})
			for _, p := range placements {
				fmt.Fprintf(w, "  %s\n", p)
			}
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func (a *app) openArchive() (*archive.Archive, error) {
	if a.cfg.Archive == "" {
		return nil, errors.New("no archive: pass --archive")
	}
	return archive.Open(a.cfg.Archive)
}
