package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-training-planner/internal/artifacts"
	"github.com/tbourn/go-training-planner/internal/config"
	"github.com/tbourn/go-training-planner/internal/domain"
	httpapi "github.com/tbourn/go-training-planner/internal/http"
	"github.com/tbourn/go-training-planner/internal/repo"
	"github.com/tbourn/go-training-planner/internal/services"
)

func newSubmitCmd() *cobra.Command {
	var (
		file  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one profile JSON document and print the resulting plan reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runSubmit(cmd.Context(), cfg, in, cmd.OutOrStdout(), force)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", `profile JSON file ("-" reads stdin)`)
	cmd.Flags().BoolVar(&force, "force", false, "force_replace instead of create_or_update")
	return cmd
}

func runSubmit(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer, force bool) error {
	var input services.ProfileInput
	if err := json.NewDecoder(in).Decode(&input); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}

	db, closeDB, err := openStore(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer closeDB()

	store, err := artifacts.New(ctx, cfg.Artifacts)
	if err != nil {
		return err
	}
	catalog, err := repo.ListExercises(ctx, db)
	if err != nil {
		return err
	}
	svc := httpapi.NewServices(db, catalog, store, cfg)

	mode := services.ModeCreateOrUpdate
	if force {
		mode = services.ModeForceReplace
	}
	sub, err := svc.Registration.Submit(ctx, input, mode, domain.Adjustments{})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(sub)
}
