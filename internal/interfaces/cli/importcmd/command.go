// Package importcmd implements `licenser import`, loading the storefront
// catalog mirror from YAML.
package importcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/licenser/internal/application/catalog"
	catalogUsecases "github.com/orris-inc/licenser/internal/application/catalog/usecases"
	"github.com/orris-inc/licenser/internal/infrastructure/database"
	"github.com/orris-inc/licenser/internal/infrastructure/repository"
	"github.com/orris-inc/licenser/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/licenser/internal/shared/db"
)

var (
	env        string
	configPath string
	file       string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import products, customers and transactions from a YAML catalog",
		Long:  `Upsert the product, customer and transaction mirrors that license keys are issued against.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Catalog YAML file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	c, err := catalog.Parse(f)
	if err != nil {
		return err
	}

	_, log, err := bootstrap.Init(bootstrap.Options{Env: env, ConfigPath: configPath})
	if err != nil {
		return err
	}
	defer database.Close()

	gdb := database.Get()
	uc := catalogUsecases.NewImportCatalogUseCase(
		repository.NewProductRepository(gdb, log),
		repository.NewCustomerRepository(gdb, log),
		repository.NewTransactionRepository(gdb, log),
		db.NewTransactionManager(gdb),
		log,
	)

	result, err := uc.Execute(context.Background(), c)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d product(s), %d customer(s), %d transaction(s)\n",
		result.Products, result.Customers, result.Transactions)
	return nil
}
