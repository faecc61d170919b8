package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "gazet",
		Short:         "Телеграм-бот продажи PDF газеты",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML-файл конфигурации")

	configPath := func() string { return cfgFile }
	root.AddCommand(newServeCmd(configPath))
	root.AddCommand(newCatalogCmd(configPath))
	return root
}

// Execute запускает корневую команду
func Execute() error {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
