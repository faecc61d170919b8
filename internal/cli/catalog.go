package cli

import (
	"encoding/json"
	"fmt"

	"gazet_go/internal/config"
	"gazet_go/internal/shop"
	"gazet_go/pkg/telegram"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCatalogCmd(configPath func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Просмотр и правка каталога (для правки бот должен быть остановлен)",
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Показать каталог",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}
			h, err := openCatalog(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer h.Close()

			snap := h.store.Snapshot()
			var out []byte
			switch format {
			case "json":
				out, err = json.MarshalIndent(snap, "", "  ")
			case "yaml":
				out, err = yaml.Marshal(snap)
			default:
				return fmt.Errorf("неизвестный формат %q (json или yaml)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	show.Flags().StringVar(&format, "format", "json", "json или yaml")

	setWeekly := &cobra.Command{
		Use:   "set-weekly <asset>",
		Short: "Заменить PDF текущей недели (бот должен быть остановлен)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !telegram.ValidAsset(args[0]) {
				return fmt.Errorf("некорректная ссылка на файл %q", args[0])
			}
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}
			h, err := openCatalog(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer h.Close()
			if err := h.store.SetWeekly(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "weekly обновлён")
			return nil
		},
	}

	addIssue := &cobra.Command{
		Use:   "add-issue <label> <asset>",
		Short: "Добавить или заменить выпуск архива (бот должен быть остановлен)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label, asset := args[0], args[1]
			if err := shop.ValidateLabel(label); err != nil {
				return err
			}
			if !telegram.ValidAsset(asset) {
				return fmt.Errorf("некорректная ссылка на файл %q", asset)
			}
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}
			h, err := openCatalog(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer h.Close()
			if err := h.store.AddIssue(cmd.Context(), label, asset); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "выпуск %q сохранён\n", label)
			return nil
		},
	}

	cmd.AddCommand(show, setWeekly, addIssue)
	return cmd
}
