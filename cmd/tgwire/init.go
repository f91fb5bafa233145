package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/flemzord/tgwire/internal/config"
)

const configTemplate = `bot:
  token: "%s"
  # api_url: "https://api.telegram.org"
  # rate_limit: 25

polling:
  timeout: 30
  delete_webhook: true

ops:
  enabled: %t
  bind: "127.0.0.1:8731"

recorder:
  enabled: %t
  path: "tgwire.db"
  keep: 10000

# announcements:
#   - schedule: "0 9 * * *"
#     chat: "@mychannel"
#     text: "good morning"

log:
  level: info
  format: %s
`

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("output")
			force, _ := cmd.Flags().GetBool("force")

			if !force {
				if _, err := os.Stat(out); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", out)
				}
			}

			var (
				token     string
				opsOn     bool
				recordOn  bool
				logFormat = "text"
			)
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Bot token").
						Description("From @BotFather, looks like 123456:ABC-DEF1234...").
						EchoMode(huh.EchoModePassword).
						Value(&token).
						Validate(config.ValidateToken),
					huh.NewSelect[string]().
						Title("Log format").
						Options(
							huh.NewOption("text", "text"),
							huh.NewOption("json", "json"),
						).
						Value(&logFormat),
					huh.NewConfirm().
						Title("Enable the local ops server?").
						Description("Serves /healthz, /metrics, and a live update stream on loopback.").
						Value(&opsOn),
					huh.NewConfirm().
						Title("Record updates to a local SQLite database?").
						Value(&recordOn),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			rendered := renderConfig(token, opsOn, recordOn, logFormat)
			if _, err := config.Parse([]byte(rendered)); err != nil {
				return fmt.Errorf("generated configuration is invalid: %w", err)
			}
			if err := os.WriteFile(out, []byte(rendered), 0o600); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			fmt.Println("next: tgwire getme   # verify the token works")
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "tgwire.yaml", "Where to write the configuration")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func renderConfig(token string, opsOn, recordOn bool, logFormat string) string {
	return fmt.Sprintf(configTemplate, token, opsOn, recordOn, logFormat)
}
