package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/survey-platform/surveyctl/internal/common"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the backend, local storage and session state",
	RunE: func(cmd *cobra.Command, args []string) error {

		fmt.Println(titleStyle.Render("surveyctl status"))
		fmt.Println()

		fmt.Printf("%s %s\n", headerStyle.Render("API:"), cfg.GetAPIURL())
		fmt.Printf("%s %s\n", headerStyle.Render("Timeout:"), cfg.API.GetTimeout())

		storageLine := cfg.Storage.Driver
		if cfg.Storage.Encryption.Enabled {
			storageLine += " (encrypted)"
		}
		fmt.Printf("%s %s %s\n", headerStyle.Render("Storage:"), storageLine,
			mutedStyle.Render("namespace "+cfg.GetAPIHostname()))

		fmt.Println()
		fmt.Print(renderSessionState(time.Now()))

		events := cfg.RecentEvents(10)
		if len(events) > 0 {
			fmt.Println()
			fmt.Println(headerStyle.Render("Recent warnings"))
			for _, event := range events {
				fmt.Printf("%s %s %s\n",
					mutedStyle.Render(event.Time.Format("15:04:05")),
					warningStyle.Render(event.Level.String()),
					event.Message)
			}
		}

		return nil
	},
}

func renderSessionState(now time.Time) string {

	if !app.session.IsAuthenticated() {
		return fmt.Sprintf("%s %s\n", headerStyle.Render("Session:"), mutedStyle.Render("not logged in"))
	}

	state := fmt.Sprintf("%s logged in as %s\n", headerStyle.Render("Session:"), displayCurrentUser())

	expiry, ok := app.session.TokenExpiry()
	switch {
	case !ok:
		state += fmt.Sprintf("%s %s\n", headerStyle.Render("Token:"), mutedStyle.Render("no expiry"))
	case expiry.After(now):
		state += fmt.Sprintf("%s %s\n", headerStyle.Render("Token:"),
			activeStyle.Render("expires in "+common.FormatDurationRemaining(expiry.Sub(now))))
	default:
		// An expired access token is refreshed on the next request.
		state += fmt.Sprintf("%s %s\n", headerStyle.Render("Token:"),
			expiredStyle.Render("expired "+expiry.Local().Format(dateFormat)))
	}

	if len(app.session.RefreshToken()) == 0 {
		state += warningStyle.Render("No refresh token stored; you will need to log in again when the token expires.") + "\n"
	}

	return state
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
