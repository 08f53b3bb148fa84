package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/survey-platform/surveyctl/internal/common"
	"github.com/survey-platform/surveyctl/internal/models"
	"github.com/survey-platform/surveyctl/internal/router"
)

var whoamiCmd = &cobra.Command{
	Use:         "whoami",
	Short:       "Show the logged in user",
	Annotations: map[string]string{annotationRoute: string(router.Dashboard)},
	RunE:        runWhoami,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:         "update",
	Short:       "Update your name, email or password",
	Annotations: map[string]string{annotationRoute: string(router.Dashboard)},
	RunE:        runProfileUpdate,
}

func runWhoami(cmd *cobra.Command, args []string) error {

	ctx, cleanup := common.WithInterrupt(context.Background())
	defer cleanup()

	user, err := app.session.FetchCurrentUser(ctx)
	if err != nil {
		return err
	}

	if user == nil {
		fmt.Println(infoStyle.Render("Not logged in"))
		return nil
	}

	printUser(user)

	if expiry, ok := app.session.TokenExpiry(); ok {
		remaining := time.Until(expiry)
		if remaining > 0 {
			fmt.Println(activeStyle.Render(fmt.Sprintf("Access token expires in %s",
				common.FormatDurationRemaining(remaining))))
		} else {
			fmt.Println(expiredStyle.Render("Access token expired") +
				mutedStyle.Render(" (it is refreshed on the next request)"))
		}
	}

	return nil
}

func printUser(user *models.User) {
	fmt.Println(headerStyle.Render(user.DisplayName()))
	fmt.Printf("  Username: %s\n", user.Username)
	fmt.Printf("  Email:    %s\n", user.Email)
	if len(user.Roles) > 0 {
		fmt.Printf("  Roles:    %s\n", strings.Join(user.Roles, ", "))
	}
	if !user.CreatedAt.IsZero() {
		fmt.Printf("  Member since %s\n", user.CreatedAt.Local().Format("2006-01-02"))
	}
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {

	ctx, cleanup := common.WithInterrupt(context.Background())
	defer cleanup()

	var update models.UserUpdate
	update.FirstName, _ = cmd.Flags().GetString("first-name")
	update.LastName, _ = cmd.Flags().GetString("last-name")
	update.Email, _ = cmd.Flags().GetString("email")
	update.Username, _ = cmd.Flags().GetString("username")

	if update == (models.UserUpdate{}) {

		current, err := app.session.FetchCurrentUser(ctx)
		if err != nil {
			return err
		}
		if current != nil {
			update.FirstName = current.FirstName
			update.LastName = current.LastName
			update.Email = current.Email
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("First name").Value(&update.FirstName),
				huh.NewInput().Title("Last name").Value(&update.LastName),
				huh.NewInput().Title("Email").Value(&update.Email).Validate(validEmail),
				huh.NewInput().
					Title("New password").
					Description("Leave empty to keep the current password").
					EchoMode(huh.EchoModePassword).
					Value(&update.Password),
			),
		)

		if err := form.Run(); err != nil {
			return fmt.Errorf("profile update cancelled: %w", err)
		}
	}

	if len(update.Email) > 0 && !common.IsValidEmail(update.Email) {
		return fmt.Errorf("invalid email address %q", update.Email)
	}

	user, err := app.session.UpdateCurrentUser(ctx, update)
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render("Profile updated"))
	printUser(user)

	return nil
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileUpdateCmd)

	profileUpdateCmd.Flags().String("first-name", "", "First name")
	profileUpdateCmd.Flags().String("last-name", "", "Last name")
	profileUpdateCmd.Flags().String("email", "", "Email address")
	profileUpdateCmd.Flags().String("username", "", "Username")
}
