package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/survey-platform/surveyctl/internal/common"
	"github.com/survey-platform/surveyctl/internal/models"
	"github.com/survey-platform/surveyctl/internal/router"
)

var loginCmd = &cobra.Command{
	Use:         "login",
	Short:       "Log in to the survey platform",
	Long:        "Log in with your email (or username) and password. The session is kept until you log out.",
	Annotations: map[string]string{annotationRoute: string(router.Login)},
	RunE:        runLogin,
}

var registerCmd = &cobra.Command{
	Use:         "register",
	Short:       "Create an account and log in",
	Annotations: map[string]string{annotationRoute: string(router.Register)},
	RunE:        runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {

		wasAuthenticated := app.session.IsAuthenticated()

		if err := app.session.Logout(); err != nil {
			return fmt.Errorf("failed to clear stored session: %w", err)
		}

		if wasAuthenticated {
			fmt.Println(successStyle.Render("Logged out"))
		} else {
			fmt.Println(infoStyle.Render("Not logged in"))
		}
		return nil
	},
}

func runLogin(cmd *cobra.Command, args []string) error {

	ctx, cleanup := common.WithInterrupt(context.Background())
	defer cleanup()

	identity, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	if len(identity) == 0 || len(password) == 0 {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email or username").
					Value(&identity).
					Validate(requiredField("email or username")),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Validate(requiredField("password")),
			),
		)

		if err := form.Run(); err != nil {
			return fmt.Errorf("login cancelled: %w", err)
		}
	}

	credentials := models.Credentials{Password: password}
	if common.IsValidEmail(identity) {
		credentials.Email = strings.TrimSpace(identity)
	} else {
		credentials.Username = strings.TrimSpace(identity)
	}

	fmt.Println("Logging in to", cfg.GetAPIURL())

	resp, err := app.session.Login(ctx, credentials)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Login successful!"))
	fmt.Printf("Welcome back, %s\n", resp.User.DisplayName())
	fmt.Println()

	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {

	ctx, cleanup := common.WithInterrupt(context.Background())
	defer cleanup()

	var req models.RegisterRequest
	req.Username, _ = cmd.Flags().GetString("username")
	req.Email, _ = cmd.Flags().GetString("email")
	req.Password, _ = cmd.Flags().GetString("password")
	req.FirstName, _ = cmd.Flags().GetString("first-name")
	req.LastName, _ = cmd.Flags().GetString("last-name")

	if len(req.Username) == 0 || len(req.Email) == 0 || len(req.Password) == 0 {
		var confirm string

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Username").Value(&req.Username).Validate(requiredField("username")),
				huh.NewInput().Title("Email").Value(&req.Email).Validate(validEmail),
				huh.NewInput().Title("First name").Value(&req.FirstName),
				huh.NewInput().Title("Last name").Value(&req.LastName),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&req.Password).
					Validate(minLength("password", 6)),
				huh.NewInput().
					Title("Confirm password").
					EchoMode(huh.EchoModePassword).
					Value(&confirm).
					Validate(func(value string) error {
						if value != req.Password {
							return errors.New("passwords do not match")
						}
						return nil
					}),
			),
		)

		if err := form.Run(); err != nil {
			return fmt.Errorf("registration cancelled: %w", err)
		}
	} else if !common.IsValidEmail(req.Email) {
		return fmt.Errorf("invalid email address %q", req.Email)
	}

	resp, err := app.session.Register(ctx, req)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Account created!"))
	fmt.Printf("Logged in as %s\n", resp.User.DisplayName())

	return nil
}

func requiredField(name string) func(string) error {
	return func(value string) error {
		if len(strings.TrimSpace(value)) == 0 {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func minLength(name string, n int) func(string) error {
	return func(value string) error {
		if len(value) < n {
			return fmt.Errorf("%s must be at least %d characters", name, n)
		}
		return nil
	}
}

func validEmail(value string) error {
	if !common.IsValidEmail(value) {
		return errors.New("enter a valid email address")
	}
	return nil
}

func init() {
	// Add the commands to the root
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().String("email", "", "Email or username")
	loginCmd.Flags().String("password", "", "Password (prompted when omitted)")

	registerCmd.Flags().String("username", "", "Username")
	registerCmd.Flags().String("email", "", "Email address")
	registerCmd.Flags().String("password", "", "Password")
	registerCmd.Flags().String("first-name", "", "First name")
	registerCmd.Flags().String("last-name", "", "Last name")
}
