package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/survey-platform/surveyctl/internal/config"
	"github.com/survey-platform/surveyctl/internal/router"
)

const (
	// annotationRoute names the view a command renders. The navigation
	// guard runs against it before the command does.
	annotationRoute = "route"
	// annotationStandalone marks commands that need no backend.
	annotationStandalone = "standalone"
)

var errAlreadyLoggedIn = errors.New("already logged in")

// Global application instance
var cfg *config.Config
var app *application

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")

	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	return config.Load(configFile)
}

func preRunConfigE(cmd *cobra.Command, args []string) error {
	// Load configuration before any command runs
	var err error
	cfg, err = loadConfig(cmd)

	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// check if verbose flag is set
	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Get the api url override from the flag
	apiURL, err := cmd.Flags().GetString("api-url")
	if err == nil && len(apiURL) > 0 {
		if err := cfg.SetAPIURL(apiURL); err != nil {
			return fmt.Errorf("failed to set api url: %w", err)
		}
	}

	if _, ok := cmd.Annotations[annotationStandalone]; ok {
		return nil
	}

	app, err = newApplication(cfg)
	if err != nil {
		return err
	}

	return navigate(cmd, args)
}

// navigate pushes the command's view through the router so the auth
// guard applies to it.
func navigate(cmd *cobra.Command, args []string) error {

	name, ok := cmd.Annotations[annotationRoute]
	if !ok {
		return nil
	}

	params := map[string]string{}
	if len(args) > 0 {
		params["id"] = args[0]
	}

	path, err := app.router.URLFor(router.Name(name), params)
	if err != nil {
		return err
	}

	loc, err := app.router.Push(path)
	if err == nil {
		return nil
	}

	if !errors.Is(err, router.ErrNavigationRedirected) {
		return err
	}

	switch loc.Name {
	case router.Login:
		return promptAndLogin(cmd, loc.Query.Get("redirect"))
	case router.Dashboard:
		return errAlreadyLoggedIn
	}

	return err
}

// Replaced in tests so the login flow runs without a terminal.
var (
	stdinIsTerminal = isInteractive
	confirmLogin    = confirmLoginPrompt
)

// promptAndLogin asks the user to log in when a command needs a session,
// then resumes navigation to the original view.
func promptAndLogin(cmd *cobra.Command, redirect string) error {
	fmt.Println()
	fmt.Println(titleStyle.Render("Authentication Required"))
	fmt.Println("You are not logged in.")
	fmt.Println()

	if !stdinIsTerminal() {
		return fmt.Errorf("authentication required: run 'surveyctl login' first")
	}

	shouldLogin, err := confirmLogin()
	if err != nil {
		return fmt.Errorf("login prompt cancelled: %w", err)
	}

	if !shouldLogin {
		return fmt.Errorf("authentication required but login was declined")
	}

	if err := runLogin(cmd, nil); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if len(redirect) > 0 {
		if _, err := app.router.Push(redirect); err != nil {
			return err
		}
	}

	return nil
}

func confirmLoginPrompt() (bool, error) {
	var shouldLogin bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Would you like to login now?").
				Description(fmt.Sprintf("Logging in to %s", cfg.GetAPIURL())).
				Value(&shouldLogin),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}
	return shouldLogin, nil
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

var rootCmd = &cobra.Command{
	Use:   "surveyctl",
	Short: "Create surveys, collect responses and read the results",
	Long: `surveyctl is a terminal client for the survey platform.

Log in, build surveys, take them and follow responses as they arrive.

If no config file is specified, surveyctl looks in the following locations:
  - ./config.yaml
  - ./config/config.yaml
  - ~/.config/surveyctl/config.yaml`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRunConfigE,
	Annotations: map[string]string{annotationRoute: string(router.Home)},
	RunE: func(cmd *cobra.Command, args []string) error {

		if !app.session.IsAuthenticated() {
			fmt.Println(infoStyle.Render("Not logged in. Run 'surveyctl login' or 'surveyctl register' to get started."))
			return nil
		}

		return runWhoami(cmd, args)
	},
}

func init() {

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.config/surveyctl/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "Override the survey API URL (e.g., http://localhost:8080/api)")

}

func GetCommandOptions() *cobra.Command {
	return rootCmd
}

// Execute runs the root command and reports the error, if any.
func Execute() int {
	err := rootCmd.Execute()

	if app != nil {
		app.close()
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errAlreadyLoggedIn):
		fmt.Println(infoStyle.Render(fmt.Sprintf("Already logged in as %s. Run 'surveyctl logout' first.",
			displayCurrentUser())))
		return 0
	default:
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+describeError(err)))
		return 1
	}
}
