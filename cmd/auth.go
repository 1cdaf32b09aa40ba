package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var (
	authUsername string
	authPassword string
	authEmail    string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in to the server. Missing credentials are prompted for.

The returned credential is stored in the data directory and attached to
every later request until 'stegshare logout' or until the server rejects it.`,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authService.Logout(getContext()); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Signed out"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	Run:   runWhoAmI,
}

func init() {
	loginCmd.Flags().StringVarP(&authUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Password")

	registerCmd.Flags().StringVarP(&authUsername, "username", "u", "", "Username")
	registerCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Password")
	registerCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Email address")
}

func runLogin(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	req := domain.LoginRequest{
		Identity: promptIfEmpty(reader, authUsername, "Username: "),
		Secret:   promptIfEmpty(reader, authPassword, "Password: "),
	}

	session, err := authService.Login(getContext(), req)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Println(ui.FormatSuccess("Signed in as " + ui.StyleBold.Render(session.DisplayIdentity())))
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	req := domain.RegisterRequest{
		Email:    promptIfEmpty(reader, authEmail, "Email: "),
		Identity: promptIfEmpty(reader, authUsername, "Username: "),
		Secret:   promptIfEmpty(reader, authPassword, "Password: "),
	}

	if err := authService.Register(getContext(), req); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println(ui.FormatSuccess("Account created for " + req.Identity))
	fmt.Println(ui.FormatInfo("Run 'stegshare login' to sign in"))
	return nil
}

func runWhoAmI(cmd *cobra.Command, args []string) {
	who := authService.WhoAmI()
	if !who.Session.IsAuthenticated() {
		fmt.Println(ui.FormatWarning("Not signed in"))
		return
	}

	fmt.Println(ui.RenderKeyValue("Identity", ui.FormatBold(who.Session.DisplayIdentity())))
	if !who.Session.SignedInAt.IsZero() {
		fmt.Println(ui.RenderKeyValue("Signed in", who.Session.SignedInAt.Local().Format(time.RFC1123)))
	}
	if who.HasExpiry {
		expiry := who.ExpiresAt.Local().Format(time.RFC1123)
		if who.Expired {
			expiry = ui.StyleError.Render(expiry + " (expired)")
		}
		fmt.Println(ui.RenderKeyValue("Expires", expiry))
	}
	fmt.Println(ui.RenderKeyValue("Server", appConfig.APIBaseURL))
}

// promptIfEmpty returns value or reads one line from the user
func promptIfEmpty(reader *bufio.Reader, value, prompt string) string {
	if value != "" {
		return value
	}
	fmt.Print(ui.StyleAccent.Render(prompt))
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
