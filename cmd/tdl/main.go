// Command tdl is the terminal client for the TDL server.
//
//	tdl -email you@example.com -password secret
//	tdl -signup -name You -email you@example.com -password secret
//	tdl -reset -email you@example.com
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"TDL/internal/client"
	"TDL/internal/tui"

	_ "github.com/joho/godotenv/autoload"

	"github.com/rs/zerolog"
)

func main() {
	server := flag.String("server", envOr("TDL_SERVER", "http://localhost:8080"), "server base URL")
	email := flag.String("email", os.Getenv("TDL_EMAIL"), "account email")
	password := flag.String("password", os.Getenv("TDL_PASSWORD"), "account password")
	name := flag.String("name", "", "account name (with -signup)")
	signup := flag.Bool("signup", false, "create the account instead of logging in")
	reset := flag.Bool("reset", false, "reset the password via a delivered code, then exit")
	rename := flag.String("rename", "", "change the account name after login")
	flag.Parse()

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()

	api, err := client.NewAPI(*server)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if *reset {
		if *email == "" {
			fatal(fmt.Errorf("email is required for -reset"))
		}
		if err := resetFlow(ctx, api, *email); err != nil {
			fatal(err)
		}
		fmt.Println("password updated, log in with the new one")
		return
	}

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required (flags or TDL_EMAIL/TDL_PASSWORD)")
		os.Exit(1)
	}

	var user client.User
	if *signup {
		user, err = api.Signup(ctx, *name, *email, *password)
	} else {
		user, err = api.Login(ctx, *email, *password)
	}
	if err != nil {
		fatal(err)
	}

	if *rename != "" {
		user, err = api.UpdateProfile(ctx, user.ID, rename, nil, nil)
		if err != nil {
			fatal(err)
		}
	}

	store := client.NewStore(api, user.ID, logger)
	if err := store.Load(ctx); err != nil {
		fatal(err)
	}

	tuiErr := tui.Run(store, user)

	// Best effort: the session also expires server-side on its own.
	logoutCtx, logoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer logoutCancel()
	if err := api.Logout(logoutCtx); err != nil {
		logger.Warn().Err(err).Msg("logout failed")
	}

	if tuiErr != nil {
		fatal(tuiErr)
	}
}

// resetFlow drives the three-step password reset: the server checks the
// email and issues a code over its delivery channel, the user types it in,
// and a verified code unlocks setting the new password.
func resetFlow(ctx context.Context, api *client.API, email string) error {
	if err := api.CheckEmail(ctx, email); err != nil {
		return err
	}
	fmt.Println("a reset code was sent for", email)

	code, err := prompt("code: ")
	if err != nil {
		return err
	}
	if err := api.VerifyCode(ctx, email, code); err != nil {
		return err
	}

	password, err := prompt("new password: ")
	if err != nil {
		return err
	}
	return api.ResetPassword(ctx, email, password)
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "tdl:", err)
	os.Exit(1)
}
