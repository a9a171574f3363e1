package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/kvstore"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/wallclient"
)

// cli carries the global flags and the lazily opened state shared by subcommands.
type cli struct {
	apiURL     string
	stateDir   string
	adminToken string
	jsonOut    bool

	kv      *kvstore.Store
	session *wallclient.Session
}

// newRootCmd builds the command tree. The caller must close the returned cli
// after Execute to release the state directory.
func newRootCmd() (*cobra.Command, *cli) {
	app := &cli{}

	root := &cobra.Command{
		Use:           "wall",
		Short:         "Post to and moderate the Freedom Wall",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.apiURL, "api", envOr("WALL_API_URL", "http://localhost:8080"), "wall server base URL")
	root.PersistentFlags().StringVar(&app.stateDir, "state-dir", envOr("WALL_STATE_DIR", defaultStateDir()), "directory for the local client state")
	root.PersistentFlags().StringVar(&app.adminToken, "admin-token", os.Getenv("WALL_ADMIN_TOKEN"), "moderator token for admin commands")
	root.PersistentFlags().BoolVar(&app.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		app.feedCmd(),
		app.postCmd(),
		app.reactCmd(),
		app.reportCmd(),
		app.welcomeCmd(),
		app.resetIdentityCmd(),
		app.configCmd(),
		app.adminCmd(),
	)
	return root, app
}

func (a *cli) client() *wallclient.Client {
	return wallclient.New(a.apiURL).WithAdminToken(a.adminToken)
}

// openSession opens the badger state directory on first use.
func (a *cli) openSession() (*wallclient.Session, error) {
	if a.session != nil {
		return a.session, nil
	}
	if err := os.MkdirAll(a.stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	kv, err := kvstore.Open(kvstore.DefaultConfig(a.stateDir))
	if err != nil {
		return nil, err
	}
	a.kv = kv
	a.session = wallclient.NewSession(a.client(), kv)
	return a.session, nil
}

func (a *cli) close() error {
	if a.kv == nil {
		return nil
	}
	err := a.kv.Close()
	a.kv, a.session = nil, nil
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "freedom-wall")
	}
	return ".freedom-wall"
}
