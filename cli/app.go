// Package cli is the sitelink command line. Every command drives one of the
// screen controllers and prints what the screen would show.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	v1 "sitelink.com/sitelink/api/v1"
	"sitelink.com/sitelink/config"
	"sitelink.com/sitelink/infrastructure/communication"
	"sitelink.com/sitelink/infrastructure/devops"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/screens"
	"sitelink.com/sitelink/session"
	"sitelink.com/sitelink/utils"
)

var ErrSessionExpired = errors.New("your session has expired, run `sitelink login`")

type App struct {
	Out    io.Writer
	Err    io.Writer
	In     io.Reader
	Getenv func(string) string
	Now    func() time.Time

	configPath string
	apiURL     string

	cfg         config.Config
	log         *utils.Logger
	session     *session.Session
	client      *v1.Client
	quietLogout bool
}

func New() *App {
	return &App{
		Out:    os.Stdout,
		Err:    os.Stderr,
		In:     os.Stdin,
		Getenv: os.Getenv,
		Now:    time.Now,
	}
}

// commandError marks failures of a command body, as opposed to usage errors
// reported by cobra.
type commandError struct {
	err error
}

func (e *commandError) Error() string { return e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }

type runFunc func(cmd *cobra.Command, args []string) error

func (a *App) run(fn runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &commandError{err: err}
		}
		return nil
	}
}

func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "sitelink",
		Short:         "Construction site field client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.setup()
		}),
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "server URL, overrides the config file")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.attendanceCmd(),
		a.budgetCmd(),
		a.taskCmd(),
		a.projectCmd(),
		a.vendorCmd(),
		a.incidentCmd(),
		a.dashboardCmd(),
		a.reportCmd(),
	)
	return root
}

// Run executes args and returns the process exit code. Failures are printed
// as the alert the matching screen would show.
func (a *App) Run(ctx context.Context, args []string) int {
	scope := screens.NewScope(ctx)
	defer scope.Close()

	root := a.Command()
	root.SetArgs(args)
	root.SetOut(a.Out)
	root.SetErr(a.Err)
	root.SetIn(a.In)

	err := root.ExecuteContext(scope.Context())
	if err == nil {
		return 0
	}

	var ce *commandError
	if !errors.As(err, &ce) {
		fmt.Fprintf(a.Err, "Error: %v\nRun 'sitelink --help' for usage.\n", err)
		return 2
	}
	a.alert(screens.AlertFor(ce.err))
	return 1
}

func (a *App) alert(al screens.Alert) {
	fmt.Fprintf(a.Err, "%s: %s\n", al.Title, al.Message)
	if al.Kind == screens.AlertConflict {
		labels := make([]string, 0, len(al.Actions))
		for _, act := range al.Actions {
			label := "[" + act.Label + "]"
			if !act.Binding {
				label += " (not available yet)"
			}
			labels = append(labels, label)
		}
		fmt.Fprintln(a.Err, strings.Join(labels, " "))
	}
	if al.RedirectLogin && a.session != nil {
		if err := a.session.Logout(); err != nil {
			a.log.Warnf("logout: %v", err)
		}
	}
}

// loggedOut runs whenever the session is invalidated. The logout command
// reports on its own.
func (a *App) loggedOut() {
	if a.quietLogout {
		return
	}
	fmt.Fprintln(a.Err, "You have been logged out. Run `sitelink login` to sign in again.")
}

func (a *App) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return screens.Local(err)
	}
	if err := cfg.ApplyEnv(a.Getenv); err != nil {
		return screens.Local(err)
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	a.cfg = cfg
	a.log = utils.NewLogger(a.Err, cfg.Debug)

	sess, err := session.Open(&session.FileStore{Path: cfg.SessionFile})
	if err != nil {
		return screens.Local(err)
	}
	sess.OnInvalidate(a.loggedOut)
	a.session = sess
	a.client = v1.NewClient(strings.TrimRight(cfg.APIURL, "/"), sess, cfg.Timeout)
	a.log.Debugf("using %s", cfg.APIURL)
	return nil
}

// user is the signed-in user. An expired token logs the session out.
func (a *App) user() (model.User, error) {
	u, err := a.session.User()
	if err != nil {
		return u, screens.Local(fmt.Errorf("%w: run `sitelink login`", err))
	}
	if a.session.Expired(a.Now()) {
		if err := a.session.Logout(); err != nil {
			a.log.Warnf("logout: %v", err)
		}
		return u, screens.Local(ErrSessionExpired)
	}
	return u, nil
}

// secrets merges the SSM secrets into the config once, when configured.
func (a *App) secrets(ctx context.Context) {
	if a.cfg.SecretsParameter == "" {
		return
	}
	s, err := devops.LoadSecrets(ctx, a.cfg.SecretsParameter)
	if err != nil {
		a.log.Warnf("load secrets %s: %v", a.cfg.SecretsParameter, err)
		return
	}
	a.cfg.ApplySecrets(s)
	a.cfg.SecretsParameter = ""
}

// slack returns nil when no Slack token is configured.
func (a *App) slack(ctx context.Context) *communication.Slack {
	a.secrets(ctx)
	if a.cfg.Slack.Token == "" {
		return nil
	}
	return communication.NewSlack(a.cfg.Slack.Token, communication.SlackOption{
		InfoChannelID:  a.cfg.Slack.InfoChannel,
		ErrorChannelID: a.cfg.Slack.ErrorChannel,
		APIURL:         a.cfg.Slack.APIURL,
	})
}

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
}

func (a *App) today() string {
	return a.Now().In(a.cfg.Zone()).Format(utils.DateLayout)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}
