// Package cli is the visaflow command-line front end. Each subcommand is a
// thin layer over session.Session: it parses flags, calls one session
// operation and renders the result.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/session"
)

// ErrUsage is returned for an unknown command or bad flags.
var ErrUsage = errors.New("usage error")

// AlertLister lists the alerts still waiting for delivery.
// *client.Client satisfies it.
type AlertLister interface {
	PendingAlerts(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledAlert, error)
}

// App runs one visaflow command against a session.
type App struct {
	session *session.Session
	alerts  AlertLister
	in      *bufio.Reader
	out     io.Writer
	now     func() time.Time
	loc     *time.Location
	color   bool
}

// Option configures an App.
type Option func(*App)

// WithAlertLister enables the alerts command.
func WithAlertLister(l AlertLister) Option {
	return func(a *App) { a.alerts = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithLocation sets the zone trip dates count down in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(a *App) { a.loc = loc }
}

// WithColor forces coloured status labels on or off.
func WithColor(on bool) Option {
	return func(a *App) { a.color = on }
}

// NewApp returns an App reading answers from in and writing to out.
// Colour is on when out is a terminal.
func NewApp(s *session.Session, in io.Reader, out io.Writer, opts ...Option) *App {
	a := &App{
		session: s,
		in:      bufio.NewReader(in),
		out:     out,
		now:     time.Now,
		loc:     time.Local,
		color:   isTerminal(out),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type command struct {
	name    string
	summary string
	// onboarded commands need a completed profile.
	onboarded bool
	run       func(a *App, ctx context.Context, args []string) error
}

var commands = []command{
	{"onboard", "set up your profile", false, (*App).onboard},
	{"status", "show the active trip (default)", true, (*App).status},
	{"trips", "list all trips", true, (*App).trips},
	{"add", "add a trip", true, (*App).add},
	{"delete", "delete a trip: delete <trip-id>", true, (*App).deleteTrip},
	{"complete", "mark a trip completed: complete <trip-id>", true, (*App).complete},
	{"check", "look up entry requirements: check <country-code>", false, (*App).check},
	{"countries", "list country codes", false, (*App).countries},
	{"settings", "show or change your profile", true, (*App).settings},
	{"alerts", "list scheduled expiry alerts", true, (*App).pendingAlerts},
	{"logout", "forget this device's session", false, (*App).logout},
}

// Run resumes the session and dispatches args[0]. No arguments means status.
func (a *App) Run(ctx context.Context, args []string) error {
	name := "status"
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}
	if name == "help" || name == "-h" || name == "--help" {
		a.usage()
		return nil
	}

	cmd, ok := lookup(name)
	if !ok {
		a.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, name)
	}

	state, err := a.session.Start(ctx)
	if err != nil && state != session.StateComplete {
		return err
	}
	if err != nil {
		// Trips failed to load; commands that only need the user still work.
		fmt.Fprintf(a.out, "warning: %v\n", err)
	}
	if cmd.onboarded && state != session.StateComplete {
		fmt.Fprintln(a.out, "You are not set up yet. Run `visaflow onboard` first.")
		return fmt.Errorf("%w: %s needs a profile", domain.ErrInvalidTransition, name)
	}
	return cmd.run(a, ctx, args)
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Usage: visaflow <command> [flags]")
	fmt.Fprintln(a.out)
	for _, c := range commands {
		fmt.Fprintf(a.out, "  %-10s %s\n", c.name, c.summary)
	}
}

// today is the traveller's current calendar date as a trip date.
func (a *App) today() time.Time {
	return domain.Date(a.now().In(a.loc))
}

func parseTripID(args []string) (uuid.UUID, error) {
	if len(args) != 1 {
		return uuid.Nil, fmt.Errorf("%w: expected one trip id", ErrUsage)
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a trip id", ErrUsage, args[0])
	}
	return id, nil
}
