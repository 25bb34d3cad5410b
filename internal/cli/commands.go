package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/session"
)

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// ---- onboarding ------------------------------------------------------------

func (a *App) onboard(ctx context.Context, _ []string) error {
	ob := a.session.Onboarding()
	if ob.State() == session.StateComplete {
		u, _ := a.session.User()
		fmt.Fprintf(a.out, "You are already set up, %s.\n", u.FirstName)
		return nil
	}

	fmt.Fprintln(a.out, "Welcome to VisaFlow. Track your visa, avoid overstays.")
	if err := ob.Begin(); err != nil {
		return err
	}

	granted, err := confirm(a.in, a.out, "Send you reminders before your visa expires?")
	if err != nil {
		return err
	}
	if err := ob.RecordNotificationPermission(granted); err != nil {
		return err
	}

	for {
		p, err := a.askProfile(ctx)
		if err != nil {
			return err
		}
		u, err := a.session.CompleteProfile(ctx, p)
		if errors.Is(err, domain.ErrValidation) {
			fmt.Fprintf(a.out, "%v\n", err)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "All set, %s. Your 7-day trial has started.\n", u.FirstName)
		return nil
	}
}

func (a *App) askProfile(ctx context.Context) (session.Profile, error) {
	name, err := ask(a.in, a.out, "What's your first name?")
	if err != nil {
		return session.Profile{}, err
	}
	code, err := ask(a.in, a.out, "Your nationality (two-letter country code, e.g. US)?")
	if err != nil {
		return session.Profile{}, err
	}
	code = strings.ToUpper(code)
	return session.Profile{FirstName: name, Nationality: a.countryName(ctx, code), NationalityCode: code}, nil
}

// countryName resolves code against the reference list, falling back to
// the code itself when the list is unavailable or does not know it.
func (a *App) countryName(ctx context.Context, code string) string {
	country, ok := a.findCountry(ctx, code)
	if !ok {
		return code
	}
	return country.Name
}

func (a *App) findCountry(ctx context.Context, code string) (domain.Country, bool) {
	cs, err := a.session.Countries(ctx)
	if err != nil {
		return domain.Country{}, false
	}
	for _, c := range cs {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return domain.Country{}, false
}

// ---- trips -----------------------------------------------------------------

func (a *App) status(_ context.Context, _ []string) error {
	u, _ := a.session.User()
	trip, ok := a.session.Trips().Active()
	if !ok {
		fmt.Fprintf(a.out, "Hi %s. No active trip. Add one with `visaflow add`.\n", u.FirstName)
	} else {
		renderTracker(a.out, trip, a.now(), a.loc, a.color)
	}
	if u.SubscriptionStatus == domain.SubscriptionTrial {
		left := a.session.TrialDaysLeft()
		fmt.Fprintf(a.out, "Trial: %d %s left\n", left, dayWord(left))
	}
	return nil
}

func (a *App) trips(_ context.Context, _ []string) error {
	trips := a.session.Trips().Trips()
	if len(trips) == 0 {
		fmt.Fprintln(a.out, "No trips yet.")
		return nil
	}
	now := a.now()
	for _, t := range trips {
		renderTripLine(a.out, t, now, a.loc, a.color)
	}
	return nil
}

func (a *App) add(ctx context.Context, args []string) error {
	fs := a.flags("add")
	code := fs.String("country", "", "destination country code (required)")
	visaType := fs.String("visa", "", "visa type: "+visaTypeNames())
	entryStr := fs.String("entry", "", "entry date YYYY-MM-DD (default today)")
	exitStr := fs.String("exit", "", "exit date YYYY-MM-DD")
	days := fs.Int("days", 0, "stay length in days, instead of -exit")
	ext := fs.Int("extensions", 0, "extensions available")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *code == "" {
		return fmt.Errorf("%w: -country is required", ErrUsage)
	}

	entry := a.today()
	if *entryStr != "" {
		var err error
		if entry, err = time.Parse(time.DateOnly, *entryStr); err != nil {
			return fmt.Errorf("%w: -entry: %v", ErrUsage, err)
		}
	}

	country, ok := a.findCountry(ctx, *code)
	if !ok {
		country = domain.Country{Code: strings.ToUpper(*code), Name: strings.ToUpper(*code)}
	}

	draft, err := a.draft(ctx, country, entry, *exitStr, *days, *visaType)
	if err != nil {
		return err
	}
	draft.ExtensionsAvailable = *ext

	res, err := a.session.CreateTrip(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Trip added: %s\n", res.Trip.ID)
	if res.FirstTrip {
		fmt.Fprintln(a.out, "Your first trip! VisaFlow will track it from here.")
	}
	if n := len(res.Alerts); n > 0 {
		fmt.Fprintf(a.out, "%d expiry reminder(s) scheduled.\n", n)
	}
	if res.AlertErr != nil {
		fmt.Fprintf(a.out, "warning: reminders could not be scheduled: %v\n", res.AlertErr)
	}
	renderTracker(a.out, res.Trip, a.now(), a.loc, a.color)
	return nil
}

// draft builds the trip draft from the add flags. With no exit date and no
// day count the stay is pre-filled from the requirement lookup.
func (a *App) draft(ctx context.Context, country domain.Country, entry time.Time, exitStr string, days int, visaType string) (domain.TripDraft, error) {
	d := domain.TripDraft{Country: country.Name, CountryCode: country.Code, EntryDate: entry}
	switch {
	case exitStr != "":
		exit, err := time.Parse(time.DateOnly, exitStr)
		if err != nil {
			return d, fmt.Errorf("%w: -exit: %v", ErrUsage, err)
		}
		d.ExitDate = exit
	case days > 0:
		d.ExitDate = entry.AddDate(0, 0, days)
	default:
		req, err := a.session.CheckRequirements(ctx, country.Code)
		if err != nil {
			return d, err
		}
		pre, ok := session.DraftFromRequirement(req, country, entry)
		if !ok {
			return d, fmt.Errorf("%w: no permitted stay known for %s; pass -exit or -days", ErrUsage, country.Code)
		}
		d = pre
	}
	if visaType != "" {
		d.VisaType = domain.VisaType(visaType)
	}
	if d.VisaType == "" {
		d.VisaType = domain.VisaFree
	}
	return d, nil
}

func visaTypeNames() string {
	names := make([]string, len(domain.VisaTypes))
	for i, v := range domain.VisaTypes {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

func (a *App) deleteTrip(ctx context.Context, args []string) error {
	id, err := parseTripID(args)
	if err != nil {
		return err
	}
	if err := a.session.Trips().Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Trip deleted.")
	return nil
}

func (a *App) complete(ctx context.Context, args []string) error {
	id, err := parseTripID(args)
	if err != nil {
		return err
	}
	trip, err := a.session.Trips().Complete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Trip to %s marked %s.\n", trip.Country, trip.Status)
	return nil
}

// ---- lookups ---------------------------------------------------------------

func (a *App) check(ctx context.Context, args []string) error {
	fs := a.flags("check")
	from := fs.String("from", "", "nationality code (default: your profile)")
	purpose := fs.String("purpose", string(domain.PurposeTourism), "tourism, business or transit")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: check <country-code>", ErrUsage)
	}
	dest := strings.ToUpper(fs.Arg(0))

	nationality := strings.ToUpper(*from)
	if nationality == "" {
		u, ok := a.session.User()
		if !ok {
			return fmt.Errorf("%w: -from is required before onboarding", ErrUsage)
		}
		nationality = u.NationalityCode
	}

	req, err := a.session.CheckRequirementsFor(ctx, domain.RequirementCheck{
		NationalityCode: nationality,
		DestinationCode: dest,
		Purpose:         domain.TravelPurpose(*purpose),
	})
	if err != nil {
		return err
	}
	renderRequirement(a.out, req)
	return nil
}

func (a *App) countries(ctx context.Context, _ []string) error {
	cs, err := a.session.Countries(ctx)
	if err != nil {
		return err
	}
	for _, c := range cs {
		fmt.Fprintf(a.out, "%s  %s\n", c.Code, c.Name)
	}
	return nil
}

// ---- profile ---------------------------------------------------------------

func (a *App) settings(ctx context.Context, args []string) error {
	fs := a.flags("settings")
	notifications := fs.String("notifications", "", "on or off")
	nationality := fs.String("nationality", "", "nationality country code")
	name := fs.String("name", "", "first name")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	var patch domain.UserPatch
	switch strings.ToLower(*notifications) {
	case "":
	case "on":
		patch.NotificationsEnabled = ptr(true)
	case "off":
		patch.NotificationsEnabled = ptr(false)
	default:
		return fmt.Errorf("%w: -notifications must be on or off", ErrUsage)
	}
	if *nationality != "" {
		code := strings.ToUpper(*nationality)
		patch.NationalityCode = &code
		patch.Nationality = ptr(a.countryName(ctx, code))
	}
	if *name != "" {
		patch.FirstName = name
	}

	u, _ := a.session.User()
	if !patch.IsEmpty() {
		var err error
		if u, err = a.session.UpdateUser(ctx, patch); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Settings saved.")
	}

	onOff := "off"
	if u.NotificationsEnabled {
		onOff = "on"
	}
	fmt.Fprintf(a.out, "Name:          %s\n", u.FirstName)
	fmt.Fprintf(a.out, "Nationality:   %s (%s)\n", u.Nationality, u.NationalityCode)
	fmt.Fprintf(a.out, "Notifications: %s\n", onOff)
	fmt.Fprintf(a.out, "Subscription:  %s\n", u.SubscriptionStatus)
	return nil
}

func (a *App) pendingAlerts(ctx context.Context, _ []string) error {
	if a.alerts == nil {
		return fmt.Errorf("%w: alerts are not available", ErrUsage)
	}
	u, _ := a.session.User()
	alerts, err := a.alerts.PendingAlerts(ctx, u.ID)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Fprintln(a.out, "No reminders scheduled.")
		return nil
	}
	for _, al := range alerts {
		fmt.Fprintf(a.out, "%s  %s: %s\n", al.TriggerAt.In(a.loc).Format("2006-01-02 15:04"), al.Title, al.Body)
	}
	return nil
}

func (a *App) logout(_ context.Context, _ []string) error {
	if err := a.session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out. Your data stays on the server.")
	return nil
}

func ptr[T any](v T) *T { return &v }
