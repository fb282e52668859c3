package access

import (
	"github.com/sirupsen/logrus"

	"github.com/celsoprodesp/Antigravity/internal/entities"
)

// Notifier surfaces a user-visible notice for a blocked navigation
type Notifier interface {
	Notify(err error)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(err error)

// Notify calls f(err)
func (f NotifierFunc) Notify(err error) { f(err) }

// Guard tracks the current view of one session and gates every navigation
// through the evaluator. It is not safe for concurrent use.
type Guard struct {
	evaluator *Evaluator
	subject   entities.Subject

	current  entities.View
	previous entities.View
	selected string

	notifier Notifier
	logger   logrus.FieldLogger
	recorder Recorder
}

// GuardOption customizes a Guard
type GuardOption func(*Guard)

// WithNotifier sets the receiver of denial notices
func WithNotifier(n Notifier) GuardOption {
	return func(g *Guard) { g.notifier = n }
}

// WithGuardLogger sets the logger used for denials
func WithGuardLogger(l logrus.FieldLogger) GuardOption {
	return func(g *Guard) { g.logger = l }
}

// WithGuardRecorder sets the metrics recorder
func WithGuardRecorder(r Recorder) GuardOption {
	return func(g *Guard) { g.recorder = r }
}

// StartingAt opens the guard on view instead of the Dashboard
func StartingAt(view entities.View) GuardOption {
	return func(g *Guard) {
		g.current = view
		g.previous = view
	}
}

// NewGuard creates a guard for subject starting on the Dashboard
func NewGuard(evaluator *Evaluator, subject entities.Subject, opts ...GuardOption) *Guard {
	g := &Guard{
		evaluator: evaluator,
		subject:   subject,
		current:   entities.ViewDashboard,
		previous:  entities.ViewDashboard,
		notifier:  NotifierFunc(func(error) {}),
		logger:    logrus.StandardLogger(),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Navigate moves to target when the subject may read or write it.
// On rejection nothing changes and an *AccessDeniedError is returned.
func (g *Guard) Navigate(target entities.View, entityID string) error {
	d := g.evaluator.Decide(g.subject, target)
	if !d.Permission.CanEnter() {
		err := &AccessDeniedError{View: target, PageKey: d.PageKey, ProfileID: g.subject.ProfileID}
		g.recorder.RecordDenial(string(d.PageKey))
		g.logger.WithFields(logrus.Fields{
			"view":       target,
			"page_key":   d.PageKey,
			"profile_id": g.subject.ProfileID,
		}).Warn("navigation blocked")
		g.notifier.Notify(err)
		return err
	}

	g.previous = g.current
	g.current = target
	if entityID != "" && target.BindsClient() {
		g.selected = entityID
	} else {
		g.selected = ""
	}
	return nil
}

// GoBack returns to the previous view. The permission is not checked again.
func (g *Guard) GoBack() {
	g.current = g.previous
}

// Current returns the view on screen
func (g *Guard) Current() entities.View { return g.current }

// Previous returns the single retained previous view
func (g *Guard) Previous() entities.View { return g.previous }

// SelectedEntity returns the id of the selected client, or "" when none
func (g *Guard) SelectedEntity() string { return g.selected }

// Subject returns the principal the guard evaluates for
func (g *Guard) Subject() entities.Subject { return g.subject }

// SetSubject switches the acting principal and returns to the Dashboard
func (g *Guard) SetSubject(subject entities.Subject) {
	g.subject = subject
	g.current = entities.ViewDashboard
	g.previous = entities.ViewDashboard
	g.selected = ""
}

// Permission evaluates the subject against the current view
func (g *Guard) Permission() entities.Permission {
	return g.evaluator.Evaluate(g.subject, g.current)
}

// Require refuses an action on the current view when the named flag is not granted
func (g *Guard) Require(field entities.PermissionField) error {
	p := g.Permission()
	var ok bool
	switch field {
	case entities.FieldRead:
		ok = p.CanRead
	case entities.FieldWrite:
		ok = p.CanWrite
	case entities.FieldDelete:
		ok = p.CanDelete
	}
	if ok {
		return nil
	}

	key := ResolvePageKey(g.current)
	g.recorder.RecordDenial(string(key))
	g.logger.WithFields(logrus.Fields{
		"view":       g.current,
		"page_key":   key,
		"profile_id": g.subject.ProfileID,
		"action":     field,
	}).Warn("action blocked")
	return &AccessDeniedError{View: g.current, PageKey: key, ProfileID: g.subject.ProfileID, Action: field}
}
