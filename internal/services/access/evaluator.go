package access

import (
	"github.com/celsoprodesp/Antigravity/internal/entities"
)

// Reason tags which branch of the evaluation produced a decision
type Reason int

const (
	// ReasonNoRecord means no record exists for the resolved key; access is denied
	ReasonNoRecord Reason = iota
	// ReasonRecord means the stored record's flags were returned verbatim
	ReasonRecord
	// ReasonDashboard means the Dashboard is always fully accessible
	ReasonDashboard
	// ReasonAdministrator means the subject bypasses stored records
	ReasonAdministrator
)

func (r Reason) String() string {
	switch r {
	case ReasonRecord:
		return "record"
	case ReasonDashboard:
		return "dashboard"
	case ReasonAdministrator:
		return "administrator"
	default:
		return "no_record"
	}
}

// Decision is the outcome of evaluating a subject against a view
type Decision struct {
	View       entities.View
	PageKey    entities.PageKey
	Permission entities.Permission
	Reason     Reason
}

// RecordLookup finds the stored record of a (profile, page key) pair
type RecordLookup interface {
	Lookup(profileID string, key entities.PageKey) (*entities.PermissionRecord, bool)
}

// Evaluator computes effective permissions
type Evaluator struct {
	records  RecordLookup
	recorder Recorder
}

// NewEvaluator creates an evaluator over records. recorder may be nil.
func NewEvaluator(records RecordLookup, recorder Recorder) *Evaluator {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Evaluator{records: records, recorder: recorder}
}

// Decide evaluates subject against view. It never fails: a missing record is a denial.
func (e *Evaluator) Decide(subject entities.Subject, view entities.View) Decision {
	d := e.decide(subject, view)
	e.recorder.RecordDecision(d.Reason.String())
	return d
}

func (e *Evaluator) decide(subject entities.Subject, view entities.View) Decision {
	key := ResolvePageKey(view)

	if subject.IsAdministrator() {
		return Decision{View: view, PageKey: key, Permission: entities.FullAccess(), Reason: ReasonAdministrator}
	}

	if view == entities.ViewDashboard {
		return Decision{View: view, PageKey: key, Permission: entities.FullAccess(), Reason: ReasonDashboard}
	}

	rec, ok := e.records.Lookup(subject.ProfileID, key)
	if !ok {
		return Decision{View: view, PageKey: key, Permission: entities.Denied(), Reason: ReasonNoRecord}
	}
	return Decision{View: view, PageKey: key, Permission: rec.Permission, Reason: ReasonRecord}
}

// Evaluate returns the effective permission of subject on view
func (e *Evaluator) Evaluate(subject entities.Subject, view entities.View) entities.Permission {
	return e.Decide(subject, view).Permission
}
