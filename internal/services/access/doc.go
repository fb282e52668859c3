// Package access implements the page permission model of the ERP front-end:
// resolving views to governed page keys, evaluating a subject's permission on a
// view, guarding navigation between views and editing the permission records of
// a profile.
//
// Two decisions are hard-coded and never read from stored records: the
// Administrator profile (id "1", or a user carrying the administrator role
// marker) has full access everywhere, and the Dashboard is fully accessible to
// every authenticated subject. Any other (profile, page key) pair without a
// stored record is denied.
package access
