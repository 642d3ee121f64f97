// Package printing contains the Printing bounded context.
// It prices customer print files, groups them into jobs that respect the
// requested binding, and assigns each job to a compatible printer from the
// live fleet using per-category round robin. Print jobs, printers and the
// page-count requests exchanged with the counting worker are modelled here
// as well.
package printing
