// Package health runs named readiness checks against the site's
// dependencies and aggregates them into one report. The status command
// uses it to show database, cache, and circuit state at a glance.
package health
