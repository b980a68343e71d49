// Package orchestration coordinates a race: it runs every task concurrently
// alongside a timeout task, funnels normalized results into a single-assignment
// Sink, and resolves to the first accepted Outcome. Presentation is decoupled
// through the EventReporter and OutcomePresenter interfaces.
package orchestration
