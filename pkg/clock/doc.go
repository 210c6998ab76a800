// Package clock abstracts periodic callback registration so that pollers can
// be driven by a real ticker in production and by a manually advanced clock in
// tests.
//
// Real wraps time.Ticker. Manual keeps its own notion of time and fires due
// callbacks synchronously from Advance:
//
//	clk := clock.NewManual()
//	stop := clk.Every(30*time.Millisecond, poll)
//	defer stop()
//
//	clk.Advance(30 * time.Millisecond) // poll runs once
package clock
