// Package jobs provides scheduled background tasks for the order
// coordination service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations the service needs.
//
// # Available Jobs
//
// 1. AssignmentExpiryJob - Sweeps orders still waiting on a restaurant and
// force-expires the ones whose pending offers are all past their deadline,
// then nudges the notification endpoint with a check_expired signal.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(expireHandler, uowFactory, gateway, schedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The expiry job defaults to running once a minute. Offers carry a
// fifteen-minute deadline, so a minute of sweep latency is well inside
// the tolerance of the expiry flow; the schedule is configurable for
// deployments that want a tighter loop.
//
// # Error Handling
//
// Per-order sweep failures are logged and skipped so one bad order
// cannot stall the rest of the sweep. The check_expired nudge is
// best-effort and its failure is only logged.
package jobs
