// Package jobs provides scheduled background tasks for the cylinder
// tracking system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic sweeps the order lifecycle requires.
//
// # Available Jobs
//
// 1. InvoiceSubmissionJob - Runs every minute to push InvoiceReady orders to ERP invoice staging
// 2. CustomerHoldRetryJob - Runs every five minutes to chase customers whose hold retry time has passed
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(uowFactory, submitInvoiceHandler, notifier, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Both sweeps are idempotent: submitted invoices drop out of the candidate
// set and hold notifications are receipts, not state changes. A failure on
// one order is logged and never stops the rest of the sweep.
package jobs
