// Package app is the composition root of stockroom.
//
// Run loads configuration, opens the log file, builds the product client,
// store and controller, then hands them to the ui package and blocks until
// the operator quits or the context is cancelled:
//
//	config.Load()        config.toml, .env, STOCKROOM_* variables
//	newLogger()          logrus writing to log_file
//	catalog.NewClient()  REST client for the products resource
//	state.New()          product snapshot, refresh errors go to the toaster
//	admin.NewController  form, mutations, delete confirmation
//	StartPoller()        optional, when refresh_interval > 0
//	ui.Run()             Bubble Tea program
//
// Configuration and client construction errors are fatal. Everything after
// the UI starts is reported on screen and in the log instead.
//
// The background poller refreshes the store on a fixed interval and backs
// off exponentially, up to 30 seconds, while refreshes keep failing. With
// refresh_interval at 0 the list is only re-fetched on mount, after writes,
// and when the operator presses r.
package app
