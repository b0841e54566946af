// Package main CargoTrack Server API
//
//	@title			CargoTrack Server API
//	@version		1.0
//	@description	Order state tracking, notification queues and client messaging.
//
//	@host			localhost:8080
//	@BasePath		/api
//
//	@tag.name			Orders
//	@tag.description	Order creation and state transitions
//
//	@tag.name			Clients
//	@tag.description	Order owners
//
//	@tag.name			Notifications
//	@tag.description	Per-user and per-role notification queues
package main
