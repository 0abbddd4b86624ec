package model

import (
	"time"
)

// Collection names double as table names and change-feed channel suffixes.
const (
	CollectionAppointments      = "appointments"
	CollectionPatients          = "patients"
	CollectionProcedures        = "procedures"
	CollectionTransactions      = "transactions"
	CollectionProntuarioEntries = "prontuario_entries"
	CollectionProntuarioFiles   = "prontuario_files"
)

type ChangeAction string

const (
	ChangeInsert ChangeAction = "INSERT"
	ChangeUpdate ChangeAction = "UPDATE"
	ChangeDelete ChangeAction = "DELETE"
)

// ChangeEvent is published after every successful write. Subscribers reload
// the whole collection rather than patching.
type ChangeEvent struct {
	Collection string       `json:"collection"`
	Action     ChangeAction `json:"action"`
	ID         string       `json:"id"`
	At         time.Time    `json:"at"`
}

// ChangeChannel is the broker channel for a collection's change feed.
func ChangeChannel(collection string) string {
	return "changes:" + collection
}

// NotificationsChannel carries recomputed notification lists.
const NotificationsChannel = "notifications"
