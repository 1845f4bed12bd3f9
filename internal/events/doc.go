// Package events provides a lightweight in-process event system used by the
// core services to announce committed state changes (ledger entries, card
// reviews) to interested components without direct coupling.
package events
