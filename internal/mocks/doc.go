// Package mocks provides hand-written mock implementations of the store
// interfaces for unit testing. Each mock keeps simple in-memory state for
// default behavior and exposes function fields plus error-injection knobs so
// tests can force specific outcomes.
package mocks
