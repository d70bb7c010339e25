// Package services holds the failure taxonomy shared by the gateway, the
// capture layer, and the persistence adapter, plus shared service helpers.
package services
